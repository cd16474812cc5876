// Package constants provides shared constants for the gibill-forecast application.
package constants

// DateLayout is the format expected for dates in scenario files.
const DateLayout = "2006-01-02"

// MonthLayout is the output format for forecast months.
const MonthLayout = "2006-01"

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Benefit defaults
const (
	// DefaultFullMHA is the full monthly housing allowance used when no rate
	// table entry or override exists for a ZIP.
	DefaultFullMHA = 4000.0

	// NotEnrolledLabel is the enrollment label for months outside every term.
	NotEnrolledLabel = "Not enrolled"
)

// Forecast window limits
const (
	// MaxForecastMonths bounds the number of monthly snapshots one forecast may produce.
	MaxForecastMonths = 60

	// RecommendedWindowDays is the longest window the planning tool is tuned for;
	// longer windows are allowed but produce a configuration warning.
	RecommendedWindowDays = 366
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatTable is the bordered terminal table format
	OutputFormatTable = "table"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example scenario file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "GIBILL"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML scenarios (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
