package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		dateStr  string
		expected string
	}{
		{
			name:     "Valid date",
			layout:   DateLayout,
			dateStr:  "2025-01-15",
			expected: "2025-01-15",
		},
		{
			name:     "Valid month",
			layout:   MonthLayout,
			dateStr:  "2030-12",
			expected: "2030-12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(tt.layout, tt.dateStr)
			if result.Format(tt.layout) != tt.expected {
				t.Errorf("MustParseTime() = %s, expected %s", result.Format(tt.layout), tt.expected)
			}
		})
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateLayout, "invalid-date")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"Full date", "2025-01-15", "2025-01-15", false},
		{"Bare month", "2025-03", "2025-03-01", false},
		{"Surrounding whitespace", " 2025-09-02 ", "2025-09-02", false},
		{"Garbage", "next tuesday", "", true},
		{"Impossible day", "2025-02-30", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error, got %v", tt.input, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error = %v", tt.input, err)
			}
			if got := result.Format(DateLayout); got != tt.expected {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMonthsInWindow(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected []string
	}{
		{
			name:     "Mid-month start and end",
			start:    "2025-01-15",
			end:      "2025-03-10",
			expected: []string{"2025-01", "2025-02", "2025-03"},
		},
		{
			name:     "Same day",
			start:    "2025-06-20",
			end:      "2025-06-20",
			expected: []string{"2025-06"},
		},
		{
			name:     "Year boundary",
			start:    "2025-11-30",
			end:      "2026-02-01",
			expected: []string{"2025-11", "2025-12", "2026-01", "2026-02"},
		},
		{
			name:     "Inverted window",
			start:    "2025-05-01",
			end:      "2025-03-01",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := MustParseTime(DateLayout, tt.start)
			end := MustParseTime(DateLayout, tt.end)

			months := MonthsInWindow(start, end)
			if len(months) != len(tt.expected) {
				t.Fatalf("MonthsInWindow() returned %d months, expected %d", len(months), len(tt.expected))
			}
			for i, month := range months {
				if month.Day() != 1 {
					t.Errorf("month %d is not the first of the month: %s", i, month.Format(DateLayout))
				}
				if got := month.Format(MonthLayout); got != tt.expected[i] {
					t.Errorf("month %d = %s, expected %s", i, got, tt.expected[i])
				}
			}
			if got := CountMonths(start, end); got != len(tt.expected) {
				t.Errorf("CountMonths() = %d, expected %d", got, len(tt.expected))
			}
		})
	}
}

func TestMonthStartDropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)
	input := time.Date(2025, time.July, 31, 23, 30, 0, 0, loc)

	got := MonthStart(input)
	want := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthStart() = %v, expected %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	start := MustParseTime(DateLayout, "2025-01-01")
	end := MustParseTime(DateLayout, "2026-01-02")
	if got := DaysBetween(start, end); got != 366 {
		t.Errorf("DaysBetween() = %d, expected 366", got)
	}
}
