package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iwvelando/gibill-forecast/internal/forecast"
	"github.com/iwvelando/gibill-forecast/pkg/format"
	"github.com/iwvelando/gibill-forecast/pkg/mathutil"
)

var (
	colorBorder = lipgloss.Color("#282726")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorDim    = lipgloss.Color("#575653")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorText)

	positiveStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	negativeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// Table is a bordered text table.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks columns rendered flush right, such as amounts.
	RightAlign []bool
	// Negative marks individual cells to highlight, keyed by row then column.
	Negative map[int]map[int]bool
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	pad := func(col int, cell string) string {
		if col < len(t.RightAlign) && t.RightAlign[col] {
			return fmt.Sprintf(" %*s ", widths[col], cell)
		}
		return fmt.Sprintf(" %-*s ", widths[col], cell)
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(pad(i, h)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for r, row := range t.Rows {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style := valueStyle
			if t.Negative[r][i] {
				style = negativeStyle
			}
			b.WriteString(style.Render(pad(i, cell)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule("╰", "┴", "╯"))

	return b.String()
}

// TableFormat outputs the estimate and the forecast as bordered tables.
func TableFormat(w io.Writer, result *forecast.Result) {
	fmt.Fprintln(w, RenderTitle("GI Bill Forecast"))
	fmt.Fprintln(w)

	estimate := Table{
		Title:      "Benefits",
		Headers:    []string{"Item", "Amount"},
		RightAlign: []bool{false, true},
		Rows: [][]string{
			{"Monthly housing", format.Currency(result.Estimate.MonthlyHousing)},
			{"Books this term", format.Currency(result.Estimate.BooksForTerm)},
			{"Tuition covered", format.Currency(result.Estimate.TuitionCovered)},
			{"Tuition out of pocket", format.Currency(result.Estimate.TuitionOutOfPocket)},
		},
	}
	fmt.Fprint(w, RenderTable(estimate))
	fmt.Fprintln(w)

	cashflow := Table{
		Title:      "Cashflow",
		Headers:    []string{"Month", "Enrollment", "Housing", "Income", "Expenses", "Net", "Balance"},
		RightAlign: []bool{false, false, true, true, true, true, true},
		Negative:   make(map[int]map[int]bool),
	}
	for i, s := range result.Snapshots {
		cashflow.Rows = append(cashflow.Rows, []string{
			format.Month(s.Month),
			s.Enrollment,
			format.Currency(s.Housing),
			format.Currency(s.TotalIncome),
			format.Currency(s.TotalExpenses),
			format.Currency(s.NetCash),
			format.Currency(s.Balance),
		})
		cashflow.Negative[i] = map[int]bool{5: mathutil.IsNegative(s.NetCash), 6: mathutil.IsNegative(s.Balance)}
	}
	fmt.Fprint(w, RenderTable(cashflow))
	fmt.Fprintln(w)

	summary := result.Summary
	runway := positiveStyle.Render(fmt.Sprintf("never negative over %d months", summary.Months))
	if summary.FirstNegative != nil {
		runway = negativeStyle.Render(fmt.Sprintf("%d months (negative in %s)",
			summary.RunwayMonths, format.Month(*summary.FirstNegative)))
	}
	fmt.Fprintf(w, "  %s %s\n", headerStyle.Render("Final balance:"), valueStyle.Render(format.WholeCurrency(summary.FinalBalance)))
	fmt.Fprintf(w, "  %s %s\n", headerStyle.Render("Lowest balance:"), valueStyle.Render(format.WholeCurrency(summary.MinBalance)))
	fmt.Fprintf(w, "  %s %s\n", headerStyle.Render("Runway:"), runway)
}
