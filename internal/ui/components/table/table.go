// Package table renders report search results with bubble-table.
package table

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	bbtable "github.com/evertras/bubble-table/table"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/search"
)

// Nord colors (matching OpenCode theme)
var (
	ColorForeground = "#D8DEE9" // Nord4: Light gray
	ColorComment    = "#4C566A" // Nord3: Dark gray
	ColorCyan       = "#88C0D0" // Nord8: Cyan blue
	ColorGreen      = "#A3BE8C" // Nord14: Green
	ColorOrange     = "#D08770" // Nord12: Orange
	ColorPurple     = "#B48EAD" // Nord15: Purple
	ColorYellow     = "#EBCB8B" // Nord13: Yellow
	ColorTeal       = "#8FBCBB" // Nord7: Teal
)

// Column keys
const (
	ColYear    = "year"
	ColType    = "type"
	ColQuarter = "quarter"
	ColTitle   = "title"
	ColSource  = "source"
	ColURL     = "url"

	// rowIndex is kept in row data but never shown
	rowIndex = "_index"
)

// Init applies the configured palette
func Init(theme config.Theme) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&ColorForeground, theme.TextPrimary)
	set(&ColorComment, theme.TextFaint)
	set(&ColorCyan, theme.Accent)
	set(&ColorGreen, theme.Success)
	set(&ColorOrange, theme.Warning)
	set(&ColorTeal, theme.Highlight)
}

// New creates a new bubble-table with the Nord palette (no background)
func New(cols []bbtable.Column) bbtable.Model {
	return bbtable.New(cols).
		WithBaseStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorForeground))).
		HeaderStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorTeal)).
			Bold(true)).
		HighlightStyle(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorGreen)).
			Bold(true)).
		Focused(true).
		BorderRounded()
}

// FromResponse builds the results table, sized to width
func FromResponse(resp *search.Response, width int) bbtable.Model {
	if resp == nil || len(resp.Reports) == 0 {
		return New(nil)
	}

	fixed := map[string]int{ColYear: 6, ColType: 13, ColQuarter: 4, ColSource: 12}
	rest := width - 6*3 - fixed[ColYear] - fixed[ColType] - fixed[ColQuarter] - fixed[ColSource]
	if rest < 30 {
		rest = 30
	}
	titleW := rest * 2 / 5
	urlW := rest - titleW

	cols := []bbtable.Column{
		bbtable.NewColumn(ColYear, "Year", fixed[ColYear]),
		bbtable.NewColumn(ColType, "Type", fixed[ColType]),
		bbtable.NewColumn(ColQuarter, "Q", fixed[ColQuarter]),
		bbtable.NewColumn(ColTitle, "Title", titleW),
		bbtable.NewColumn(ColSource, "Source", fixed[ColSource]),
		bbtable.NewColumn(ColURL, "URL", urlW),
	}

	rows := make([]bbtable.Row, 0, len(resp.Reports))
	for i, r := range resp.Reports {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		rows = append(rows, bbtable.NewRow(bbtable.RowData{
			ColYear:    bbtable.NewStyledCell(year, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPurple))),
			ColType:    bbtable.NewStyledCell(r.Type, TypeStyle(r.Type)),
			ColQuarter: r.Quarter,
			ColTitle:   truncate(r.Title, titleW-2),
			ColSource:  bbtable.NewStyledCell(r.Source, lipgloss.NewStyle().Foreground(lipgloss.Color(ColorComment))),
			ColURL:     bbtable.NewStyledCell(truncate(r.URL, urlW-2), lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan))),
			rowIndex:   i,
		}))
	}

	return New(cols).
		WithRows(rows).
		WithPageSize(12).
		WithStaticFooter(fmt.Sprintf("%d report(s) · enter details · esc back", len(rows)))
}

// ReportAt returns the report under the table highlight
func ReportAt(t bbtable.Model, resp *search.Response) (search.Report, bool) {
	if resp == nil || len(resp.Reports) == 0 {
		return search.Report{}, false
	}
	i, ok := t.HighlightedRow().Data[rowIndex].(int)
	if !ok || i < 0 || i >= len(resp.Reports) {
		return search.Report{}, false
	}
	return resp.Reports[i], true
}

// TypeStyle colors a report type: annual filings, quarterly filings, the rest
func TypeStyle(kind string) lipgloss.Style {
	k := strings.ToLower(kind)
	switch {
	case strings.Contains(k, "annual") || strings.Contains(k, "10-k") || strings.Contains(k, "20-f"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen))
	case strings.Contains(k, "quarter") || strings.Contains(k, "10-q") || strings.Contains(k, "interim"):
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOrange))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
