// Package companybrowser provides a popup for browsing and filtering the
// companies the resolution service knows.
package companybrowser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"

	"github.com/nhath/irfinder/internal/company"
	eztable "github.com/nhath/irfinder/internal/ui/components/table"
)

// Lister is the catalog backend, normally *lookup.Client
type Lister interface {
	Companies(ctx context.Context) ([]company.Candidate, error)
}

// CompaniesLoadedMsg is sent when the listing arrives
type CompaniesLoadedMsg struct {
	Companies []company.Candidate
	Err       error
}

// SelectedMsg is sent when a company is chosen
type SelectedMsg struct {
	Candidate company.Candidate
}

// ClosedMsg is sent when the browser is dismissed
type ClosedMsg struct{}

const (
	colTicker   = "ticker"
	colName     = "name"
	colExchange = "exchange"
	colCountry  = "country"
	colIndex    = "_index"
)

// Styles for the browser
type Styles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Error     lipgloss.Style
	Spinner   lipgloss.Style
	Footer    lipgloss.Style
}

// DefaultStyles returns default styling using Nord palette
func DefaultStyles() Styles {
	return Styles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#8FBCBB")).
			Padding(1, 2),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#88C0D0")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BF616A")),
		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8FBCBB")),
		Footer: lipgloss.NewStyle().Faint(true),
	}
}

// Model represents the browser state
type Model struct {
	visible  bool
	loading  bool
	all      []company.Candidate
	shown    []company.Candidate
	err      error
	width    int
	height   int
	filter   textinput.Model
	table    table.Model
	spinner  spinner.Model
	styles   Styles
	pageSize int
}

// New creates a hidden browser
func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "filter by ticker or name"
	ti.Prompt = "/ "

	m := Model{
		styles:   DefaultStyles(),
		spinner:  s,
		filter:   ti,
		pageSize: 10,
	}
	m.spinner.Style = m.styles.Spinner
	m.table = m.buildTable()
	return m
}

// SetSize sets the available screen size
func (m Model) SetSize(w, h int) Model {
	m.width = w
	m.height = h
	m.pageSize = max(3, min(15, h-16))
	m.table = m.buildTable()
	return m
}

// Show opens the browser with an empty filter
func (m Model) Show() Model {
	m.visible = true
	m.filter.SetValue("")
	m.filter.Focus()
	m.applyFilter()
	return m
}

// Hide closes the browser
func (m Model) Hide() Model {
	m.visible = false
	m.filter.Blur()
	return m
}

// IsVisible returns visibility state
func (m Model) IsVisible() bool {
	return m.visible
}

// Loaded reports whether a listing has been received
func (m Model) Loaded() bool {
	return m.all != nil
}

// StartLoading begins loading state
func (m Model) StartLoading() (Model, tea.Cmd) {
	m.loading = true
	return m, m.spinner.Tick
}

// SetCompanies stores the listing and stops loading
func (m Model) SetCompanies(list []company.Candidate, err error) Model {
	m.loading = false
	m.err = err
	if err == nil {
		m.all = list
		if m.all == nil {
			m.all = []company.Candidate{}
		}
	}
	m.applyFilter()
	return m
}

// Shown returns the companies matching the filter
func (m Model) Shown() []company.Candidate {
	return m.shown
}

// LoadCompaniesCmd fetches the listing
func LoadCompaniesCmd(l Lister) tea.Cmd {
	return func() tea.Msg {
		list, err := l.Companies(context.Background())
		return CompaniesLoadedMsg{Companies: list, Err: err}
	}
}

func (m *Model) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.shown = nil
	for _, c := range m.all {
		if q == "" || strings.Contains(strings.ToLower(c.Ticker), q) || strings.Contains(strings.ToLower(c.CompanyName), q) {
			m.shown = append(m.shown, c)
		}
	}
	m.table = m.buildTable()
}

func (m Model) buildTable() table.Model {
	nameW := max(20, min(100, m.width-8)-10-12-18-14)
	cols := []table.Column{
		table.NewColumn(colTicker, "Ticker", 10),
		table.NewColumn(colName, "Company", nameW),
		table.NewColumn(colExchange, "Exchange", 12),
		table.NewColumn(colCountry, "Country", 18),
	}
	rows := make([]table.Row, 0, len(m.shown))
	for i, c := range m.shown {
		rows = append(rows, table.NewRow(table.RowData{
			colTicker:   c.Ticker,
			colName:     c.CompanyName,
			colExchange: c.Exchange,
			colCountry:  c.Country,
			colIndex:    i,
		}))
	}
	return eztable.New(cols).
		WithRows(rows).
		WithPageSize(m.pageSize).
		WithStaticFooter(fmt.Sprintf("%d of %d", len(m.shown), len(m.all)))
}

// Highlighted returns the company under the table cursor
func (m Model) Highlighted() (company.Candidate, bool) {
	i, ok := m.table.HighlightedRow().Data[colIndex].(int)
	if !ok || i < 0 || i >= len(m.shown) {
		return company.Candidate{}, false
	}
	return m.shown[i], true
}

// Update handles input
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible && !m.loading {
		return m, nil
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m = m.Hide()
			return m, func() tea.Msg { return ClosedMsg{} }
		case "enter":
			c, ok := m.Highlighted()
			if !ok {
				return m, nil
			}
			m = m.Hide()
			return m, func() tea.Msg { return SelectedMsg{Candidate: c} }
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

		before := m.filter.Value()
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.applyFilter()
		}
		return m, cmd
	}
	return m, nil
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// View renders the browser popup
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	w := max(40, min(100, m.width-4))
	if m.loading {
		return m.styles.Container.
			Width(w).
			Render(fmt.Sprintf("%s Loading companies...", m.spinner.View()))
	}

	var view strings.Builder
	view.WriteString(m.styles.Title.Render("Companies"))
	view.WriteString("\n\n")
	view.WriteString(m.filter.View())
	view.WriteString("\n\n")

	switch {
	case m.err != nil:
		view.WriteString(m.styles.Error.Render("Could not load companies: " + m.err.Error()))
	case len(m.shown) == 0:
		view.WriteString("No matches")
	default:
		view.WriteString(m.table.View())
	}

	view.WriteString("\n")
	view.WriteString(m.styles.Footer.Render("type to filter • ↑/↓ move • enter use • esc close"))

	return m.styles.Container.Width(w).Render(view.String())
}
