// Package suggestions provides the company autocomplete dropdown.
package suggestions

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/irfinder/internal/company"
)

// Markers shown next to each candidate, by confidence tier
var Markers = map[company.Tier]string{
	company.TierHigh:   "●●●",
	company.TierMedium: "●●○",
	company.TierLow:    "●○○",
}

const (
	// NoMatchesText is the empty state, distinct from the error state
	NoMatchesText = "No matches"
	loadingText   = "Searching..."
)

// Styles for the suggestions dropdown
type Styles struct {
	Box      lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Loading  lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
	Label    lipgloss.Style
	High     lipgloss.Style
	Medium   lipgloss.Style
	Low      lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6272A4")).
			Padding(0, 1),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#282A36")).
			Background(lipgloss.Color("#8BE9FD")),
		Loading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")).
			Italic(true),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#BD93F9")),
		High:   lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B")),
		Medium: lipgloss.NewStyle().Foreground(lipgloss.Color("#F1FA8C")),
		Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
	}
}

// Model is the dropdown state. selected is -1 when nothing is highlighted.
type Model struct {
	items    []company.Candidate
	selected int
	offset   int
	visible  bool
	loading  bool
	err      error
	maxShow  int
	width    int
	styles   Styles
}

// New creates a new suggestions model
func New() Model {
	return Model{
		items:    []company.Candidate{},
		selected: -1,
		maxShow:  6,
		width:    60,
		styles:   DefaultStyles(),
	}
}

// SetItems replaces the candidates, keeping service order. The highlight resets.
func (m Model) SetItems(items []company.Candidate) Model {
	if items == nil {
		items = []company.Candidate{}
	}
	m.items = items
	m.selected = -1
	m.offset = 0
	m.err = nil
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetMaxShow sets maximum visible items
func (m Model) SetMaxShow(n int) Model {
	if n > 0 {
		m.maxShow = n
	}
	return m
}

// SetWidth sets the outer width of the box
func (m Model) SetWidth(w int) Model {
	if w > 10 {
		m.width = w
	}
	return m
}

// Show makes the dropdown visible
func (m Model) Show() Model {
	m.visible = true
	return m
}

// Hide closes the dropdown and clears the highlight
func (m Model) Hide() Model {
	m.visible = false
	m.selected = -1
	m.offset = 0
	return m
}

// SetLoading sets loading state
func (m Model) SetLoading(loading bool) Model {
	m.loading = loading
	return m
}

// SetError switches to the error state; the list is emptied
func (m Model) SetError(err error) Model {
	m.err = err
	if err != nil {
		m.items = []company.Candidate{}
		m.selected = -1
		m.offset = 0
	}
	return m
}

func (m Model) Visible() bool { return m.visible }
func (m Model) Loading() bool { return m.loading }
func (m Model) Err() error    { return m.err }

// Selected returns the highlighted index, or -1
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the highlighted candidate
func (m Model) SelectedItem() (company.Candidate, bool) {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected], true
	}
	return company.Candidate{}, false
}

// Items returns all items
func (m Model) Items() []company.Candidate {
	return m.items
}

// Len returns number of items
func (m Model) Len() int {
	return len(m.items)
}

// MoveUp moves the highlight up, stopping at "none" (-1)
func (m Model) MoveUp() Model {
	if m.selected > -1 {
		m.selected--
	}
	return m.scroll()
}

// MoveDown moves the highlight down, stopping at the last item
func (m Model) MoveDown() Model {
	if m.selected < len(m.items)-1 {
		m.selected++
	}
	return m.scroll()
}

// Highlight sets the highlight directly; out of range means none
func (m Model) Highlight(i int) Model {
	if i < 0 || i >= len(m.items) {
		i = -1
	}
	m.selected = i
	return m.scroll()
}

func (m Model) scroll() Model {
	if m.selected < 0 {
		return m
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.maxShow {
		m.offset = m.selected - m.maxShow + 1
	}
	return m
}

// Update handles messages (currently passthrough)
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// ItemAt maps a point relative to the box origin to a candidate index.
// The box has a one-cell border, so rows start at y=1.
func (m Model) ItemAt(x, y int) int {
	if !m.visible || m.loading || m.err != nil || !m.Contains(x, y) {
		return -1
	}
	row := y - 1
	if row < 0 || row >= m.shown() {
		return -1
	}
	return m.offset + row
}

// Contains reports whether a point relative to the box origin hits the box
func (m Model) Contains(x, y int) bool {
	if !m.visible {
		return false
	}
	return x >= 0 && x < m.width && y >= 0 && y < m.Height()
}

// Height is the rendered height including the border
func (m Model) Height() int {
	if !m.visible {
		return 0
	}
	rows := m.shown()
	if rows == 0 {
		rows = 1
	}
	return rows + 2
}

func (m Model) shown() int {
	if m.loading || m.err != nil {
		return 0
	}
	n := len(m.items) - m.offset
	if n > m.maxShow {
		n = m.maxShow
	}
	if n < 0 {
		n = 0
	}
	return n
}

// View renders the suggestions dropdown
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	box := m.styles.Box.Width(m.width - 2)
	inner := m.width - 4

	switch {
	case m.loading:
		return box.Render(m.styles.Loading.Render(loadingText))
	case m.err != nil:
		return box.Render(m.styles.Error.Render(truncate("Lookup failed: "+m.err.Error(), inner)))
	case len(m.items) == 0:
		return box.Render(m.styles.Empty.Render(NoMatchesText))
	}

	var views []string
	for i := m.offset; i < m.offset+m.shown(); i++ {
		views = append(views, m.renderItem(i, inner))
	}
	return box.Render(strings.Join(views, "\n"))
}

func (m Model) renderItem(i, width int) string {
	c := m.items[i]
	marker := Markers[c.Tier()]
	label := c.MatchType.Label()

	prefix := "  "
	style := m.styles.Item
	if i == m.selected {
		prefix = "> "
		style = m.styles.Selected
	}

	right := marker
	if label != "" {
		right = fmt.Sprintf("%-11s %s", label, marker)
	}
	leftWidth := width - lipgloss.Width(prefix) - lipgloss.Width(right) - 1
	left := fmt.Sprintf("%-9s %s", c.Ticker, c.CompanyName)
	if c.Exchange != "" {
		left += " · " + c.Exchange
	}
	left = truncate(left, leftWidth)
	pad := leftWidth - lipgloss.Width(left)
	if pad < 0 {
		pad = 0
	}

	if i == m.selected {
		return style.Render(prefix + left + strings.Repeat(" ", pad) + " " + right)
	}
	return style.Render(prefix+left+strings.Repeat(" ", pad)+" ") +
		m.styles.Label.Render(labelPart(right, marker)) +
		m.tierStyle(c.Tier()).Render(marker)
}

func labelPart(right, marker string) string {
	return strings.TrimSuffix(right, marker)
}

func (m Model) tierStyle(t company.Tier) lipgloss.Style {
	switch t {
	case company.TierHigh:
		return m.styles.High
	case company.TierMedium:
		return m.styles.Medium
	default:
		return m.styles.Low
	}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
