// Package ambiguity is the modal that asks which of several companies the
// user meant before a search is sent.
package ambiguity

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/irfinder/internal/company"
)

// PickedMsg is sent when the user chooses a company
type PickedMsg struct {
	Index     int
	Candidate company.Candidate
}

// CancelledMsg is sent when the user backs out; nothing should be searched
type CancelledMsg struct{}

// Styles for the modal
type Styles struct {
	Box      lipgloss.Style
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#D08770")).
			Padding(0, 2),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EBCB8B")),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("#2E3440")).Background(lipgloss.Color("#88C0D0")),
		Footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A")).Italic(true),
	}
}

// headerRows is the number of lines above the first choice inside the box:
// border, title, blank line
const headerRows = 3

// Model is the modal state
type Model struct {
	visible  bool
	query    string
	choices  []company.Candidate
	selected int
	width    int
	styles   Styles
}

// New creates a hidden modal
func New() Model {
	return Model{width: 64, styles: DefaultStyles()}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetWidth sets the outer width of the box
func (m Model) SetWidth(w int) Model {
	if w > 20 {
		m.width = w
	}
	return m
}

// Show opens the modal for query over choices, first one highlighted
func (m Model) Show(query string, choices []company.Candidate) Model {
	m.visible = true
	m.query = query
	m.choices = choices
	m.selected = 0
	return m
}

// Hide closes the modal
func (m Model) Hide() Model {
	m.visible = false
	m.choices = nil
	m.selected = 0
	return m
}

func (m Model) Visible() bool                { return m.visible }
func (m Model) Selected() int                { return m.selected }
func (m Model) Choices() []company.Candidate { return m.choices }

// Width and Height are the outer size of the rendered box
func (m Model) Width() int { return m.width }

func (m Model) Height() int {
	// border + title + blank + choices + blank + footer + border
	return len(m.choices) + 6
}

// ItemAt maps a point relative to the box origin to a choice index, or -1
func (m Model) ItemAt(x, y int) int {
	if !m.visible || x < 0 || x >= m.width {
		return -1
	}
	i := y - headerRows
	if i < 0 || i >= len(m.choices) {
		return -1
	}
	return i
}

// Update handles keys and pointer events already translated to box
// coordinates by the caller (see Mouse)
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up", "k", "shift+tab":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j", "tab":
			if m.selected < len(m.choices)-1 {
				m.selected++
			}
		case "enter":
			return m.pick(m.selected)
		case "esc", "q":
			return m.cancel()
		default:
			// digits pick directly
			if s := keyMsg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				if i := int(s[0] - '1'); i < len(m.choices) {
					return m.pick(i)
				}
			}
		}
	}
	return m, nil
}

// Mouse handles a pointer event at (x, y) relative to the box origin.
// inside is false when the event landed outside the box.
func (m Model) Mouse(msg tea.MouseMsg, x, y int, inside bool) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	i := -1
	if inside {
		i = m.ItemAt(x, y)
	}
	switch msg.Action {
	case tea.MouseActionMotion:
		if i >= 0 {
			m.selected = i
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if i >= 0 {
			return m.pick(i)
		}
	}
	return m, nil
}

func (m Model) pick(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.choices) {
		return m, nil
	}
	c := m.choices[i]
	m = m.Hide()
	return m, func() tea.Msg { return PickedMsg{Index: i, Candidate: c} }
}

func (m Model) cancel() (Model, tea.Cmd) {
	m = m.Hide()
	return m, func() tea.Msg { return CancelledMsg{} }
}

// View renders the modal box; the caller centres it over the screen
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	inner := m.width - 6

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(truncate(fmt.Sprintf("Which %q did you mean?", m.query), inner)))
	b.WriteString("\n\n")
	for i, c := range m.choices {
		line := fmt.Sprintf("%d. %-9s %s", i+1, c.Ticker, c.CompanyName)
		detail := strings.Join(nonEmpty(c.Exchange, c.Country), ", ")
		if detail != "" {
			line += " (" + detail + ")"
		}
		line = truncate(line, inner)
		if i == m.selected {
			b.WriteString(m.styles.Selected.Width(inner).Render(line))
		} else {
			b.WriteString(m.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("enter/click choose · esc cancel search"))

	return m.styles.Box.Width(m.width - 2).Render(b.String())
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n <= 3 {
		return s
	}
	return string(r[:n-3]) + "..."
}
