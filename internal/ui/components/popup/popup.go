// Package popup provides a scrollable modal used for help, settings,
// history and report details.
package popup

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles for the popup
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#88C0D0")).
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D8DEE9")),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// ClosedMsg is emitted when the user dismisses the popup
type ClosedMsg struct {
	Title string
}

// Model represents the popup state
type Model struct {
	visible  bool
	title    string
	lines    []string
	footer   string
	offset   int
	maxWidth int
	bodyRows int
	screenW  int
	screenH  int
	styles   Styles
}

// chrome is the number of rows taken by border, padding, title and footer
const chrome = 8

// New creates a new popup model
func New() Model {
	return Model{
		maxWidth: 100,
		bodyRows: 20,
		styles:   DefaultStyles(),
	}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetScreenSize sets the screen dimensions used for sizing
func (m Model) SetScreenSize(w, h int) Model {
	m.screenW = w
	m.screenH = h
	m.maxWidth = max(20, min(100, w-4))
	m.bodyRows = max(3, h-chrome)
	m.offset = m.clamp(m.offset)
	return m
}

// Show makes the popup visible with content scrolled to the top
func (m Model) Show(title, content, footer string) Model {
	m.visible = true
	m.title = title
	m.lines = strings.Split(content, "\n")
	m.footer = footer
	m.offset = 0
	return m
}

// Hide hides the popup
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible returns visibility state
func (m Model) Visible() bool {
	return m.visible
}

// Title of the popup currently shown
func (m Model) Title() string {
	return m.title
}

// Offset is the first visible content line
func (m Model) Offset() int {
	return m.offset
}

func (m Model) clamp(off int) int {
	top := len(m.lines) - m.bodyRows
	if off > top {
		off = top
	}
	if off < 0 {
		off = 0
	}
	return off
}

// Scroll moves the viewport by delta lines
func (m Model) Scroll(delta int) Model {
	m.offset = m.clamp(m.offset + delta)
	return m
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.visible = false
			title := m.title
			return m, func() tea.Msg { return ClosedMsg{Title: title} }
		case "up", "k":
			m = m.Scroll(-1)
		case "down", "j":
			m = m.Scroll(1)
		case "pgup", "ctrl+u":
			m = m.Scroll(-m.bodyRows)
		case "pgdown", "ctrl+f", " ":
			m = m.Scroll(m.bodyRows)
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = m.clamp(len(m.lines))
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m = m.Scroll(-3)
		case tea.MouseButtonWheelDown:
			m = m.Scroll(3)
		}
	}

	return m, nil
}

// View renders the popup box
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder

	if m.title != "" {
		b.WriteString(m.styles.Header.Render(m.title))
		b.WriteString("\n\n")
	}

	end := min(len(m.lines), m.offset+m.bodyRows)
	b.WriteString(m.styles.Body.Render(strings.Join(m.lines[m.offset:end], "\n")))

	footer := m.footer
	if len(m.lines) > m.bodyRows {
		pos := fmt.Sprintf("%d-%d/%d", m.offset+1, end, len(m.lines))
		if footer != "" {
			footer = pos + " · " + footer
		} else {
			footer = pos
		}
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Footer.Render(footer))
	}

	return m.styles.Box.
		Width(m.maxWidth).
		Render(b.String())
}
