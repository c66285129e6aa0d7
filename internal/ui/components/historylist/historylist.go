// Package historylist provides a scrollable list of past searches with
// selection and expansion.
package historylist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item represents a single list item
type Item interface {
	ID() int64
	Prompt() string
	PromptPreview(maxLen int) string
	Ticker() string
	Status() string
	Summary() string
	Message() string
	ExecutedAtFormatted() string
}

// Styles for the list
type Styles struct {
	Item        lipgloss.Style
	Selected    lipgloss.Style
	Prompt      lipgloss.Style
	Ticker      lipgloss.Style
	Meta        lipgloss.Style
	Error       lipgloss.Style
	SuccessIcon lipgloss.Style
	ErrorIcon   lipgloss.Style
	Faint       lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	textFaint := lipgloss.Color("#4C566A")
	successColor := lipgloss.Color("#A3BE8C")
	errorColor := lipgloss.Color("#BF616A")

	return Styles{
		Item:        lipgloss.NewStyle().PaddingLeft(1),
		Selected:    lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("#3B4252")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("#88C0D0")).Bold(true),
		Ticker:      lipgloss.NewStyle().Foreground(lipgloss.Color("#EBCB8B")).Bold(true),
		Meta:        lipgloss.NewStyle().Foreground(textFaint),
		Error:       lipgloss.NewStyle().Foreground(errorColor),
		SuccessIcon: lipgloss.NewStyle().Foreground(successColor),
		ErrorIcon:   lipgloss.NewStyle().Foreground(errorColor),
		Faint:       lipgloss.NewStyle().Foreground(textFaint),
	}
}

// Model represents the list state
type Model struct {
	items    []Item
	selected int
	expanded map[int64]bool
	width    int
	height   int
	viewport viewport.Model
	styles   Styles

	highlightFunc func(string) string
}

// New creates a new list model
func New() Model {
	return Model{
		items:    []Item{},
		expanded: make(map[int64]bool),
		viewport: viewport.New(80, 10),
		styles:   DefaultStyles(),
	}
}

// SetItems replaces the items in the list, newest first
func (m Model) SetItems(items []Item) Model {
	m.items = items
	if m.selected >= len(items) {
		m.selected = max(0, len(items)-1)
	}
	m.updateViewport()
	return m.ensureVisible()
}

// SetSize sets the component dimensions
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewport()
	return m
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetHighlightFunc sets a function applied to prompt text
func (m Model) SetHighlightFunc(fn func(string) string) Model {
	m.highlightFunc = fn
	return m
}

// Len returns number of items
func (m Model) Len() int { return len(m.items) }

// Selected returns the currently selected index
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns the currently selected item
func (m Model) SelectedItem() Item {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected]
	}
	return nil
}

// IsExpanded returns whether an item is expanded
func (m Model) IsExpanded(id int64) bool {
	return m.expanded[id]
}

// ToggleExpanded toggles expansion for the selected item
func (m Model) ToggleExpanded() Model {
	if item := m.SelectedItem(); item != nil {
		m.expanded[item.ID()] = !m.expanded[item.ID()]
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveUp moves selection up
func (m Model) MoveUp() Model {
	if m.selected > 0 {
		m.selected--
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// MoveDown moves selection down
func (m Model) MoveDown() Model {
	if m.selected < len(m.items)-1 {
		m.selected++
		m.updateViewport()
		m = m.ensureVisible()
	}
	return m
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the list
func (m Model) View() string {
	if len(m.items) == 0 {
		return m.styles.Faint.Render("No searches yet")
	}
	return m.viewport.View()
}

// updateViewport refreshes the viewport content
func (m *Model) updateViewport() {
	sections := make([]string, 0, len(m.items))
	for i := range m.items {
		sections = append(sections, m.renderItem(i))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderItem renders a single item
func (m *Model) renderItem(i int) string {
	if i < 0 || i >= len(m.items) {
		return ""
	}
	item := m.items[i]

	style := m.styles.Item
	if i == m.selected {
		style = m.styles.Selected
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}

	var content strings.Builder

	if t := item.Ticker(); t != "" {
		content.WriteString(m.styles.Ticker.Render(t) + " ")
	}
	text := item.PromptPreview(max(20, m.width-20))
	if m.expanded[item.ID()] {
		text = item.Prompt()
	}
	if m.highlightFunc != nil {
		text = m.highlightFunc(text)
	}
	content.WriteString(m.styles.Prompt.Render(">") + " " + text + "\n")

	icon, iconStyle := "✓", m.styles.SuccessIcon
	if item.Status() == "error" {
		icon, iconStyle = "⚠", m.styles.ErrorIcon
	}
	meta := fmt.Sprintf(" %s | %s", item.Summary(), item.ExecutedAtFormatted())
	content.WriteString(iconStyle.Render("  "+icon) + m.styles.Meta.Render(meta))

	if m.expanded[item.ID()] && item.Message() != "" {
		content.WriteString("\n" + m.styles.Faint.Padding(0, 4).Render(item.Message()))
	}

	return style.Render(content.String())
}

// ensureVisible keeps the selected item in view
func (m Model) ensureVisible() Model {
	if len(m.items) == 0 {
		return m
	}

	top := 0
	for i := 0; i < m.selected; i++ {
		top += lipgloss.Height(m.renderItem(i))
	}
	bottom := top + lipgloss.Height(m.renderItem(m.selected))

	vTop := m.viewport.YOffset
	vBottom := vTop + m.viewport.Height

	if top < vTop {
		m.viewport.SetYOffset(top)
	} else if bottom > vBottom {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
	return m
}
