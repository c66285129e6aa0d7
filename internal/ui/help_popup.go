package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

func (m Model) renderHelpPopup(main string) string {
	var content strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("⌨️  Keyboard Shortcuts")
	content.WriteString(title)
	content.WriteString("\n\n")

	keys := m.config.Keys

	section := func(name string, bindings []struct{ key, desc string }) {
		header := lipgloss.NewStyle().Bold(true).Foreground(HighlightColor()).Render(name)
		content.WriteString(header + "\n")
		for _, b := range bindings {
			keyStyle := lipgloss.NewStyle().Foreground(SuccessColor()).Width(15)
			descStyle := lipgloss.NewStyle().Foreground(TextSecondary())
			content.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(b.key), descStyle.Render(b.desc)))
		}
		content.WriteString("\n")
	}

	section("Search", []struct{ key, desc string }{
		{"enter", "Search (or use highlighted company)"},
		{strings.Join(keys.Submit, "/"), "Search from anywhere"},
		{strings.Join(keys.NextField, "/"), "Next field / complete company"},
		{strings.Join(keys.PrevField, "/"), "Previous field"},
	})

	section("Company dropdown", []struct{ key, desc string }{
		{"↑/↓", "Move highlight"},
		{"enter", "Use highlighted company"},
		{"esc", "Dismiss suggestions"},
		{"mouse", "Hover to highlight, click to use"},
	})

	section("Results", []struct{ key, desc string }{
		{strings.Join(keys.Results, "/"), "Focus results"},
		{"enter", "Report details"},
		{"r", "Raw response"},
	})

	section("Panels", []struct{ key, desc string }{
		{strings.Join(keys.Companies, "/"), "Browse companies"},
		{strings.Join(keys.History, "/"), "Search history"},
		{strings.Join(keys.Settings, "/"), "Profiles and API keys"},
		{strings.Join(keys.Help, "/"), "Show this help"},
		{strings.Join(keys.Exit, "/"), "Quit"},
	})

	content.WriteString(lipgloss.NewStyle().Faint(true).Render("Press Esc or q to close"))

	popupWidth := 56
	popupBox := PopupStyle.
		Width(popupWidth).
		MaxHeight(max(10, m.height-2)).
		Render(content.String())

	return overlay.Composite(popupBox, main, overlay.Center, overlay.Center, 0, 0)
}
