package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/irfinder/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Flow state
	parts = append(parts, StateStyle.Render(strings.ToUpper(m.flow.State().String())))

	// 2. Profile
	if m.profile != nil {
		parts = append(parts, ConnectionStyle.Render(fmt.Sprintf(" %s ", m.profile.Name)))
	} else {
		parts = append(parts, ConnectionStyle.Render(" NO PROFILE "))
	}

	// 3. Work in flight
	switch {
	case m.loading:
		parts = append(parts, lipgloss.NewStyle().Foreground(AccentColor()).Padding(0, 1).Render(m.spinner.View()+" Searching..."))
	case m.resolving:
		parts = append(parts, lipgloss.NewStyle().Foreground(HighlightColor()).Padding(0, 1).Render(m.spinner.View()+" Resolving company..."))
	case m.ac.Loading():
		parts = append(parts, lipgloss.NewStyle().Foreground(TextFaint()).Padding(0, 1).Render("looking up..."))
	}

	// 4. Status message
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Background(SuccessColor()).Foreground(BgPrimary()).Padding(0, 1)
		parts = append(parts, statusStyle.Render(icons.IconSuccess+" "+limitString(m.statusMsg, 60)))
	}

	// 5. Error indicator
	if m.errorMsg != "" {
		errorStyle := lipgloss.NewStyle().Background(ErrorColor()).Foreground(TextPrimary()).Padding(0, 1)
		truncated := m.errorMsg
		if len(truncated) > 40 {
			truncated = truncated[:37] + "..."
		}
		parts = append(parts, errorStyle.Render(icons.IconError+" "+truncated))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).Render(content)
}

func (m Model) helpContext() HelpContext {
	switch {
	case m.modal.Visible():
		return HelpContextModal
	case m.popup.Visible(), m.showHistory, m.showProfiles, m.browser.IsVisible():
		return HelpContextPopup
	case m.focus == FocusResults:
		return HelpContextResults
	case m.focus == FocusCompany && m.dropdown.Visible():
		return HelpContextDropdown
	}
	return HelpContextForm
}

// renderHelpLine is the one-line cheat sheet under the status bar
func (m Model) renderHelpLine() string {
	k := m.config.Keys
	join := func(keys []string) string { return strings.Join(keys, "/") }

	var hints []string
	switch m.helpContext() {
	case HelpContextModal:
		hints = []string{"↑/↓ choose", "1-9 pick", "enter confirm", "esc cancel"}
	case HelpContextPopup:
		hints = []string{"esc close"}
	case HelpContextResults:
		hints = []string{"↑/↓ move", "enter details", "r raw response", "esc back"}
	case HelpContextDropdown:
		hints = []string{"↑/↓ highlight", "enter use", "tab complete", "esc dismiss"}
	default:
		hints = []string{
			"enter search",
			join(k.NextField) + " next field",
			join(k.Companies) + " companies",
			join(k.History) + " history",
			join(k.Settings) + " profiles",
			join(k.Help) + " help",
			join(k.Exit) + " quit",
		}
	}
	return lipgloss.NewStyle().Foreground(TextFaint()).Render(" " + strings.Join(hints, " "+icons.IconBullet+" "))
}
