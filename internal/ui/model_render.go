package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/nhath/irfinder/internal/ui/icons"
)

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	main := m.renderMain()

	if m.dropdown.Visible() {
		main = overlay.Composite(m.dropdown.View(), main, overlay.Left, overlay.Top, dropdownX, dropdownY)
	}

	switch {
	case m.modal.Visible():
		main = overlay.Composite(m.modal.View(), main, overlay.Center, overlay.Center, 0, 0)
	case m.popup.Visible():
		main = overlay.Composite(m.popup.View(), main, overlay.Center, overlay.Center, 0, 0)
	case m.showHelpPopup:
		main = m.renderHelpPopup(main)
	case m.showProfiles:
		main = overlay.Composite(m.profileSelector.View(), main, overlay.Center, overlay.Center, 0, 0)
	case m.browser.IsVisible():
		main = overlay.Composite(m.browser.View(), main, overlay.Center, overlay.Center, 0, 0)
	case m.showHistory:
		main = overlay.Composite(m.renderHistoryPopup(), main, overlay.Center, overlay.Center, 0, 0)
	}
	return main
}

// renderMain draws the fixed layout the mouse handler hit-tests against:
// title, blank, prompt box, company box, message line, results
func (m Model) renderMain() string {
	lines := []string{
		m.renderTitle(),
		"",
	}
	lines = append(lines, strings.Split(m.renderInputBox(m.prompt.View(), m.focus == FocusPrompt), "\n")...)
	lines = append(lines, strings.Split(m.renderInputBox(m.companyInput.View(), m.focus == FocusCompany), "\n")...)
	lines = append(lines, m.renderMessageLine())

	footer := []string{m.renderStatusBar(), m.renderHelpLine()}
	bodyRows := m.height - len(lines) - len(footer)
	if bodyRows > 0 {
		body := strings.Split(m.renderResults(), "\n")
		if len(body) > bodyRows {
			body = body[:bodyRows]
		}
		for len(body) < bodyRows {
			body = append(body, "")
		}
		lines = append(lines, body...)
	}
	lines = append(lines, footer...)
	return strings.Join(lines, "\n")
}

func (m Model) renderTitle() string {
	title := TitleStyle.Render("irfinder")
	meta := MetaStyle.Render(" investor report finder")
	if m.profile != nil {
		meta += MetaStyle.Render(icons.IconSeparator + limitString(m.profile.BaseURL, 50))
	}
	return title + meta
}

func (m Model) renderInputBox(content string, focused bool) string {
	style := InputStyle
	if focused {
		style = InputFocusedStyle
	}
	return style.Width(max(10, m.width-2)).Render(content)
}

// renderMessageLine shows the inline form error, or what is confirmed
func (m Model) renderMessageLine() string {
	switch {
	case m.errorMsg != "":
		return ErrorStyle.Render(" " + icons.IconError + " " + limitString(m.errorMsg, max(20, m.width-4)))
	case m.confirmed != nil:
		return SuccessStyle.Render(" "+icons.IconSuccess+" "+m.confirmed.Ticker) +
			MetaStyle.Render(" "+m.confirmed.CompanyName)
	case m.flow.Ticker() != "":
		return MetaStyle.Render(" last search bound to " + m.flow.Ticker())
	}
	return ""
}

func (m Model) renderResults() string {
	if m.response == nil {
		return lipgloss.NewStyle().Foreground(TextFaint()).Padding(1, 2).Render(
			"Describe the reports you need, optionally name the company, then press enter.\n" +
				"A ticker alone is enough: the search becomes \"Find investor reports for <TICKER>\".")
	}

	var b strings.Builder
	header := LabelStyle.Render(" Results")
	if m.response.Company != "" {
		header += MetaStyle.Render(icons.IconSeparator + m.response.Company)
	}
	if m.lastRequest.Ticker != "" {
		header += MetaStyle.Render(" (" + m.lastRequest.Ticker + ")")
	}
	b.WriteString(header)
	b.WriteString("\n")

	if len(m.response.Reports) == 0 {
		msg := m.response.Message
		if msg == "" {
			msg = "No reports found"
		}
		b.WriteString(MetaStyle.Render("  " + msg))
		return b.String()
	}

	b.WriteString(m.resultsTable.View())
	if m.response.Notes != "" {
		b.WriteString("\n")
		b.WriteString(MetaStyle.Render("  " + m.response.Notes))
	}
	return b.String()
}

func (m Model) renderHistoryPopup() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(AccentColor()).Render("Search history"))
	b.WriteString("\n")
	if m.filtering || m.historyFilter.Value() != "" {
		b.WriteString(m.historyFilter.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.historyList.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("enter rerun · e edit · space expand · x delete · / search · esc close"))

	return PopupStyle.Width(min(104, m.width-4)).Render(b.String())
}
