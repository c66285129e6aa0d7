package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// modalBounds is where the centred ambiguity modal is drawn
func (m Model) modalBounds() (left, top, width, height int) {
	view := m.modal.View()
	width = lipgloss.Width(view)
	height = lipgloss.Height(view)
	return max(0, (m.width-width)/2), max(0, (m.height-height)/2), width, height
}

func isWheel(msg tea.MouseMsg) (int, bool) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return -1, true
	case tea.MouseButtonWheelDown:
		return 1, true
	}
	return 0, false
}

func isLeftClick(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}

// handleMouse routes pointer events. Coordinates are translated to the
// origin of whatever box is hit.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal.Visible() {
		left, top, w, h := m.modalBounds()
		inside := inBox(msg.X, msg.Y, left, top, w, h)
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Mouse(msg, msg.X-left, msg.Y-top, inside)
		return m, cmd
	}

	if m.popup.Visible() {
		var cmd tea.Cmd
		m.popup, cmd = m.popup.Update(msg)
		return m, cmd
	}

	if m.showHistory {
		if d, ok := isWheel(msg); ok {
			if d < 0 {
				m.historyList = m.historyList.MoveUp()
			} else {
				m.historyList = m.historyList.MoveDown()
			}
		}
		return m, nil
	}
	if m.showHelpPopup || m.showProfiles || m.browser.IsVisible() {
		return m, nil
	}

	if m.dropdown.Visible() {
		rx, ry := msg.X-dropdownX, msg.Y-dropdownY
		i := m.dropdown.ItemAt(rx, ry)
		switch {
		case msg.Action == tea.MouseActionMotion:
			if i >= 0 {
				m.dropdown = m.dropdown.Highlight(i)
				m.ac = m.ac.Select(i)
			}
			return m, nil
		case isLeftClick(msg):
			if i >= 0 {
				return m.finalize(m.dropdown.Items()[i]), nil
			}
			if m.dropdown.Contains(rx, ry) {
				return m, nil
			}
			// A click elsewhere closes the dropdown, then focuses as usual
			m.ac = m.ac.Dismiss()
			m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
		}
	}

	if isLeftClick(msg) {
		switch {
		case msg.Y >= promptBoxY && msg.Y < promptBoxY+inputBoxRows:
			return m.focusOn(FocusPrompt)
		case msg.Y >= companyBoxY && msg.Y < companyBoxY+inputBoxRows:
			return m.focusOn(FocusCompany)
		case msg.Y >= resultsY && m.response != nil:
			return m.focusOn(FocusResults)
		}
		return m, nil
	}

	if d, ok := isWheel(msg); ok && m.focus == FocusResults {
		key := tea.KeyMsg{Type: tea.KeyDown}
		if d < 0 {
			key = tea.KeyMsg{Type: tea.KeyUp}
		}
		var cmd tea.Cmd
		m.resultsTable, cmd = m.resultsTable.Update(key)
		return m, cmd
	}
	return m, nil
}
