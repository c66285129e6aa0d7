package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/ui/components/companybrowser"
)

func (m Model) openHistory() (tea.Model, tea.Cmd) {
	if m.historyStore == nil {
		m.errorMsg = "History is disabled"
		return m, nil
	}
	m.showHistory = true
	m.filtering = false
	m.historyFilter.SetValue("")
	m.historyFilter.Blur()
	m.dropdown = m.dropdown.Hide()
	return m, m.loadHistoryCmd("")
}

func (m Model) openBrowser() (tea.Model, tea.Cmd) {
	m.dropdown = m.dropdown.Hide()
	m.browser = m.browser.Show()
	if m.browser.Loaded() {
		return m, nil
	}
	var cmd tea.Cmd
	m.browser, cmd = m.browser.StartLoading()
	return m, tea.Batch(cmd, companybrowser.LoadCompaniesCmd(m.backend))
}

func (m Model) selectedHistoryEntry() (history.Entry, bool) {
	item := m.historyList.SelectedItem()
	if item == nil {
		return history.Entry{}, false
	}
	a, ok := item.(HistoryItemAdapter)
	if !ok {
		return history.Entry{}, false
	}
	return a.Entry(), true
}

// handleHistoryKey handles keys while the history popup is open
func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.filtering = false
			m.historyFilter.Blur()
			return m, nil
		}
		before := m.historyFilter.Value()
		var cmd tea.Cmd
		m.historyFilter, cmd = m.historyFilter.Update(msg)
		if v := m.historyFilter.Value(); v != before {
			return m, tea.Batch(cmd, m.loadHistoryCmd(v))
		}
		return m, cmd
	}

	switch msg.String() {
	case "esc", "q":
		m.showHistory = false
		return m, nil
	case "up", "k":
		m.historyList = m.historyList.MoveUp()
		return m, nil
	case "down", "j":
		m.historyList = m.historyList.MoveDown()
		return m, nil
	case " ":
		m.historyList = m.historyList.ToggleExpanded()
		return m, nil
	case "/":
		m.filtering = true
		return m, m.historyFilter.Focus()
	case "enter":
		entry, ok := m.selectedHistoryEntry()
		if !ok {
			return m, nil
		}
		m = m.restoreEntry(entry)
		return m.submit()
	case "e":
		entry, ok := m.selectedHistoryEntry()
		if !ok {
			return m, nil
		}
		m = m.restoreEntry(entry)
		return m.focusOn(FocusPrompt)
	case "x", "d":
		entry, ok := m.selectedHistoryEntry()
		if !ok {
			return m, nil
		}
		return m, m.deleteHistoryCmd(entry.ID, m.historyFilter.Value())
	}

	if matchKey(msg, m.config.Keys.History) {
		m.showHistory = false
		return m, nil
	}

	var cmd tea.Cmd
	m.historyList, cmd = m.historyList.Update(msg)
	return m, cmd
}

// restoreEntry loads a past search into the form. A recorded ticker counts
// as confirmed so rerunning it skips resolution.
func (m Model) restoreEntry(e history.Entry) Model {
	m.showHistory = false
	m.prompt.SetValue(e.Prompt)
	m.prompt.CursorEnd()

	m.confirmed = nil
	m.companyInput.SetValue(e.Ticker)
	m.companyInput.CursorEnd()
	if e.Ticker != "" {
		m.confirmed = &company.Candidate{Ticker: e.Ticker, CompanyName: e.CompanyName}
	}
	m.ac = m.ac.Finalize(e.Ticker)
	m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
	m.flow.Edit()
	return m
}
