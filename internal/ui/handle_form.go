package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/irfinder/internal/company"
	eztable "github.com/nhath/irfinder/internal/ui/components/table"
	"github.com/nhath/irfinder/internal/ui/highlight"
	"github.com/nhath/irfinder/internal/ui/icons"
)

// handleKey routes a key press to the topmost layer
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	if matchKey(msg, keys.Exit) {
		return m, tea.Quit
	}

	// Overlays swallow every key while open
	switch {
	case m.modal.Visible():
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	case m.popup.Visible():
		var cmd tea.Cmd
		m.popup, cmd = m.popup.Update(msg)
		return m, cmd
	case m.showHelpPopup:
		if k := msg.String(); k == "esc" || k == "q" || matchKey(msg, keys.Help) {
			m.showHelpPopup = false
		}
		return m, nil
	case m.showProfiles:
		var cmd tea.Cmd
		m.profileSelector, cmd = m.profileSelector.Update(msg)
		return m, cmd
	case m.browser.IsVisible():
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		return m, cmd
	case m.showHistory:
		return m.handleHistoryKey(msg)
	}

	switch {
	case matchKey(msg, keys.Help):
		m.showHelpPopup = true
		return m, nil
	case matchKey(msg, keys.Settings):
		return m.openProfiles()
	case matchKey(msg, keys.History):
		return m.openHistory()
	case matchKey(msg, keys.Companies):
		return m.openBrowser()
	case matchKey(msg, keys.Results):
		if m.response == nil {
			m.statusMsg = "No results yet"
			return m, nil
		}
		if m.focus == FocusResults {
			return m.focusOn(FocusPrompt)
		}
		return m.focusOn(FocusResults)
	case matchKey(msg, keys.Submit):
		return m.submit()
	}

	switch m.focus {
	case FocusResults:
		return m.handleResultsKey(msg)
	case FocusCompany:
		return m.handleCompanyKey(msg)
	default:
		return m.handlePromptKey(msg)
	}
}

// focusOn moves keyboard focus, hiding the dropdown when leaving the company field
func (m Model) focusOn(f Focus) (Model, tea.Cmd) {
	if m.focus == FocusCompany && f != FocusCompany {
		m.dropdown = m.dropdown.Hide()
	}
	m.focus = f
	m.prompt.Blur()
	m.companyInput.Blur()

	var cmd tea.Cmd
	switch f {
	case FocusPrompt:
		cmd = m.prompt.Focus()
	case FocusCompany:
		cmd = m.companyInput.Focus()
		if m.ac.Searchable() && (m.dropdown.Len() > 0 || m.dropdown.Err() != nil) {
			m.dropdown = m.dropdown.Show()
		}
	}
	return m, cmd
}

// nextFocus cycles prompt, company and, once there are results, the table
func (m Model) nextFocus(step int) Focus {
	n := 2
	if m.response != nil {
		n = 3
	}
	return Focus((int(m.focus) + step + n) % n)
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	switch {
	case matchKey(msg, keys.NextField):
		return m.focusOn(m.nextFocus(1))
	case matchKey(msg, keys.PrevField):
		return m.focusOn(m.nextFocus(-1))
	case msg.Type == tea.KeyEnter:
		return m.submit()
	case msg.Type == tea.KeyEsc:
		m.errorMsg = ""
		return m, nil
	}

	before := m.prompt.Value()
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	if m.prompt.Value() != before {
		m.flow.Edit()
		m.errorMsg = ""
		m.resolving = false
	}
	return m, cmd
}

func (m Model) handleCompanyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	open := m.dropdown.Visible() && !m.dropdown.Loading() && m.dropdown.Len() > 0

	switch {
	case open && msg.Type == tea.KeyDown:
		m.dropdown = m.dropdown.MoveDown()
		m.ac = m.ac.Select(m.dropdown.Selected())
		return m, nil
	case open && msg.Type == tea.KeyUp:
		m.dropdown = m.dropdown.MoveUp()
		m.ac = m.ac.Select(m.dropdown.Selected())
		return m, nil
	case msg.Type == tea.KeyEnter:
		if c, ok := m.dropdown.SelectedItem(); ok && m.dropdown.Visible() && !m.dropdown.Loading() {
			return m.finalize(c), nil
		}
		return m.submit()
	case msg.Type == tea.KeyEsc:
		if m.dropdown.Visible() {
			m.ac = m.ac.Dismiss()
			m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
		}
		return m, nil
	case matchKey(msg, keys.NextField):
		if c, ok := m.inlineAccept(); ok {
			return m.finalize(c), nil
		}
		return m.focusOn(m.nextFocus(1))
	case matchKey(msg, keys.PrevField):
		return m.focusOn(m.nextFocus(-1))
	}

	before := m.companyInput.Value()
	var cmd tea.Cmd
	m.companyInput, cmd = m.companyInput.Update(msg)
	if m.companyInput.Value() == before {
		return m, cmd
	}
	m, acCmd := m.companyChanged()
	return m, tea.Batch(cmd, acCmd)
}

// inlineAccept picks the candidate Tab completes to: the highlighted one,
// or the first one when the reply is not flagged ambiguous. The list on
// display must belong to the current text.
func (m Model) inlineAccept() (company.Candidate, bool) {
	if !m.dropdown.Visible() || m.dropdown.Loading() || m.ac.Pending() || m.ac.Loading() {
		return company.Candidate{}, false
	}
	if c, ok := m.dropdown.SelectedItem(); ok {
		return c, true
	}
	items := m.dropdown.Items()
	if len(items) > 0 && !m.ac.Resolution().IsAmbiguous {
		return items[0], true
	}
	return company.Candidate{}, false
}

// companyChanged feeds a new company text to the autocomplete controller
func (m Model) companyChanged() (Model, tea.Cmd) {
	text := m.companyInput.Value()
	if m.confirmed != nil && !strings.EqualFold(strings.TrimSpace(text), m.confirmed.Ticker) {
		m.confirmed = nil
	}
	m.flow.Edit()
	m.errorMsg = ""
	m.resolving = false

	var cmd tea.Cmd
	m.ac, cmd = m.ac.InputChanged(text)
	if !m.ac.Searchable() {
		m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
		return m, cmd
	}
	// Nothing has been looked up for this text yet
	m.dropdown = m.dropdown.Highlight(-1).SetLoading(true).Show()
	return m, cmd
}

// finalize confirms a candidate: the field shows its ticker and the
// dropdown closes until the text changes again
func (m Model) finalize(c company.Candidate) Model {
	m.confirmed = &c
	m.companyInput.SetValue(c.Ticker)
	m.companyInput.CursorEnd()
	m.ac = m.ac.Finalize(c.Ticker)
	m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()
	m.flow.Edit()
	m.errorMsg = ""
	m.statusMsg = fmt.Sprintf("%s · %s", c.Ticker, c.CompanyName)
	return m
}

// submit starts a search from the form
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading {
		m.statusMsg = "A search is already running"
		return m, nil
	}

	confirmed := ""
	var known []company.Candidate
	if m.confirmed != nil {
		confirmed = m.confirmed.Ticker
		known = []company.Candidate{*m.confirmed}
	}

	m.ac = m.ac.Dismiss()
	m.dropdown = m.dropdown.SetLoading(false).SetItems(nil).Hide()

	out, err := m.flow.Submit(m.prompt.Value(), m.companyInput.Value(), confirmed)
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	return m.applyOutcome(out, known)
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.config.Keys
	switch {
	case msg.Type == tea.KeyEsc:
		return m.focusOn(FocusPrompt)
	case matchKey(msg, keys.NextField):
		return m.focusOn(m.nextFocus(1))
	case matchKey(msg, keys.PrevField):
		return m.focusOn(m.nextFocus(-1))
	case msg.Type == tea.KeyEnter:
		r, ok := eztable.ReportAt(m.resultsTable, m.response)
		if !ok {
			return m, nil
		}
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.popup = m.popup.Show(icons.GetReportIcon(r.Type)+" "+r.Title, highlight.JSON(body), "↑/↓ scroll · esc close")
		return m, nil
	case msg.String() == "r":
		if m.response == nil || len(m.response.Raw) == 0 {
			return m, nil
		}
		m.popup = m.popup.Show("Raw response", highlight.JSON(prettyJSON(m.response.Raw)), "↑/↓ scroll · esc close")
		return m, nil
	}

	var cmd tea.Cmd
	m.resultsTable, cmd = m.resultsTable.Update(msg)
	return m, cmd
}
