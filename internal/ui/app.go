package ui

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/lookup"
	"github.com/nhath/irfinder/internal/search"
	"github.com/nhath/irfinder/internal/ui/autocomplete"
	"github.com/nhath/irfinder/internal/ui/components/ambiguity"
	"github.com/nhath/irfinder/internal/ui/components/companybrowser"
	"github.com/nhath/irfinder/internal/ui/components/popup"
	"github.com/nhath/irfinder/internal/ui/components/profileselector"
	eztable "github.com/nhath/irfinder/internal/ui/components/table"
)

// Update handles every message of the program
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case autocomplete.DebounceMsg:
		var cmd tea.Cmd
		m.ac, cmd = m.ac.Update(msg)
		if m.ac.Loading() {
			m.dropdown = m.dropdown.SetLoading(true).Show()
		}
		return m, cmd

	case autocomplete.ResultMsg:
		wasLoading := m.ac.Loading()
		m.ac, _ = m.ac.Update(msg)
		if wasLoading && !m.ac.Loading() {
			m = m.syncDropdown()
		}
		return m, nil

	case SubmitResolvedMsg:
		return m.handleSubmitResolved(msg)

	case SearchResultMsg:
		return m.handleSearchResult(msg)

	case ambiguity.PickedMsg:
		out, err := m.flow.Pick(msg.Index)
		if err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		return m.applyOutcome(out, []company.Candidate{msg.Candidate})

	case ambiguity.CancelledMsg:
		m.flow.Cancel()
		m.statusMsg = "Search cancelled"
		return m.focusOn(FocusCompany)

	case HistoryLoadedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("could not load history")
			m.errorMsg = "History unavailable: " + msg.Err.Error()
			return m, nil
		}
		m.history = msg.Entries
		m.historyList = m.historyList.SetItems(ConvertToItems(msg.Entries))
		return m, nil

	case HistorySavedMsg:
		if msg.Err != nil {
			return m, nil
		}
		return m, m.loadHistoryCmd(m.historyFilter.Value())

	case profileselector.SelectedMsg:
		return m.handleProfileSelected(msg)
	case profileselector.ProfileSavedMsg:
		return m.handleProfileSaved(msg)
	case profileselector.ManagementMsg:
		return m.handleProfileManagement(msg)
	case profileselector.ClosedMsg:
		m.showProfiles = false
		return m, nil

	case companybrowser.CompaniesLoadedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("could not list companies")
		}
		m.browser = m.browser.SetCompanies(msg.Companies, msg.Err)
		return m, nil
	case companybrowser.SelectedMsg:
		m = m.finalize(msg.Candidate)
		return m.focusOn(FocusCompany)
	case companybrowser.ClosedMsg:
		return m, nil

	case popup.ClosedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.loading || m.resolving {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.browser, cmd = m.browser.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	// Cursor blink and the like go to the focused input
	var cmd tea.Cmd
	switch m.focus {
	case FocusPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	case FocusCompany:
		m.companyInput, cmd = m.companyInput.Update(msg)
	}
	return m, cmd
}

// syncDropdown mirrors the newest applied lookup into the dropdown
func (m Model) syncDropdown() Model {
	m.dropdown = m.dropdown.SetLoading(false)
	if err := m.ac.Err(); err != nil {
		m.dropdown = m.dropdown.SetError(err)
		return m
	}
	m.dropdown = m.dropdown.SetItems(m.ac.Candidates())
	if m.focus == FocusCompany && m.ac.Searchable() {
		m.dropdown = m.dropdown.Show()
	}
	return m
}

func (m Model) handleSubmitResolved(msg SubmitResolvedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.submitSeq || m.flow.State() != search.SubmittedUnresolved {
		log.Debug().Str("query", msg.Query).Msg("stale submission resolution dropped")
		return m, nil
	}
	m.resolving = false

	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("query", msg.Query).Msg("company resolution failed")
		m.flow.Failed()
		m.errorMsg = "Could not resolve company: " + describeError(msg.Err)
		return m.focusOn(FocusCompany)
	}

	out, err := m.flow.Resolution(msg.Resolution)
	if err != nil {
		m.errorMsg = err.Error()
		return m, nil
	}
	return m.applyOutcome(out, msg.Resolution.Matches)
}

// applyOutcome performs the step the flow asks for. candidates are used to
// name the company that ends up bound.
func (m Model) applyOutcome(out search.Outcome, candidates []company.Candidate) (Model, tea.Cmd) {
	switch out.Step {
	case search.StepResolve:
		m.submitSeq++
		m.resolving = true
		m.errorMsg = ""
		m.statusMsg = fmt.Sprintf("Resolving %q...", out.Query)
		return m, tea.Batch(m.resolveSubmissionCmd(m.submitSeq, out.Query), m.spinner.Tick)

	case search.StepChoose:
		m.resolving = false
		m.statusMsg = ""
		m.dropdown = m.dropdown.Hide()
		m.modal = m.modal.Show(out.Query, out.Choices)
		return m, nil

	case search.StepDispatch:
		m.resolving = false
		return m.dispatch(out.Request, nameFor(out.Request.Ticker, candidates))
	}
	return m, nil
}

// dispatch sends the composed request with the active profile's keys
func (m Model) dispatch(req search.Request, companyName string) (Model, tea.Cmd) {
	m.loading = true
	m.errorMsg = ""
	m.lastRequest = req
	m.submitCompany = companyName

	target := req.Prompt
	if req.Ticker != "" {
		target = req.Ticker
	}
	m.statusMsg = "Searching reports for " + limitString(target, 40)
	log.Info().Str("ticker", req.Ticker).Str("prompt", req.Prompt).Msg("dispatching search")

	out := req.WithCredentials(credentials(m.profile))
	return m, tea.Batch(m.searchCmd(out), m.spinner.Tick)
}

func (m Model) handleSearchResult(msg SearchResultMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	entry := m.newEntry(msg)

	if msg.Err != nil {
		log.Error().Err(msg.Err).Str("ticker", msg.Request.Ticker).Msg("search failed")
		m.errorMsg = "Search failed: " + describeError(msg.Err)
		m.statusMsg = ""
		return m, m.saveHistoryCmd(entry)
	}

	if msg.Response == nil {
		msg.Response = &search.Response{}
	}
	m.response = msg.Response
	m.resultsTable = eztable.FromResponse(msg.Response, m.width-2)
	m.statusMsg = fmt.Sprintf("%d report(s) found in %s", msg.Response.Count, msg.Duration.Round(100*time.Millisecond))
	if msg.Response.Count == 0 {
		m.statusMsg = "No reports found"
		if msg.Response.Message != "" {
			m.statusMsg = msg.Response.Message
		}
		return m, m.saveHistoryCmd(entry)
	}

	m, cmd := m.focusOn(FocusResults)
	return m, tea.Batch(cmd, m.saveHistoryCmd(entry))
}

// describeError shortens transport errors for the status bar
func describeError(err error) string {
	var te *lookup.TransportError
	if !errors.As(err, &te) {
		return err.Error()
	}
	switch {
	case te.StatusCode == 0:
		return fmt.Sprintf("service unreachable (%v)", te.Underlying)
	case te.StatusCode == http.StatusTooManyRequests:
		return "rate limited, try again shortly"
	case te.Underlying != nil:
		return te.Underlying.Error()
	default:
		return te.Error()
	}
}
