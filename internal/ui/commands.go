package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/search"
)

const searchTimeout = 3 * time.Minute

// resolveSubmissionCmd resolves the free-text company of a submitted search
func (m Model) resolveSubmissionCmd(seq int, query string) tea.Cmd {
	backend := m.backend
	limit := m.config.MaxResults
	return func() tea.Msg {
		res, err := backend.Resolve(context.Background(), query, limit)
		return SubmitResolvedMsg{Seq: seq, Query: query, Resolution: res, Err: err}
	}
}

// searchCmd sends req, which already carries the profile credentials
func (m Model) searchCmd(req search.Request) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()

		start := time.Now()
		resp, err := backend.Search(ctx, req)
		return SearchResultMsg{
			Request:  req.Redacted(),
			Response: resp,
			Duration: time.Since(start),
			Err:      err,
		}
	}
}

func (m Model) profileName() string {
	if m.profile == nil {
		return ""
	}
	return m.profile.Name
}

// loadHistoryCmd lists recent searches, filtered by substr when set
func (m Model) loadHistoryCmd(substr string) tea.Cmd {
	store := m.historyStore
	if store == nil {
		return nil
	}
	name := m.profileName()
	return func() tea.Msg {
		var (
			entries []history.Entry
			err     error
		)
		if substr != "" {
			entries, err = store.Search(name, substr, historyLimit)
		} else {
			entries, err = store.List(name, historyLimit, 0)
		}
		return HistoryLoadedMsg{Entries: entries, Err: err}
	}
}

// saveHistoryCmd records a finished search
func (m Model) saveHistoryCmd(entry *history.Entry) tea.Cmd {
	store := m.historyStore
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		err := store.Add(entry)
		if err != nil {
			log.Warn().Err(err).Msg("could not save search history")
		}
		return HistorySavedMsg{Entry: entry, Err: err}
	}
}

// deleteHistoryCmd removes an entry and reloads the list
func (m Model) deleteHistoryCmd(id int64, substr string) tea.Cmd {
	store := m.historyStore
	if store == nil {
		return nil
	}
	reload := m.loadHistoryCmd(substr)
	return func() tea.Msg {
		if err := store.Delete(id); err != nil {
			return HistoryLoadedMsg{Err: err}
		}
		return reload()
	}
}

// newEntry builds the history record for a search outcome
func (m Model) newEntry(msg SearchResultMsg) *history.Entry {
	entry := &history.Entry{
		ProfileName: m.profileName(),
		Prompt:      msg.Request.Prompt,
		Ticker:      msg.Request.Ticker,
		CompanyName: m.submitCompany,
		ExecutedAt:  time.Now(),
		DurationMs:  msg.Duration.Milliseconds(),
		Status:      history.StatusSuccess,
	}
	if msg.Err != nil {
		entry.Status = history.StatusError
		entry.ErrorMessage = msg.Err.Error()
		return entry
	}
	if msg.Response != nil {
		entry.ReportCount = msg.Response.Count
		entry.Message = msg.Response.Message
		if entry.CompanyName == "" {
			entry.CompanyName = msg.Response.Company
		}
	}
	return entry
}
