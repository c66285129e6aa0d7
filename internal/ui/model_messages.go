// internal/ui/model_messages.go
// Consolidated message types for Bubble Tea Update cycle
package ui

import (
	"time"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/search"
)

// SubmitResolvedMsg carries the resolution of the company text of a
// submitted search
type SubmitResolvedMsg struct {
	Seq        int
	Query      string
	Resolution company.Resolution
	Err        error
}

// SearchResultMsg is sent when the discovery call completes
type SearchResultMsg struct {
	Request  search.Request
	Response *search.Response
	Duration time.Duration
	Err      error
}

// HistoryLoadedMsg is sent when history loads from the store
type HistoryLoadedMsg struct {
	Entries []history.Entry
	Err     error
}

// HistorySavedMsg is sent after a search was recorded
type HistorySavedMsg struct {
	Entry *history.Entry
	Err   error
}
