// internal/ui/model_types.go
// Type definitions for the UI layer
package ui

import (
	"context"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/search"
	"github.com/nhath/irfinder/internal/ui/autocomplete"
	"github.com/nhath/irfinder/internal/ui/components/companybrowser"
)

// Focus is the form element receiving keys
type Focus int

const (
	FocusPrompt Focus = iota
	FocusCompany
	FocusResults
)

// Backend is everything the TUI needs from the irfinder service,
// normally *lookup.Client
type Backend interface {
	autocomplete.Resolver
	companybrowser.Lister
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

// BackendFactory builds the backend for a profile, used when switching
type BackendFactory func(p *config.Profile) Backend

// HistoryStore persists dispatched searches, normally *history.Store
type HistoryStore interface {
	Add(entry *history.Entry) error
	List(profileName string, limit, offset int) ([]history.Entry, error)
	Search(profileName, substr string, limit int) ([]history.Entry, error)
	Delete(id int64) error
}

// HelpContext represents the current UI context for help display
type HelpContext int

const (
	HelpContextForm HelpContext = iota
	HelpContextDropdown
	HelpContextResults
	HelpContextModal
	HelpContextPopup
)

// Layout rows, fixed so pointer events can be hit-tested against the view
const (
	promptBoxY   = 2
	companyBoxY  = 5
	dropdownY    = 8
	dropdownX    = 2
	resultsY     = 9
	inputBoxRows = 3
	historyLimit = 50
)
