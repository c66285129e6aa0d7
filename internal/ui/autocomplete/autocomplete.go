// Package autocomplete drives company lookups as the user types: it debounces
// keystrokes and makes sure only the newest reply reaches the dropdown.
package autocomplete

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/company"
)

const (
	// QuietPeriod is how long typing must pause before a lookup is sent
	QuietPeriod = 300 * time.Millisecond
	// MinQueryLen is the shortest trimmed input that is looked up
	MinQueryLen = 2
)

// Resolver is the lookup backend, normally *lookup.Client
type Resolver interface {
	Resolve(ctx context.Context, query string, maxResults int) (company.Resolution, error)
}

// QueryState is the evolving company input.
// PendingRequestID only ever grows; SelectedIndex is -1 for none.
type QueryState struct {
	RawInput         string
	PendingRequestID int
	SelectedIndex    int
}

// DebounceMsg fires once the quiet period after a keystroke has elapsed
type DebounceMsg struct {
	ID int
}

// ResultMsg carries a lookup reply tagged with the sequence number it was sent with
type ResultMsg struct {
	Seq        int
	Query      string
	Resolution company.Resolution
	Err        error
}

// Controller owns the query state, the single pending debounce and the
// result currently on display
type Controller struct {
	state      QueryState
	debounceID int
	resolver   Resolver
	maxResults int
	quiet      time.Duration

	pending bool
	loading bool
	result  company.Resolution
	err     error
}

// New creates a controller backed by resolver
func New(resolver Resolver, maxResults int) Controller {
	if maxResults <= 0 {
		maxResults = company.DefaultMaxResults
	}
	return Controller{
		state:      QueryState{SelectedIndex: -1},
		resolver:   resolver,
		maxResults: maxResults,
		quiet:      QuietPeriod,
		result:     company.Resolution{Matches: []company.Candidate{}},
	}
}

// WithQuietPeriod overrides the debounce delay
func (c Controller) WithQuietPeriod(d time.Duration) Controller {
	c.quiet = d
	return c
}

// WithResolver swaps the backend, e.g. after switching profile
func (c Controller) WithResolver(r Resolver) Controller {
	c.resolver = r
	return c
}

func (c Controller) State() QueryState { return c.state }

// Pending reports whether a lookup is scheduled but not yet sent
func (c Controller) Pending() bool { return c.pending }

// Loading reports whether the newest lookup is still in flight
func (c Controller) Loading() bool { return c.loading }

// Err is the failure of the newest lookup, if it failed
func (c Controller) Err() error { return c.err }

// Resolution is the newest applied reply
func (c Controller) Resolution() company.Resolution { return c.result }

// Candidates is the list to display, in service order
func (c Controller) Candidates() []company.Candidate { return c.result.Matches }

// Query is the trimmed input
func (c Controller) Query() string { return strings.TrimSpace(c.state.RawInput) }

// Searchable reports whether the input is long enough to look up
func (c Controller) Searchable() bool {
	return len([]rune(c.Query())) >= MinQueryLen
}

// InputChanged records a keystroke. Short input clears everything and
// invalidates lookups already in flight; otherwise the quiet period restarts.
func (c Controller) InputChanged(text string) (Controller, tea.Cmd) {
	if text == c.state.RawInput {
		return c, nil
	}
	c.state.RawInput = text
	c.state.SelectedIndex = -1
	c.debounceID++

	if !c.Searchable() {
		c.state.PendingRequestID++
		c.clear()
		return c, nil
	}

	c.pending = true
	id := c.debounceID
	return c, tea.Tick(c.quiet, func(time.Time) tea.Msg {
		return DebounceMsg{ID: id}
	})
}

// Select mirrors the dropdown highlight into the query state
func (c Controller) Select(i int) Controller {
	c.state.SelectedIndex = i
	return c
}

// Finalize is called once a candidate is chosen: the input becomes text,
// pending work is dropped and the list is cleared.
func (c Controller) Finalize(text string) Controller {
	c.state.RawInput = text
	c.state.SelectedIndex = -1
	c.state.PendingRequestID++
	c.debounceID++
	c.clear()
	return c
}

// Dismiss hides the current result without touching the text
func (c Controller) Dismiss() Controller {
	c.state.SelectedIndex = -1
	c.debounceID++
	c.state.PendingRequestID++
	c.clear()
	return c
}

func (c *Controller) clear() {
	c.pending = false
	c.loading = false
	c.err = nil
	c.result = company.Resolution{Matches: []company.Candidate{}}
}

// Update handles DebounceMsg and ResultMsg; other messages are ignored
func (c Controller) Update(msg tea.Msg) (Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.ID != c.debounceID || !c.Searchable() {
			return c, nil
		}
		return c.fire()

	case ResultMsg:
		if msg.Seq != c.state.PendingRequestID {
			log.Debug().Int("seq", msg.Seq).Int("latest", c.state.PendingRequestID).Msg("stale lookup dropped")
			return c, nil
		}
		c.loading = false
		c.state.SelectedIndex = -1
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Str("query", msg.Query).Msg("company lookup failed")
			c.err = msg.Err
			c.result = company.Resolution{Matches: []company.Candidate{}}
			return c, nil
		}
		c.err = nil
		c.result = msg.Resolution
		if c.result.Matches == nil {
			c.result.Matches = []company.Candidate{}
		}
	}
	return c, nil
}

func (c Controller) fire() (Controller, tea.Cmd) {
	c.state.PendingRequestID++
	c.pending = false
	c.loading = true
	c.err = nil

	seq := c.state.PendingRequestID
	query := c.Query()
	resolver := c.resolver
	limit := c.maxResults
	return c, func() tea.Msg {
		res, err := resolver.Resolve(context.Background(), query, limit)
		return ResultMsg{Seq: seq, Query: query, Resolution: res, Err: err}
	}
}
