package autocomplete

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
)

type fakeResolver struct {
	mu      sync.Mutex
	queries []string
	reply   func(query string) (company.Resolution, error)
}

func (f *fakeResolver) Resolve(_ context.Context, query string, _ int) (company.Resolution, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.reply != nil {
		return f.reply(query)
	}
	return company.Resolution{Matches: []company.Candidate{{Ticker: query, CompanyName: query + " Inc.", MatchType: company.MatchPrefix, Confidence: 0.9}}}, nil
}

func (f *fakeResolver) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newController(r Resolver) Controller {
	return New(r, 5).WithQuietPeriod(time.Millisecond)
}

// typeText feeds each prefix of text as a separate keystroke and returns the
// debounce messages produced along the way
func typeText(t *testing.T, c Controller, text string) (Controller, []tea.Msg) {
	t.Helper()
	var msgs []tea.Msg
	for i := 1; i <= len(text); i++ {
		var cmd tea.Cmd
		c, cmd = c.InputChanged(text[:i])
		if cmd != nil {
			msgs = append(msgs, cmd())
		}
	}
	return c, msgs
}

// deliver feeds msgs into Update and runs any lookup they trigger
func deliver(c Controller, msgs []tea.Msg) (Controller, []tea.Msg) {
	var results []tea.Msg
	for _, msg := range msgs {
		var cmd tea.Cmd
		c, cmd = c.Update(msg)
		if cmd != nil {
			results = append(results, cmd())
		}
	}
	return c, results
}

func TestShortInputNeverLooksUp(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)

	for _, in := range []string{"", "a", " b ", "   ", "é"} {
		var cmd tea.Cmd
		c, cmd = c.InputChanged(in)
		assert.Nil(t, cmd, "input %q", in)
		assert.Empty(t, c.Candidates())
	}
	assert.Empty(t, r.calls())
}

func TestBurstIssuesOneLookupWithFinalText(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)

	c, ticks := typeText(t, c, "Micros")
	require.Len(t, ticks, 5, "one tick per keystroke from length 2 on")

	c, results := deliver(c, ticks)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"Micros"}, r.calls())

	c, _ = deliver(c, results)
	require.Len(t, c.Candidates(), 1)
	assert.Equal(t, "Micros", c.Candidates()[0].Ticker)
	assert.False(t, c.Loading())
}

func TestLateOlderReplyIsDiscarded(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)

	c, ticks := typeText(t, c, "De")
	c, first := deliver(c, ticks)
	require.Len(t, first, 1)

	c, ticks = typeText(t, c, "Delta")
	c, second := deliver(c, ticks[len(ticks)-1:])
	require.Len(t, second, 1)

	a := first[0].(ResultMsg)
	b := second[0].(ResultMsg)
	require.Less(t, a.Seq, b.Seq)

	// B arrives first, then A
	c, _ = c.Update(b)
	c, _ = c.Update(a)

	require.Len(t, c.Candidates(), 1)
	assert.Equal(t, "Delta", c.Candidates()[0].Ticker)
	assert.Equal(t, b.Seq, c.State().PendingRequestID)
}

func TestShortInputInvalidatesInFlight(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)

	c, ticks := typeText(t, c, "Ap")
	c, results := deliver(c, ticks)
	require.Len(t, results, 1)

	c, _ = c.InputChanged("A")
	c, _ = c.Update(results[0])
	assert.Empty(t, c.Candidates())
}

func TestFailureThenRetry(t *testing.T) {
	fail := true
	r := &fakeResolver{reply: func(q string) (company.Resolution, error) {
		if fail {
			return company.Resolution{}, errors.New("HTTP 500")
		}
		return company.Resolution{Matches: []company.Candidate{{Ticker: "DAL", CompanyName: "Delta Air Lines, Inc.", Confidence: 0.93}}}, nil
	}}
	c := newController(r)

	c, ticks := typeText(t, c, "Delta")
	c, results := deliver(c, ticks)
	c, _ = deliver(c, results)

	require.Error(t, c.Err())
	assert.Empty(t, c.Candidates())
	assert.False(t, c.Loading())

	fail = false
	c, ticks = typeText(t, c, "Delta ")
	c, results = deliver(c, ticks[len(ticks)-1:])
	require.Len(t, results, 1)
	c, _ = deliver(c, results)

	assert.NoError(t, c.Err())
	require.Len(t, c.Candidates(), 1)
	assert.Len(t, r.calls(), 2)
}

func TestFinalizeClearsAndDropsPending(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)

	c, ticks := typeText(t, c, "Tesla")
	c, results := deliver(c, ticks)
	c = c.Select(0)
	assert.Equal(t, 0, c.State().SelectedIndex)

	c = c.Finalize("TSLA")
	c, _ = deliver(c, results)
	assert.Empty(t, c.Candidates())
	assert.Equal(t, "TSLA", c.State().RawInput)
	assert.Equal(t, -1, c.State().SelectedIndex)
}

func TestUnchangedInputDoesNotRestartTimer(t *testing.T) {
	c := newController(&fakeResolver{})
	c, cmd := c.InputChanged("Apple")
	require.NotNil(t, cmd)
	_, cmd = c.InputChanged("Apple")
	assert.Nil(t, cmd)
}

func TestPendingUntilLookupSent(t *testing.T) {
	r := &fakeResolver{}
	c := newController(r)
	assert.False(t, c.Pending())

	c, cmd := c.InputChanged("Apple")
	require.NotNil(t, cmd)
	assert.True(t, c.Pending())
	assert.False(t, c.Loading())

	c, results := deliver(c, []tea.Msg{cmd()})
	require.Len(t, results, 1)
	assert.False(t, c.Pending())
	assert.True(t, c.Loading())

	c, _ = c.InputChanged("Apples")
	c = c.Dismiss()
	assert.False(t, c.Pending())
}
