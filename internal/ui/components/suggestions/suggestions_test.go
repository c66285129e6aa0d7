package suggestions

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
)

func candidates(n int) []company.Candidate {
	out := make([]company.Candidate, n)
	for i := range out {
		out[i] = company.Candidate{Ticker: string(rune('A' + i)), CompanyName: "Company", MatchType: company.MatchFuzzy, Confidence: 0.6}
	}
	return out
}

func TestNavigationClamps(t *testing.T) {
	for n := 1; n <= 8; n++ {
		m := New().SetItems(candidates(n)).Show()
		assert.Equal(t, -1, m.Selected())

		for i := 0; i < n+5; i++ {
			m = m.MoveDown()
			assert.LessOrEqual(t, m.Selected(), n-1)
		}
		assert.Equal(t, n-1, m.Selected())

		for i := 0; i < n+5; i++ {
			m = m.MoveUp()
			assert.GreaterOrEqual(t, m.Selected(), -1)
		}
		assert.Equal(t, -1, m.Selected())
	}

	m := New().SetItems(candidates(3)).MoveDown().MoveUp()
	assert.Equal(t, -1, m.Selected())
	_, ok := m.SelectedItem()
	assert.False(t, ok)
}

func TestEmptyListNavigation(t *testing.T) {
	m := New().Show()
	m = m.MoveDown()
	assert.Equal(t, -1, m.Selected())
}

func TestExactTickerItem(t *testing.T) {
	m := New().SetWidth(70).SetItems([]company.Candidate{{
		Ticker: "AAPL", CompanyName: "Apple Inc.", MatchType: company.MatchExactTicker, Confidence: 1.0,
	}}).Show()

	view := m.View()
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, strings.Count(view, "AAPL"))
	assert.Contains(t, view, "Exact")
	assert.Contains(t, view, Markers[company.TierHigh])
	assert.Equal(t, 3, m.Height())
}

func TestEmptyAndErrorStatesDiffer(t *testing.T) {
	empty := New().SetItems(nil).Show()
	assert.Contains(t, empty.View(), NoMatchesText)

	failed := New().SetItems(candidates(2)).SetError(errors.New("HTTP 500")).Show()
	assert.Equal(t, 0, failed.Len())
	assert.NotContains(t, failed.View(), NoMatchesText)
	assert.Contains(t, failed.View(), "HTTP 500")

	loading := New().SetLoading(true).Show()
	assert.NotContains(t, loading.View(), NoMatchesText)

	assert.Empty(t, New().View())
}

func TestUnknownMatchTypeRendersWithoutLabel(t *testing.T) {
	m := New().SetItems([]company.Candidate{{Ticker: "X", CompanyName: "X Corp", MatchType: "semantic", Confidence: 0.5}}).Show()
	view := m.View()
	assert.Contains(t, view, "X Corp")
	assert.Contains(t, view, Markers[company.TierLow])
}

func TestHitTesting(t *testing.T) {
	m := New().SetWidth(40).SetItems(candidates(3)).Show()

	assert.Equal(t, -1, m.ItemAt(5, 0), "top border")
	assert.Equal(t, 0, m.ItemAt(5, 1))
	assert.Equal(t, 2, m.ItemAt(5, 3))
	assert.Equal(t, -1, m.ItemAt(5, 4), "bottom border")
	assert.Equal(t, -1, m.ItemAt(45, 1), "right of the box")

	assert.True(t, m.Contains(0, 0))
	assert.False(t, m.Contains(-1, 2))
	assert.False(t, m.Contains(5, 5))

	m = m.Highlight(m.ItemAt(5, 2))
	c, ok := m.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "B", c.Ticker)

	assert.Equal(t, -1, m.Highlight(7).Selected())
	assert.Equal(t, -1, m.Hide().ItemAt(5, 1))
}

func TestScrollWindow(t *testing.T) {
	m := New().SetMaxShow(3).SetItems(candidates(6)).Show()
	for i := 0; i < 5; i++ {
		m = m.MoveDown()
	}
	assert.Equal(t, 4, m.Selected())
	assert.Equal(t, 4, m.ItemAt(2, 3))
	assert.Equal(t, 2, m.ItemAt(2, 1))
	assert.Equal(t, 5, m.Height())
}
