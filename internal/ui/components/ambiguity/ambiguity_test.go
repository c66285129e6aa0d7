package ambiguity

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
)

var delta = []company.Candidate{
	{Ticker: "DELTACORP", CompanyName: "Delta Corp Ltd", Exchange: "NSE", Country: "India", Confidence: 0.94},
	{Ticker: "DAL", CompanyName: "Delta Air Lines, Inc.", Exchange: "NYSE", Country: "United States", Confidence: 0.93},
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickWithKeys(t *testing.T) {
	m := New().Show("Delta", delta)
	require.True(t, m.Visible())
	assert.Contains(t, m.View(), "Delta Air Lines")

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("down"))
	assert.Equal(t, 1, m.Selected())
	m, _ = m.Update(key("up"))
	m, _ = m.Update(key("up"))
	assert.Equal(t, 0, m.Selected())

	m, _ = m.Update(key("down"))
	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	picked, ok := cmd().(PickedMsg)
	require.True(t, ok)
	assert.Equal(t, "DAL", picked.Candidate.Ticker)
	assert.False(t, m.Visible())
}

func TestDigitPicks(t *testing.T) {
	m := New().Show("Delta", delta)
	_, cmd := m.Update(key("1"))
	require.NotNil(t, cmd)
	assert.Equal(t, "DELTACORP", cmd().(PickedMsg).Candidate.Ticker)

	_, cmd = m.Update(key("9"))
	assert.Nil(t, cmd)
}

func TestCancel(t *testing.T) {
	m := New().Show("Delta", delta)
	m, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	_, ok := cmd().(CancelledMsg)
	assert.True(t, ok)
	assert.False(t, m.Visible())
}

func TestMouse(t *testing.T) {
	m := New().Show("Delta", delta)
	assert.Equal(t, len(delta)+6, m.Height())

	m, cmd := m.Mouse(tea.MouseMsg{Action: tea.MouseActionMotion}, 4, headerRows+1, true)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Selected())

	_, cmd = m.Mouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 4, 0, true)
	assert.Nil(t, cmd, "click on the title does nothing")

	_, cmd = m.Mouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 4, headerRows, false)
	assert.Nil(t, cmd, "click outside does nothing")

	_, cmd = m.Mouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}, 4, headerRows, true)
	require.NotNil(t, cmd)
	assert.Equal(t, 0, cmd().(PickedMsg).Index)
}
