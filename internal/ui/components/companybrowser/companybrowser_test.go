package companybrowser

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
)

type fakeLister struct {
	list []company.Candidate
	err  error
}

func (f fakeLister) Companies(context.Context) ([]company.Candidate, error) {
	return f.list, f.err
}

var catalog = []company.Candidate{
	{Ticker: "AAPL", CompanyName: "Apple Inc.", Exchange: "NASDAQ", Country: "United States"},
	{Ticker: "DAL", CompanyName: "Delta Air Lines, Inc.", Exchange: "NYSE", Country: "United States"},
	{Ticker: "MSFT", CompanyName: "Microsoft Corporation", Exchange: "NASDAQ", Country: "United States"},
}

func loaded(t *testing.T) Model {
	t.Helper()
	msg := LoadCompaniesCmd(fakeLister{list: catalog})()
	loadedMsg, ok := msg.(CompaniesLoadedMsg)
	require.True(t, ok)
	return New().SetSize(100, 40).Show().SetCompanies(loadedMsg.Companies, loadedMsg.Err)
}

func TestBrowser_FilterAndSelect(t *testing.T) {
	m := loaded(t)
	assert.True(t, m.Loaded())
	assert.Len(t, m.Shown(), 3)

	for _, r := range "delta" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Len(t, m.Shown(), 1)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.IsVisible())
	sel, ok := cmd().(SelectedMsg)
	require.True(t, ok)
	assert.Equal(t, "DAL", sel.Candidate.Ticker)
}

func TestBrowser_FilterByTicker(t *testing.T) {
	m := loaded(t)
	for _, r := range "msf" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	require.Len(t, m.Shown(), 1)
	c, ok := m.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "MSFT", c.Ticker)
}

func TestBrowser_NoMatchesEnterIsNoop(t *testing.T) {
	m := loaded(t)
	for _, r := range "zzz" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Empty(t, m.Shown())
	assert.Contains(t, m.View(), "No matches")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.IsVisible())
}

func TestBrowser_LoadError(t *testing.T) {
	m := New().SetSize(100, 40).Show()
	m, _ = m.StartLoading()
	assert.Contains(t, m.View(), "Loading companies")

	m = m.SetCompanies(nil, errors.New("connection refused"))
	assert.False(t, m.Loaded())
	assert.Contains(t, m.View(), "connection refused")
}

func TestBrowser_EscCloses(t *testing.T) {
	m := loaded(t)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.IsVisible())
	require.NotNil(t, cmd)
	assert.Equal(t, ClosedMsg{}, cmd())
}
