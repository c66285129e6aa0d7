// internal/history/store_test.go
package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/db"
)

func openTestStore(t *testing.T, limit int) *Store {
	t.Helper()
	s, err := Open(context.Background(), db.SQLite, ":memory:", limit)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_AddAndGet(t *testing.T) {
	s := openTestStore(t, 10)

	e := &Entry{
		ProfileName: "default",
		Prompt:      "Find annual reports for 2023",
		Ticker:      "AAPL",
		CompanyName: "Apple Inc.",
		DurationMs:  1200,
		ReportCount: 3,
		Status:      StatusSuccess,
		Message:     "Found 3 reports",
	}
	require.NoError(t, s.Add(e))
	assert.NotZero(t, e.ID)

	got, err := s.GetByID(e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "AAPL", got.Ticker)
	assert.Equal(t, "Apple Inc.", got.CompanyName)
	assert.Equal(t, 3, got.ReportCount)
	assert.Equal(t, "Found 3 reports", got.Message)
	assert.WithinDuration(t, e.ExecutedAt, got.ExecutedAt, time.Second)

	missing, err := s.GetByID(9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := openTestStore(t, 10)
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add(&Entry{
			ProfileName: "default",
			Prompt:      fmt.Sprintf("prompt %d", i),
			ExecutedAt:  base.Add(time.Duration(i) * time.Minute),
			Status:      StatusSuccess,
		}))
	}
	require.NoError(t, s.Add(&Entry{ProfileName: "other", Prompt: "elsewhere", Status: StatusSuccess}))

	entries, err := s.List("default", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "prompt 2", entries[0].Prompt)
	assert.Equal(t, "prompt 0", entries[2].Prompt)

	page, err := s.List("default", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "prompt 1", page[0].Prompt)
}

func TestStore_EnforceLimit(t *testing.T) {
	s := openTestStore(t, 3)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add(&Entry{ProfileName: "default", Prompt: fmt.Sprintf("q%d", i), Status: StatusSuccess}))
	}
	require.NoError(t, s.Add(&Entry{ProfileName: "other", Prompt: "keep", Status: StatusSuccess}))

	n, err := s.Count("default")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Count("other")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Search(t *testing.T) {
	s := openTestStore(t, 10)
	require.NoError(t, s.Add(&Entry{ProfileName: "default", Prompt: "quarterly earnings", Ticker: "MSFT", Status: StatusSuccess}))
	require.NoError(t, s.Add(&Entry{ProfileName: "default", Prompt: "annual report", Ticker: "AAPL", CompanyName: "Apple Inc.", Status: StatusSuccess}))
	require.NoError(t, s.Add(&Entry{ProfileName: "default", Prompt: "sustainability", Status: StatusError, ErrorMessage: "timeout"}))

	byPrompt, err := s.Search("default", "earnings", 10)
	require.NoError(t, err)
	require.Len(t, byPrompt, 1)
	assert.Equal(t, "MSFT", byPrompt[0].Ticker)

	byCompany, err := s.Search("default", "Apple", 10)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	none, err := s.Search("default", "nothing", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t, 10)
	e := &Entry{ProfileName: "default", Prompt: "x", Status: StatusSuccess}
	require.NoError(t, s.Add(e))
	require.NoError(t, s.Delete(e.ID))

	n, err := s.Count("default")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_CleanupRemovesExpired(t *testing.T) {
	s := openTestStore(t, 10)
	require.NoError(t, s.Add(&Entry{
		ProfileName: "default",
		Prompt:      "old",
		ExecutedAt:  time.Now().Add(-Retention - 24*time.Hour),
		Status:      StatusSuccess,
	}))
	require.NoError(t, s.Add(&Entry{ProfileName: "default", Prompt: "new", Status: StatusSuccess}))
	require.NoError(t, s.cleanup())

	entries, err := s.List("default", 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Prompt)
}

func TestNewStore_UnknownDriver(t *testing.T) {
	_, err := NewStore(config.History{Driver: "oracle"})
	assert.Error(t, err)
}

func TestEntry_Helpers(t *testing.T) {
	e := Entry{Prompt: "Find investor reports for AAPL", ReportCount: 2, DurationMs: 1500, Status: StatusSuccess}
	assert.Equal(t, "Find in...", e.PromptPreview(10))
	assert.Equal(t, e.Prompt, e.PromptPreview(100))
	assert.Equal(t, "2 report(s) in 1.5s", e.Summary())

	e.Status = StatusError
	e.ErrorMessage = "discovery unavailable"
	assert.Equal(t, "error: discovery unavailable", e.Summary())
}
