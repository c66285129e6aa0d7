package ui

import (
	"github.com/nhath/irfinder/internal/history"
	"github.com/nhath/irfinder/internal/ui/components/historylist"
)

// HistoryItemAdapter wraps history.Entry to implement historylist.Item
type HistoryItemAdapter struct {
	entry history.Entry
}

// NewHistoryItemAdapter creates a new adapter
func NewHistoryItemAdapter(entry history.Entry) HistoryItemAdapter {
	return HistoryItemAdapter{entry: entry}
}

// Implement historylist.Item interface
func (a HistoryItemAdapter) ID() int64                       { return a.entry.ID }
func (a HistoryItemAdapter) Prompt() string                  { return a.entry.Prompt }
func (a HistoryItemAdapter) PromptPreview(maxLen int) string { return a.entry.PromptPreview(maxLen) }
func (a HistoryItemAdapter) Ticker() string                  { return a.entry.Ticker }
func (a HistoryItemAdapter) Status() string                  { return a.entry.Status }
func (a HistoryItemAdapter) Summary() string                 { return a.entry.Summary() }
func (a HistoryItemAdapter) Message() string                 { return a.entry.Message }
func (a HistoryItemAdapter) ExecutedAtFormatted() string {
	return a.entry.ExecutedAt.Local().Format("Jan 02 15:04")
}

// Entry returns the underlying history entry
func (a HistoryItemAdapter) Entry() history.Entry { return a.entry }

// ConvertToItems converts entries to historylist items
func ConvertToItems(entries []history.Entry) []historylist.Item {
	items := make([]historylist.Item, len(entries))
	for i, e := range entries {
		items[i] = NewHistoryItemAdapter(e)
	}
	return items
}
