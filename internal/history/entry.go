// internal/history/entry.go
package history

import (
	"fmt"
	"time"
)

// Entry statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is one dispatched report search
type Entry struct {
	ID           int64     `json:"id"`
	ProfileName  string    `json:"profile_name"`
	Prompt       string    `json:"prompt"`
	Ticker       string    `json:"ticker,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	ExecutedAt   time.Time `json:"executed_at"`
	DurationMs   int64     `json:"duration_ms"`
	ReportCount  int       `json:"report_count"`
	Status       string    `json:"status"` // "success", "error"
	Message      string    `json:"message,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// PromptPreview returns a truncated version of the prompt
func (e *Entry) PromptPreview(maxLen int) string {
	r := []rune(e.Prompt)
	if maxLen > 3 && len(r) > maxLen {
		return string(r[:maxLen-3]) + "..."
	}
	return e.Prompt
}

// Summary is the one-line outcome shown in the history list
func (e *Entry) Summary() string {
	if e.Status == StatusError {
		return "error: " + e.ErrorMessage
	}
	return fmt.Sprintf("%d report(s) in %s", e.ReportCount, time.Duration(e.DurationMs)*time.Millisecond)
}
