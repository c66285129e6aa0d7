// Package search assembles report searches and tracks the company
// disambiguation step that precedes them.
package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyQuery is returned when neither a prompt nor a ticker was given
var ErrEmptyQuery = errors.New("enter a prompt or a company before searching")

// PendingSearch is a search waiting for its company to be settled
type PendingSearch struct {
	PromptText     string
	TickerOverride string
}

// Credentials are forwarded to the discovery service with every search
type Credentials struct {
	OpenAIKey      string
	SerperKey      string
	OpenAIProvider string
	OpenAIBaseURL  string
}

// Request is the body of POST /search
type Request struct {
	Prompt         string `json:"prompt,omitempty"`
	Ticker         string `json:"ticker,omitempty"`
	OpenAIKey      string `json:"openai_api_key,omitempty"`
	SerperKey      string `json:"serper_api_key,omitempty"`
	OpenAIProvider string `json:"openai_provider,omitempty"`
	OpenAIBaseURL  string `json:"openai_base_url,omitempty"`
}

// SyntheticPrompt is sent when the user gave a ticker and nothing else
func SyntheticPrompt(ticker string) string {
	return fmt.Sprintf("Find investor reports for %s", ticker)
}

// Compose builds the outbound request. The ticker override always wins over
// whatever company the prompt mentions, so it travels as its own field.
func Compose(p PendingSearch) (Request, error) {
	prompt := strings.TrimSpace(p.PromptText)
	ticker := strings.ToUpper(strings.TrimSpace(p.TickerOverride))

	if prompt == "" && ticker == "" {
		return Request{}, ErrEmptyQuery
	}
	if prompt == "" {
		prompt = SyntheticPrompt(ticker)
	}
	return Request{Prompt: prompt, Ticker: ticker}, nil
}

// WithCredentials returns a copy of r carrying creds
func (r Request) WithCredentials(creds Credentials) Request {
	r.OpenAIKey = creds.OpenAIKey
	r.SerperKey = creds.SerperKey
	r.OpenAIProvider = creds.OpenAIProvider
	r.OpenAIBaseURL = creds.OpenAIBaseURL
	return r
}

// Redacted hides the keys, for logs and history
func (r Request) Redacted() Request {
	r.OpenAIKey = ""
	r.SerperKey = ""
	return r
}

// Report is one document link found by the discovery service
type Report struct {
	Year    int    `json:"year"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Quarter string `json:"quarter,omitempty"`
	Source  string `json:"source,omitempty"`
}

// Response is the discovery service reply. Only the fields the TUI renders
// are decoded; Raw always holds the original payload.
type Response struct {
	Success      bool     `json:"success"`
	Query        string   `json:"query"`
	Company      string   `json:"company,omitempty"`
	Reports      []Report `json:"reports"`
	Count        int      `json:"count"`
	Message      string   `json:"message"`
	Notes        string   `json:"notes,omitempty"`
	MissingYears []int    `json:"missing_years,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// DecodeResponse decodes body leniently. A payload that is not the expected
// shape is still returned, with only Raw set.
func DecodeResponse(body []byte) *Response {
	resp := &Response{}
	if err := json.Unmarshal(body, resp); err != nil {
		resp = &Response{}
	}
	resp.Raw = append(json.RawMessage(nil), body...)
	if resp.Count == 0 {
		resp.Count = len(resp.Reports)
	}
	return resp
}
