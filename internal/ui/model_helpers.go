// internal/ui/model_helpers.go
// Small helper functions used across the UI layer
package ui

import (
	"bytes"
	"encoding/json"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/search"
)

// matchKey returns true if the key message matches any of the provided key strings
func matchKey(msg tea.KeyMsg, keys []string) bool {
	keyStr := msg.String()
	for _, k := range keys {
		if k == keyStr {
			return true
		}
	}
	return false
}

// limitString truncates s to maxLen by replacing the middle with "..."
func limitString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	half := (maxLen - 3) / 2
	return s[:half] + "..." + s[len(s)-half:]
}

// nameFor finds the display name of ticker among candidates
func nameFor(ticker string, candidates []company.Candidate) string {
	for _, c := range candidates {
		if strings.EqualFold(c.Ticker, ticker) {
			return c.CompanyName
		}
	}
	return ""
}

// credentials are the profile keys attached to every outbound search
func credentials(p *config.Profile) search.Credentials {
	if p == nil {
		return search.Credentials{}
	}
	return search.Credentials{
		OpenAIKey:      p.OpenAIKey,
		SerperKey:      p.SerperKey,
		OpenAIProvider: p.OpenAIProvider,
		OpenAIBaseURL:  p.OpenAIBaseURL,
	}
}

// prettyJSON indents src, returning it unchanged when it is not JSON
func prettyJSON(src []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, src, "", "  "); err != nil {
		return src
	}
	return buf.Bytes()
}

func inBox(x, y, left, top, width, height int) bool {
	return x >= left && x < left+width && y >= top && y < top+height
}
