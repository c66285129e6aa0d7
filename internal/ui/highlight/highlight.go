package highlight

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Report vocabulary highlighted in prompts
var reportKeywords = map[string]bool{
	"ANNUAL": true, "QUARTERLY": true, "INTERIM": true, "EARNINGS": true,
	"10-K": true, "10-Q": true, "20-F": true, "8-K": true, "REPORT": true,
	"REPORTS": true, "PRESENTATION": true, "FILING": true, "FILINGS": true,
	"Q1": true, "Q2": true, "Q3": true, "Q4": true, "FY": true,
}

// ANSI foreground color codes (no background, no reset issues)
const (
	fgCyan   = "\x1b[38;5;110m" // Keywords - light cyan
	fgPurple = "\x1b[38;5;183m" // Years - purple
	fgGreen  = "\x1b[38;5;150m" // Quoted - green
	fgOrange = "\x1b[38;5;209m" // Tickers - orange
	fgReset  = "\x1b[39m"       // Reset foreground only (not all attributes)
)

// JSONStyle is the chroma style used for payloads
var JSONStyle = "nord"

// JSON pretty-prints src and highlights it with chroma for a 256 color
// terminal. Invalid JSON is highlighted as-is.
func JSON(src []byte) string {
	var pretty bytes.Buffer
	code := string(src)
	if err := json.Indent(&pretty, src, "", "  "); err == nil {
		code = pretty.String()
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(JSONStyle)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var out bytes.Buffer
	if err := formatter.Format(&out, style, iterator); err != nil {
		return code
	}
	return out.String()
}

// Prompt colors years, report vocabulary, quoted text and ticker-like
// upper-case words in a search prompt
func Prompt(text string) string {
	var result strings.Builder
	i := 0

	for i < len(text) {
		c := text[i]

		// Quoted phrases
		if c == '"' || c == '\'' {
			j := strings.IndexByte(text[i+1:], c)
			if j >= 0 {
				end := i + 1 + j + 1
				result.WriteString(fgGreen)
				result.WriteString(text[i:end])
				result.WriteString(fgReset)
				i = end
				continue
			}
		}

		if isWordByte(c) {
			j := i
			for j < len(text) && isWordByte(text[j]) {
				j++
			}
			word := text[i:j]
			switch {
			case isYear(word) || isYearRange(word):
				result.WriteString(fgPurple + word + fgReset)
			case reportKeywords[strings.ToUpper(word)]:
				result.WriteString(fgCyan + word + fgReset)
			case isTickerLike(word):
				result.WriteString(fgOrange + word + fgReset)
			default:
				result.WriteString(word)
			}
			i = j
			continue
		}

		result.WriteByte(c)
		i++
	}

	return result.String()
}

func isWordByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '.' || c >= 0x80
}

func isYear(w string) bool {
	if len(w) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if w[i] < '0' || w[i] > '9' {
			return false
		}
	}
	return w[:2] == "19" || w[:2] == "20"
}

func isYearRange(w string) bool {
	a, b, ok := strings.Cut(w, "-")
	return ok && isYear(a) && isYear(b)
}

// isTickerLike matches 1-5 upper-case letters, optionally with dots
func isTickerLike(w string) bool {
	w = strings.TrimRight(w, ".")
	if len(w) < 2 || len(w) > 6 {
		return false
	}
	letters := 0
	for i := 0; i < len(w); i++ {
		switch {
		case w[i] >= 'A' && w[i] <= 'Z':
			letters++
		case w[i] == '.':
		default:
			return false
		}
	}
	return letters >= 2 && letters <= 5
}
