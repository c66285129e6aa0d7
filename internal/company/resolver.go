package company

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const (
	// DefaultMaxResults caps a resolution when the caller does not say.
	DefaultMaxResults = 5
	// AutocompleteMinScore is the fuzzy floor used for interactive lookups.
	AutocompleteMinScore = 0.5
	// DefaultMinScore is the fuzzy floor for programmatic lookups.
	DefaultMinScore = 0.6

	ambiguityMaxResults = 10
	ambiguityMinScore   = 0.7
)

// Resolver scores free-text queries against a catalog.
type Resolver struct {
	catalog *Catalog
}

// NewResolver creates a resolver over the catalog.
func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Catalog returns the underlying catalog.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// looksLikeTicker reports whether the query could be a ticker symbol:
// at most five letters, optionally with dots.
func looksLikeTicker(q string) bool {
	q = strings.ToUpper(strings.TrimSpace(q))
	if len(q) == 0 || len(q) > 5 {
		return false
	}
	for _, r := range q {
		if !unicode.IsLetter(r) && r != '.' {
			return false
		}
	}
	return true
}

// Resolve returns up to maxResults candidates for the query, best first.
// A query naming a listed ticker short-circuits to a single exact_ticker match.
func (r *Resolver) Resolve(query string, maxResults int, minScore float64) []Candidate {
	if strings.TrimSpace(query) == "" {
		return []Candidate{}
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	if looksLikeTicker(query) {
		if e, ok := r.catalog.Lookup(query); ok {
			return []Candidate{{
				Ticker:      e.Ticker,
				CompanyName: e.PrimaryName,
				Exchange:    e.Exchange,
				Country:     e.Country,
				MatchType:   MatchExactTicker,
				Confidence:  1.0,
			}}
		}
	}

	q := normalize(query)
	matches := []Candidate{}
	for _, e := range r.catalog.entries {
		matchType, score := scoreEntry(q, e, minScore)
		if matchType == "" || score <= 0 {
			continue
		}
		matches = append(matches, Candidate{
			Ticker:      e.Ticker,
			CompanyName: e.PrimaryName,
			Exchange:    e.Exchange,
			Country:     e.Country,
			MatchType:   matchType,
			Confidence:  score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

// scoreEntry returns the best match type and score of q over every name the
// company is known by.
func scoreEntry(q string, e Entry, minScore float64) (MatchType, float64) {
	var best MatchType
	bestScore := 0.0

	for _, name := range e.Names() {
		n := normalize(name)
		if n == "" {
			continue
		}
		ratio := float64(len([]rune(q))) / float64(len([]rune(n)))

		switch {
		case q == n:
			return MatchExact, 1.0
		case strings.HasPrefix(n, q):
			if score := 0.9 + ratio*0.1; score > bestScore {
				best, bestScore = MatchPrefix, min(score, 0.99)
			}
		case strings.Contains(n, q):
			if score := 0.7 + ratio*0.2; score > bestScore {
				best, bestScore = MatchContains, min(score, 0.89)
			}
		default:
			if sim := Similarity(q, n); sim >= minScore && sim > bestScore {
				best, bestScore = MatchFuzzy, sim
			}
		}
	}
	return best, bestScore
}

// DetectAmbiguity reports whether more than one distinct company matches the
// query with confidence at or above the medium threshold.
func (r *Resolver) DetectAmbiguity(query string) bool {
	strong := 0
	for _, m := range r.Resolve(query, ambiguityMaxResults, ambiguityMinScore) {
		if m.Confidence >= MediumConfidence {
			strong++
		}
	}
	return strong > 1
}

// ResolveForAutocomplete runs the interactive lookup and flags ambiguity.
func (r *Resolver) ResolveForAutocomplete(query string, maxResults int) Resolution {
	if strings.TrimSpace(query) == "" {
		return Resolution{Matches: []Candidate{}}
	}
	return Resolution{
		Matches:     r.Resolve(query, maxResults, AutocompleteMinScore),
		IsAmbiguous: r.DetectAmbiguity(query),
	}
}

// Verification is the outcome of cross-checking a ticker against a name.
type Verification struct {
	IsValid      bool    `json:"is_valid"`
	Ticker       string  `json:"ticker"`
	ResolvedName string  `json:"resolved_name,omitempty"`
	Exchange     string  `json:"exchange,omitempty"`
	Country      string  `json:"country,omitempty"`
	Message      string  `json:"message"`
	Confidence   float64 `json:"confidence"`
}

// VerifyMatch checks whether ticker and companyName refer to the same company.
func (r *Resolver) VerifyMatch(ticker, companyName string) Verification {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	e, ok := r.catalog.Lookup(ticker)
	if !ok {
		return Verification{
			Ticker:  ticker,
			Message: fmt.Sprintf("Ticker '%s' not found in database", ticker),
		}
	}

	v := Verification{
		Ticker:       ticker,
		ResolvedName: e.PrimaryName,
		Exchange:     e.Exchange,
		Country:      e.Country,
	}
	name := normalize(companyName)
	primary := normalize(e.PrimaryName)

	if name == primary {
		v.IsValid, v.Confidence = true, 1.0
		v.Message = fmt.Sprintf("Exact match: %s (%s)", e.PrimaryName, ticker)
		return v
	}
	for _, alias := range e.Aliases {
		if name == normalize(alias) {
			v.IsValid, v.Confidence = true, 0.95
			v.Message = fmt.Sprintf("Matched via alias: %s (%s)", e.PrimaryName, ticker)
			return v
		}
	}
	if name != "" && (strings.Contains(primary, name) || strings.Contains(name, primary)) {
		v.IsValid, v.Confidence = true, 0.75
		v.Message = fmt.Sprintf("Partial match: %s (%s)", e.PrimaryName, ticker)
		return v
	}

	v.Message = fmt.Sprintf("Mismatch: Ticker '%s' is %s, not '%s'", ticker, e.PrimaryName, companyName)
	return v
}
