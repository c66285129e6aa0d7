package company

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
)

//go:embed catalog.json
var defaultCatalog []byte

// ErrTickerNotFound is returned when a ticker is not in the catalog.
var ErrTickerNotFound = errors.New("ticker not found")

// Entry is one listed company in the catalog.
type Entry struct {
	Ticker       string   `json:"ticker"`
	Exchange     string   `json:"exchange"`
	ExchangeCode string   `json:"exchange_code"`
	Country      string   `json:"country"`
	PrimaryName  string   `json:"primary_name"`
	LegalName    string   `json:"legal_name"`
	Aliases      []string `json:"aliases"`
}

// Names returns the primary name followed by every alias.
func (e Entry) Names() []string {
	return append([]string{e.PrimaryName}, e.Aliases...)
}

// Catalog maps tickers to companies while keeping load order, which is the
// tie-break order when two companies score the same.
type Catalog struct {
	entries []Entry
	byTick  map[string]int
}

// NewCatalog builds a catalog from entries. Later duplicates of a ticker
// replace earlier ones in place.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{byTick: make(map[string]int, len(entries))}
	for _, e := range entries {
		e.Ticker = strings.ToUpper(strings.TrimSpace(e.Ticker))
		if e.Ticker == "" {
			continue
		}
		if idx, ok := c.byTick[e.Ticker]; ok {
			c.entries[idx] = e
			continue
		}
		c.byTick[e.Ticker] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file. An empty path loads the bundled catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog accepts either the enhanced format
// {"companies": [{"ticker": ..., "primary_name": ..., "aliases": [...]}]}
// or the legacy flat {"Company Name": "TICKER"} mapping.
func ParseCatalog(data []byte) (*Catalog, error) {
	var enhanced struct {
		Companies []Entry `json:"companies"`
	}
	if err := json.Unmarshal(data, &enhanced); err == nil && enhanced.Companies != nil {
		return NewCatalog(enhanced.Companies), nil
	}

	pairs, err := decodeLegacy(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var order []string
	names := make(map[string][]string)
	for _, p := range pairs {
		if _, seen := names[p.ticker]; !seen {
			order = append(order, p.ticker)
		}
		names[p.ticker] = append(names[p.ticker], p.name)
	}

	entries := make([]Entry, 0, len(order))
	for _, ticker := range order {
		n := names[ticker]
		e := Entry{
			Ticker:       ticker,
			ExchangeCode: "US",
			Country:      "United States",
			PrimaryName:  n[0],
			LegalName:    n[0],
			Aliases:      n,
		}
		if len(ticker) <= 5 && isUpperTicker(ticker) {
			e.Exchange = "NASDAQ"
		}
		entries = append(entries, e)
	}
	return NewCatalog(entries), nil
}

type legacyPair struct {
	name, ticker string
}

// decodeLegacy walks the object token by token so file order survives.
func decodeLegacy(data []byte) ([]legacyPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var pairs []legacyPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := keyTok.(string)
		var ticker string
		if err := dec.Decode(&ticker); err != nil {
			return nil, fmt.Errorf("value for %q: %w", name, err)
		}
		pairs = append(pairs, legacyPair{name: name, ticker: ticker})
	}
	return pairs, nil
}

func isUpperTicker(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// Len returns the number of companies.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Lookup returns the company for a ticker, case-insensitively.
func (c *Catalog) Lookup(ticker string) (Entry, bool) {
	idx, ok := c.byTick[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return Entry{}, false
	}
	return c.entries[idx], true
}

// CompanyName returns the primary name for a ticker.
func (c *Catalog) CompanyName(ticker string) (string, error) {
	e, ok := c.Lookup(ticker)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}
	return e.PrimaryName, nil
}

// All returns every company as a candidate-shaped listing sorted by name.
func (c *Catalog) All() []Candidate {
	out := make([]Candidate, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, Candidate{
			Ticker:      e.Ticker,
			CompanyName: e.PrimaryName,
			Exchange:    e.Exchange,
			Country:     e.Country,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompanyName < out[j].CompanyName
	})
	return out
}
