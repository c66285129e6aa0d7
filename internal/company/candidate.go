// Package company holds the company candidate model shared by the resolution
// service and the terminal client, plus the catalog-backed resolver.
package company

// MatchType classifies how a candidate matched the query.
// Values are ordered by specificity, exact-most first.
type MatchType string

const (
	MatchExact       MatchType = "exact"
	MatchExactTicker MatchType = "exact_ticker"
	MatchPrefix      MatchType = "prefix"
	MatchContains    MatchType = "contains"
	MatchFuzzy       MatchType = "fuzzy"
)

// Label returns the badge text for a match type. Unknown values map to ""
// so newer service versions can introduce match types without breaking clients.
func (t MatchType) Label() string {
	switch t {
	case MatchExact, MatchExactTicker:
		return "Exact"
	case MatchPrefix:
		return "Starts with"
	case MatchContains:
		return "Contains"
	case MatchFuzzy:
		return "Similar"
	default:
		return ""
	}
}

// Candidate is one company returned for a resolution query.
type Candidate struct {
	Ticker      string    `json:"ticker"`
	CompanyName string    `json:"company_name"`
	Exchange    string    `json:"exchange,omitempty"`
	Country     string    `json:"country,omitempty"`
	MatchType   MatchType `json:"match_type"`
	Confidence  float64   `json:"confidence"`
}

// Tier returns the confidence marker for the candidate.
func (c Candidate) Tier() Tier {
	return TierFor(c.Confidence)
}

// Resolution is the outcome of one resolution call. Matches keep the order
// the service sent them in.
type Resolution struct {
	Matches     []Candidate `json:"matches"`
	IsAmbiguous bool        `json:"is_ambiguous"`
}

// Empty reports whether the resolution carries no candidates.
func (r Resolution) Empty() bool {
	return len(r.Matches) == 0
}

// Tier is a coarse confidence bucket.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

// Confidence thresholds for the marker shown next to each candidate.
const (
	HighConfidence   = 0.95
	MediumConfidence = 0.8
)

// TierFor buckets a confidence score.
func TierFor(confidence float64) Tier {
	switch {
	case confidence >= HighConfidence:
		return TierHigh
	case confidence >= MediumConfidence:
		return TierMedium
	default:
		return TierLow
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}
