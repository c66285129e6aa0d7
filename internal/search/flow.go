package search

import (
	"fmt"
	"strings"

	"github.com/nhath/irfinder/internal/company"
)

// State is where a search attempt currently stands
type State int

const (
	Idle State = iota
	Drafting
	SubmittedUnresolved
	AmbiguityPresented
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drafting:
		return "drafting"
	case SubmittedUnresolved:
		return "resolving"
	case AmbiguityPresented:
		return "choose company"
	case Resolved:
		return "resolved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Step tells the caller what to do after a transition
type Step int

const (
	// StepNone means nothing has to be sent
	StepNone Step = iota
	// StepResolve asks for the company text in Outcome.Query to be resolved
	StepResolve
	// StepChoose asks for the ambiguity dialog over Outcome.Choices
	StepChoose
	// StepDispatch sends Outcome.Request to the discovery service
	StepDispatch
)

// Outcome is the result of a flow transition
type Outcome struct {
	Step    Step
	Query   string
	Choices []company.Candidate
	Request Request
}

// Flow is the per-attempt state machine between pressing submit and
// dispatching the search
type Flow struct {
	state   State
	pending *PendingSearch
	choices []company.Candidate
	ticker  string
}

// NewFlow starts in Idle
func NewFlow() *Flow {
	return &Flow{state: Idle}
}

func (f *Flow) State() State { return f.state }

// Pending returns the search awaiting a company, if any
func (f *Flow) Pending() (PendingSearch, bool) {
	if f.pending == nil {
		return PendingSearch{}, false
	}
	return *f.pending, true
}

// Choices are the candidates shown while AmbiguityPresented
func (f *Flow) Choices() []company.Candidate { return f.choices }

// Ticker is the ticker bound by the last resolution
func (f *Flow) Ticker() string { return f.ticker }

// Edit records that the user is typing. A submission waiting on its
// resolution is abandoned.
func (f *Flow) Edit() {
	switch f.state {
	case Idle, Resolved, SubmittedUnresolved:
		f.reset(Drafting)
	}
}

// Submit starts a search. confirmed is the ticker the user finalized from
// the dropdown, or "" when the company field holds free text.
func (f *Flow) Submit(prompt, companyText, confirmed string) (Outcome, error) {
	if f.state == AmbiguityPresented || f.state == SubmittedUnresolved {
		return Outcome{}, fmt.Errorf("search already in progress (%s)", f.state)
	}
	prompt = strings.TrimSpace(prompt)
	companyText = strings.TrimSpace(companyText)

	if prompt == "" && companyText == "" {
		f.state = Drafting
		return Outcome{}, ErrEmptyQuery
	}
	if companyText == "" || (confirmed != "" && strings.EqualFold(companyText, confirmed)) {
		ticker := ""
		if companyText != "" {
			ticker = confirmed
		}
		return f.resolve(PendingSearch{PromptText: prompt, TickerOverride: ticker})
	}

	f.reset(SubmittedUnresolved)
	f.pending = &PendingSearch{PromptText: prompt, TickerOverride: companyText}
	return Outcome{Step: StepResolve, Query: companyText}, nil
}

// Resolution applies the service reply for the pending company text:
//  1. a ticker equal to the text wins, unless the reply is flagged ambiguous
//  2. a single match wins
//  3. several matches always ask the user
//  4. no match sends the text itself as the ticker
func (f *Flow) Resolution(res company.Resolution) (Outcome, error) {
	if f.state != SubmittedUnresolved || f.pending == nil {
		return Outcome{}, nil
	}
	q := f.pending.TickerOverride

	if !res.IsAmbiguous {
		for _, m := range res.Matches {
			if strings.EqualFold(m.Ticker, q) {
				return f.bind(m.Ticker)
			}
		}
	}
	switch len(res.Matches) {
	case 0:
		return f.bind(strings.ToUpper(q))
	case 1:
		return f.bind(res.Matches[0].Ticker)
	default:
		f.state = AmbiguityPresented
		f.choices = res.Matches
		return Outcome{Step: StepChoose, Query: q, Choices: res.Matches}, nil
	}
}

// Failed returns to Drafting after the resolution call failed
func (f *Flow) Failed() {
	if f.state == SubmittedUnresolved {
		f.reset(Drafting)
	}
}

// Pick settles the ambiguity dialog with the i-th choice
func (f *Flow) Pick(i int) (Outcome, error) {
	if f.state != AmbiguityPresented {
		return Outcome{}, fmt.Errorf("no company choice pending")
	}
	if i < 0 || i >= len(f.choices) {
		return Outcome{}, fmt.Errorf("choice %d out of range", i)
	}
	return f.bind(f.choices[i].Ticker)
}

// Cancel abandons the attempt; nothing is sent
func (f *Flow) Cancel() {
	f.reset(Idle)
}

func (f *Flow) bind(ticker string) (Outcome, error) {
	p := *f.pending
	p.TickerOverride = ticker
	return f.resolve(p)
}

func (f *Flow) resolve(p PendingSearch) (Outcome, error) {
	req, err := Compose(p)
	if err != nil {
		f.reset(Drafting)
		return Outcome{}, err
	}
	f.reset(Resolved)
	f.ticker = req.Ticker
	return Outcome{Step: StepDispatch, Request: req}, nil
}

func (f *Flow) reset(s State) {
	f.state = s
	f.pending = nil
	f.choices = nil
	f.ticker = ""
}
