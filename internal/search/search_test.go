package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhath/irfinder/internal/company"
)

func TestCompose(t *testing.T) {
	_, err := Compose(PendingSearch{PromptText: "  ", TickerOverride: ""})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	req, err := Compose(PendingSearch{TickerOverride: "tsla"})
	require.NoError(t, err)
	assert.Equal(t, "TSLA", req.Ticker)
	assert.Equal(t, "Find investor reports for TSLA", req.Prompt)

	req, err = Compose(PendingSearch{PromptText: "Apple annual reports 2020-2023", TickerOverride: "MSFT"})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", req.Ticker)
	assert.Equal(t, "Apple annual reports 2020-2023", req.Prompt)

	req, err = Compose(PendingSearch{PromptText: "Tesla 10-K 2022"})
	require.NoError(t, err)
	assert.Empty(t, req.Ticker)
}

func TestRequestJSON(t *testing.T) {
	req := Request{Prompt: "p", Ticker: "AAPL"}.WithCredentials(Credentials{SerperKey: "s-key", OpenAIProvider: "openrouter"})
	b, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt":"p","ticker":"AAPL","serper_api_key":"s-key","openai_provider":"openrouter"}`, string(b))

	assert.Empty(t, req.Redacted().SerperKey)
	assert.Equal(t, "openrouter", req.Redacted().OpenAIProvider)
}

func TestDecodeResponse(t *testing.T) {
	body := []byte(`{"success":true,"query":"q","company":"Apple Inc.","reports":[{"year":2023,"type":"annual","title":"10-K","url":"https://x/a.pdf"}],"count":1,"message":"ok","missing_years":[2021]}`)
	resp := DecodeResponse(body)
	assert.True(t, resp.Success)
	require.Len(t, resp.Reports, 1)
	assert.Equal(t, 2023, resp.Reports[0].Year)
	assert.Equal(t, []int{2021}, resp.MissingYears)
	assert.JSONEq(t, string(body), string(resp.Raw))

	resp = DecodeResponse([]byte(`["opaque"]`))
	assert.Empty(t, resp.Reports)
	assert.Equal(t, `["opaque"]`, string(resp.Raw))
}

var (
	dal       = company.Candidate{Ticker: "DAL", CompanyName: "Delta Air Lines, Inc.", MatchType: company.MatchPrefix, Confidence: 0.93}
	deltaCorp = company.Candidate{Ticker: "DELTACORP", CompanyName: "Delta Corp Ltd", MatchType: company.MatchPrefix, Confidence: 0.94}
	tsla      = company.Candidate{Ticker: "TSLA", CompanyName: "Tesla, Inc.", MatchType: company.MatchExactTicker, Confidence: 1.0}
)

func TestFlow_AmbiguousSubmissionPresentsDialog(t *testing.T) {
	f := NewFlow()
	f.Edit()
	assert.Equal(t, Drafting, f.State())

	out, err := f.Submit("annual reports 2023", "Delta", "")
	require.NoError(t, err)
	assert.Equal(t, StepResolve, out.Step)
	assert.Equal(t, "Delta", out.Query)
	assert.Equal(t, SubmittedUnresolved, f.State())

	out, err = f.Resolution(company.Resolution{Matches: []company.Candidate{dal, deltaCorp}, IsAmbiguous: true})
	require.NoError(t, err)
	assert.Equal(t, StepChoose, out.Step)
	assert.Equal(t, AmbiguityPresented, f.State())
	assert.Len(t, f.Choices(), 2)

	out, err = f.Pick(0)
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Equal(t, Resolved, f.State())
	assert.Equal(t, "DAL", out.Request.Ticker)
	assert.Equal(t, "annual reports 2023", out.Request.Prompt)
}

func TestFlow_MultipleMatchesAskEvenWhenNotFlagged(t *testing.T) {
	f := NewFlow()
	_, err := f.Submit("", "Delta", "")
	require.NoError(t, err)

	out, err := f.Resolution(company.Resolution{Matches: []company.Candidate{dal, deltaCorp}})
	require.NoError(t, err)
	assert.Equal(t, StepChoose, out.Step)
}

func TestFlow_CancelSendsNothing(t *testing.T) {
	f := NewFlow()
	_, _ = f.Submit("", "Delta", "")
	_, _ = f.Resolution(company.Resolution{Matches: []company.Candidate{dal, deltaCorp}, IsAmbiguous: true})

	f.Cancel()
	assert.Equal(t, Idle, f.State())
	_, ok := f.Pending()
	assert.False(t, ok)

	_, err := f.Pick(0)
	assert.Error(t, err)
}

func TestFlow_TickerOnlySubmission(t *testing.T) {
	f := NewFlow()
	out, err := f.Submit("", "TSLA", "")
	require.NoError(t, err)
	require.Equal(t, StepResolve, out.Step)

	out, err = f.Resolution(company.Resolution{Matches: []company.Candidate{tsla}})
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Equal(t, "TSLA", out.Request.Ticker)
	assert.Contains(t, out.Request.Prompt, "TSLA")
	assert.Equal(t, "TSLA", f.Ticker())
}

func TestFlow_ExactTickerWinsAmongSeveral(t *testing.T) {
	f := NewFlow()
	_, _ = f.Submit("", "dal", "")
	out, err := f.Resolution(company.Resolution{Matches: []company.Candidate{deltaCorp, dal}})
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Equal(t, "DAL", out.Request.Ticker)
}

func TestFlow_NoMatchUsesTypedText(t *testing.T) {
	f := NewFlow()
	_, _ = f.Submit("reports", "zzzq", "")
	out, err := f.Resolution(company.Resolution{Matches: []company.Candidate{}})
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Equal(t, "ZZZQ", out.Request.Ticker)
}

func TestFlow_ConfirmedAndEmptyCompany(t *testing.T) {
	f := NewFlow()
	out, err := f.Submit("10-K filings", "DAL", "DAL")
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Equal(t, "DAL", out.Request.Ticker)

	out, err = f.Submit("Apple annual reports", "", "")
	require.NoError(t, err)
	assert.Equal(t, StepDispatch, out.Step)
	assert.Empty(t, out.Request.Ticker)

	_, err = f.Submit(" ", " ", "")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, Drafting, f.State())
}

func TestFlow_FailureReturnsToDrafting(t *testing.T) {
	f := NewFlow()
	_, _ = f.Submit("", "Delta", "")
	f.Failed()
	assert.Equal(t, Drafting, f.State())

	// a reply arriving after the attempt was abandoned is ignored
	out, err := f.Resolution(company.Resolution{Matches: []company.Candidate{dal}})
	require.NoError(t, err)
	assert.Equal(t, StepNone, out.Step)
}

func TestFlow_SubmitWhileChoosing(t *testing.T) {
	f := NewFlow()
	_, _ = f.Submit("", "Delta", "")
	_, _ = f.Resolution(company.Resolution{Matches: []company.Candidate{dal, deltaCorp}, IsAmbiguous: true})
	_, err := f.Submit("", "Delta", "")
	assert.Error(t, err)
}
