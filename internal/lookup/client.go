// Package lookup is the HTTP client for the company resolution and report
// discovery endpoints.
package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/search"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second

	resolvePath = "/api/resolve-company"
	verifyPath  = "/api/verify-company"
	searchPath  = "/search"
	healthPath  = "/api/health"
	listPath    = "/api/companies"
)

// Client talks to one irfinder backend
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
}

// Option configures the client
type Option func(*Client)

// WithTimeout sets the transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithRateLimit sets the client-side request budget
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a client for baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(DefaultTimeout).
			SetHeaders(map[string]string{
				"Content-Type": "application/json",
				"Accept":       "application/json",
				"User-Agent":   "irfinder",
			}),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend this client talks to
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

type resolveRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

// ResolveResponse is the resolution reply including the bookkeeping fields
type ResolveResponse struct {
	Success bool   `json:"success"`
	Query   string `json:"query"`
	Count   int    `json:"count"`
	company.Resolution
}

// Resolve asks the service to rank companies for query
func (c *Client) Resolve(ctx context.Context, query string, maxResults int) (company.Resolution, error) {
	var out ResolveResponse
	if err := c.post(ctx, resolvePath, resolveRequest{Query: query, MaxResults: maxResults}, &out); err != nil {
		return company.Resolution{}, err
	}
	if out.Matches == nil {
		out.Matches = []company.Candidate{}
	}
	return out.Resolution, nil
}

type verifyRequest struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
}

// Verify cross-checks a ticker against a company name
func (c *Client) Verify(ctx context.Context, ticker, companyName string) (company.Verification, error) {
	var out company.Verification
	err := c.post(ctx, verifyPath, verifyRequest{Ticker: ticker, CompanyName: companyName}, &out)
	return out, err
}

// Search dispatches a finalized report search. The body is opaque beyond
// what search.DecodeResponse understands.
func (c *Client) Search(ctx context.Context, req search.Request) (*search.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	log.Debug().Str("ticker", req.Ticker).Str("prompt", req.Prompt).Msg("search request")

	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post(searchPath)
	if err != nil {
		return nil, &TransportError{Endpoint: searchPath, Underlying: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Endpoint: searchPath, StatusCode: resp.StatusCode(), Underlying: detail(resp)}
	}
	return search.DecodeResponse(resp.Body()), nil
}

// CompaniesResponse is the catalog listing
type CompaniesResponse struct {
	Success   bool                `json:"success"`
	Count     int                 `json:"count"`
	Companies []company.Candidate `json:"companies"`
}

// Companies lists every company the service knows, sorted by name
func (c *Client) Companies(ctx context.Context) ([]company.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	var out CompaniesResponse
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get(listPath)
	if err != nil {
		return nil, &TransportError{Endpoint: listPath, Underlying: err}
	}
	if resp.IsError() {
		return nil, &TransportError{Endpoint: listPath, StatusCode: resp.StatusCode(), Underlying: detail(resp)}
	}
	if out.Companies == nil {
		out.Companies = []company.Candidate{}
	}
	return out.Companies, nil
}

// Health checks the backend is reachable
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(healthPath)
	if err != nil {
		return &TransportError{Endpoint: healthPath, Underlying: err}
	}
	if resp.IsError() {
		return &TransportError{Endpoint: healthPath, StatusCode: resp.StatusCode(), Underlying: detail(resp)}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	log.Debug().Str("path", path).Msg("lookup request")

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err != nil {
		return &TransportError{Endpoint: path, Underlying: err}
	}
	if resp.IsError() {
		return &TransportError{Endpoint: path, StatusCode: resp.StatusCode(), Underlying: detail(resp)}
	}
	return nil
}
