package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nhath/irfinder/internal/config"
	"github.com/nhath/irfinder/internal/search"
)

// ErrNoDiscovery is returned when no discovery backend is configured
var ErrNoDiscovery = errors.New("no discovery backend configured")

// ErrSerperKeyRequired mirrors the discovery backend's own check so the
// client gets the message without a round trip
var ErrSerperKeyRequired = errors.New("Serper API key is required. Get one at https://serper.dev or configure it on the server")

// Gateway forwards /search to the document discovery backend, filling in
// server-held credentials the caller did not send
type Gateway struct {
	http      *resty.Client
	openAIKey string
	serperKey string
}

// NewGateway creates a gateway to baseURL. It returns nil when baseURL is empty.
func NewGateway(baseURL, openAIKey, serperKey string, timeout time.Duration) *Gateway {
	if baseURL == "" {
		return nil
	}
	return &Gateway{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeaders(map[string]string{
				"Content-Type": "application/json",
				"Accept":       "application/json",
			}),
		openAIKey: openAIKey,
		serperKey: serperKey,
	}
}

// Upstream is the discovery reply, passed through untouched
type Upstream struct {
	Status      int
	ContentType string
	Body        []byte
}

// prepare injects the server keys where the request has none and derives
// the LLM base URL from the provider
func (g *Gateway) prepare(req search.Request) (search.Request, error) {
	if req.OpenAIKey == "" {
		req.OpenAIKey = g.openAIKey
	}
	if req.SerperKey == "" {
		req.SerperKey = g.serperKey
	}
	if req.SerperKey == "" {
		return req, ErrSerperKeyRequired
	}
	if req.OpenAIBaseURL == "" {
		req.OpenAIBaseURL = config.ProviderBaseURL(req.OpenAIProvider)
	}
	return req, nil
}

// Forward sends req upstream and returns the reply as is
func (g *Gateway) Forward(ctx context.Context, req search.Request, requestID string) (*Upstream, error) {
	if g == nil {
		return nil, ErrNoDiscovery
	}
	req, err := g.prepare(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.http.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, requestID).
		SetBody(req).
		Post("/search")
	if err != nil {
		return nil, fmt.Errorf("discovery request: %w", err)
	}

	ct := resp.Header().Get("Content-Type")
	if ct == "" {
		ct = "application/json"
	}
	return &Upstream{Status: resp.StatusCode(), ContentType: ct, Body: resp.Body()}, nil
}
