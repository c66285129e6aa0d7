package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/nhath/irfinder/internal/company"
	"github.com/nhath/irfinder/internal/lookup"
	"github.com/nhath/irfinder/internal/search"
)

type resolveBody struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results" binding:"omitempty,gte=1,lte=20"`
}

type verifyBody struct {
	Ticker      string `json:"ticker" binding:"required"`
	CompanyName string `json:"company_name" binding:"required"`
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "detail": err.Error()})
}

// RegisterRoutes mounts the catalog endpoints under group
func (s *Server) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/health", s.health)
	group.HEAD("/health", s.health)
	group.POST("/resolve-company", s.resolveCompany)
	group.POST("/verify-company", s.verifyCompany)
	group.GET("/companies", s.listCompanies)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"companies": s.resolver.Catalog().Len(),
	})
}

func (s *Server) resolveCompany(c *gin.Context) {
	var body resolveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if body.MaxResults == 0 {
		body.MaxResults = company.DefaultMaxResults
	}

	query := strings.TrimSpace(body.Query)
	if query == "" {
		c.JSON(http.StatusOK, lookup.ResolveResponse{
			Success:    true,
			Query:      body.Query,
			Resolution: company.Resolution{Matches: []company.Candidate{}},
		})
		return
	}

	key := fmt.Sprintf("%s|%d", strings.ToLower(query), body.MaxResults)
	if v, ok := s.resolutions.Get(key); ok {
		res := v.(company.Resolution)
		c.JSON(http.StatusOK, lookup.ResolveResponse{Success: true, Query: body.Query, Count: len(res.Matches), Resolution: res})
		return
	}

	res := s.resolver.ResolveForAutocomplete(query, body.MaxResults)
	s.resolutions.Set(key, res, cache.DefaultExpiration)

	log.Debug().
		Str("request_id", c.GetString(requestIDKey)).
		Str("query", query).
		Int("matches", len(res.Matches)).
		Bool("ambiguous", res.IsAmbiguous).
		Msg("Resolved company")

	c.JSON(http.StatusOK, lookup.ResolveResponse{Success: true, Query: body.Query, Count: len(res.Matches), Resolution: res})
}

func (s *Server) verifyCompany(c *gin.Context) {
	var body verifyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, s.resolver.VerifyMatch(body.Ticker, body.CompanyName))
}

func (s *Server) listCompanies(c *gin.Context) {
	all := s.resolver.Catalog().All()
	c.JSON(http.StatusOK, lookup.CompaniesResponse{Success: true, Count: len(all), Companies: all})
}

// searchReports forwards to the discovery backend and relays its reply
func (s *Server) searchReports(c *gin.Context) {
	var req search.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" && strings.TrimSpace(req.Ticker) == "" {
		badRequest(c, search.ErrEmptyQuery)
		return
	}

	up, err := s.gateway.Forward(c.Request.Context(), req, c.GetString(requestIDKey))
	switch {
	case errors.Is(err, ErrSerperKeyRequired):
		badRequest(c, err)
		return
	case errors.Is(err, ErrNoDiscovery):
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"success": false, "detail": err.Error()})
		return
	case err != nil:
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("Discovery request failed")
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"success": false, "detail": err.Error()})
		return
	}

	log.Info().
		Str("request_id", c.GetString(requestIDKey)).
		Str("ticker", req.Ticker).
		Int("upstream_status", up.Status).
		Msg("Search relayed")
	c.Data(up.Status, up.ContentType, up.Body)
}
