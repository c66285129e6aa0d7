package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhath/irfinder/internal/company"
)

func TestRenderResolution(t *testing.T) {
	res := company.Resolution{
		Matches: []company.Candidate{
			{Ticker: "DAL", CompanyName: "Delta Air Lines, Inc.", Exchange: "NYSE", MatchType: company.MatchExact, Confidence: 1},
			{Ticker: "DELTACORP.NS", CompanyName: "Delta Corp Ltd", Exchange: "NSE", MatchType: company.MatchPrefix, Confidence: 0.86},
		},
		IsAmbiguous: true,
	}

	out := renderResolution("delta", res)
	assert.Contains(t, out, "DAL")
	assert.Contains(t, out, "DELTACORP.NS")
	assert.Contains(t, out, "100% high")
	assert.Contains(t, out, "86% medium")
	assert.Contains(t, out, `"delta" is ambiguous`)
}

func TestRenderResolution_Empty(t *testing.T) {
	assert.Equal(t, "No companies match \"zzz\"\n", renderResolution("zzz", company.Resolution{}))
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["resolve"])
	assert.NotNil(t, resolveCmd.Flags().Lookup("max"))
}
