package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAPI_Summary(t *testing.T) {
	env := setupTestServer(t)
	mux := http.NewServeMux()
	NewStatsAPI(env.server.Stats()).RegisterRoutes(mux)

	env.get(t, "/random")
	env.get(t, "/reverse")
	env.get(t, "/Vec::%3Ci32%3E")
	env.get(t, "/Option::%3CVec::%3Cu8%3E%3E")
	env.get(t, "/u8")
	env.get(t, "/robots.txt")
	env.get(t, "/not%3C%3Ca%3Cvalid%3E%3Etoken")

	rec := do(mux, http.MethodGet, "/api/stats/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got StatsSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.PagesServed)
	assert.Equal(t, int64(1), got.RandomServed)
	assert.Equal(t, int64(1), got.ReverseServed)
	assert.Equal(t, int64(1), got.StaticServed)
	assert.Equal(t, int64(1), got.NotFound)
	assert.Zero(t, got.RenderFailures)
	assert.Equal(t, map[int]int64{0: 1, 1: 1, 2: 1}, got.Depths)
	assert.NotEmpty(t, got.Uptime)
}

func TestStats_SummaryIsSnapshot(t *testing.T) {
	stats := NewStats()
	stats.recordPage(2)
	summary := stats.Summary()
	stats.recordPage(2)

	assert.Equal(t, int64(1), summary.Depths[2])
	assert.Equal(t, int64(2), stats.Summary().Depths[2])
}
