package main

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// StatsSummary is the overview returned by /api/stats/summary.
type StatsSummary struct {
	Uptime         string        `json:"uptime"`
	PagesServed    int64         `json:"pages_served"`
	RandomServed   int64         `json:"random_redirects"`
	ReverseServed  int64         `json:"reverse_redirects"`
	StaticServed   int64         `json:"static_served"`
	NotFound       int64         `json:"not_found"`
	RenderFailures int64         `json:"render_failures"`
	Depths         map[int]int64 `json:"depths"`
}

// Stats counts what the public server has handed out since the current
// server cycle started. Nothing is persisted; a restart resets it.
type Stats struct {
	started        time.Time
	pagesServed    atomic.Int64
	randomServed   atomic.Int64
	reverseServed  atomic.Int64
	staticServed   atomic.Int64
	notFound       atomic.Int64
	renderFailures atomic.Int64

	mu     sync.Mutex
	depths map[int]int64
}

func NewStats() *Stats {
	return &Stats{
		started: time.Now(),
		depths:  make(map[int]int64),
	}
}

// recordPage counts a turbofish page served at the given depth.
func (s *Stats) recordPage(depth int) {
	s.pagesServed.Add(1)
	s.mu.Lock()
	s.depths[depth]++
	s.mu.Unlock()
}

// Summary returns a snapshot of the counters.
func (s *Stats) Summary() StatsSummary {
	s.mu.Lock()
	depths := make(map[int]int64, len(s.depths))
	for d, n := range s.depths {
		depths[d] = n
	}
	s.mu.Unlock()

	return StatsSummary{
		Uptime:         time.Since(s.started).Round(time.Second).String(),
		PagesServed:    s.pagesServed.Load(),
		RandomServed:   s.randomServed.Load(),
		ReverseServed:  s.reverseServed.Load(),
		StaticServed:   s.staticServed.Load(),
		NotFound:       s.notFound.Load(),
		RenderFailures: s.renderFailures.Load(),
		Depths:         depths,
	}
}

// StatsAPI exposes Stats on the admin mux.
type StatsAPI struct {
	stats *Stats
}

func NewStatsAPI(stats *Stats) *StatsAPI {
	return &StatsAPI{stats: stats}
}

func (s *StatsAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/stats/summary", s.handleSummary)
}

func (s *StatsAPI) handleSummary(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, s.stats.Summary())
}
