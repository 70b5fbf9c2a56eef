package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/CTAG07/Turbofish/pkg/templating"
	"github.com/CTAG07/Turbofish/pkg/turbofish"
)

const (
	actionShutdown = "shutdown"
	actionRestart  = "restart"
)

// maxTestTemplateSize bounds the body accepted by the template test endpoint.
const maxTestTemplateSize = 1 << 20

// AdminAPI holds the dependencies for the admin API handlers. It is served on
// its own listener, which defaults to loopback.
type AdminAPI struct {
	config     *Config
	actionChan chan<- string
	tm         *templating.TemplateManager
	logger     *slog.Logger
}

// VersionInfo defines the structure for build/version information.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

// NewAdminAPI creates a new instance of the AdminAPI.
func NewAdminAPI(config *Config, actionChan chan<- string, tm *templating.TemplateManager, logger *slog.Logger) *AdminAPI {
	return &AdminAPI{
		config:     config,
		actionChan: actionChan,
		tm:         tm,
		logger:     logger,
	}
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (a *AdminAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("GET /api/version", a.handleVersion)
	mux.HandleFunc("GET /api/config", a.handleConfig)
	mux.HandleFunc("GET /api/templates", a.handleListTemplates)
	mux.HandleFunc("POST /api/templates/refresh", a.handleRefresh)
	mux.HandleFunc("POST /api/templates/test", a.handleTestTemplate)
	mux.HandleFunc("POST /api/server/shutdown", a.handleAction(actionShutdown))
	mux.HandleFunc("POST /api/server/restart", a.handleAction(actionRestart))
}

func (a *AdminAPI) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion returns the application's build information.
func (a *AdminAPI) handleVersion(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	})
}

// handleConfig returns the configuration the server is running with.
func (a *AdminAPI) handleConfig(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, a.config)
}

// handleListTemplates returns the names of all loaded page templates.
func (a *AdminAPI) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, a.tm.GetTemplateNames())
}

// handleRefresh triggers a manual reload of templates from disk.
func (a *AdminAPI) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	if err := a.tm.Refresh(); err != nil {
		a.logger.Error("API triggered refresh failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh templates: %v", err))
		return
	}
	a.logger.Info("Templates refreshed via API")
	w.WriteHeader(http.StatusNoContent)
}

// handleTestTemplate renders the request body as a template without saving
// it. The optional "fish" query parameter is parsed and passed as page input.
func (a *AdminAPI) handleTestTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTestTemplateSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Template larger than %d bytes", tooLarge.Limit))
			return
		}
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read request body: %v", err))
		return
	}

	var input PageInput
	if fish := r.URL.Query().Get("fish"); fish != "" {
		expr, err := turbofish.Parse(fish)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		input.Guts = turbofish.Render(expr)
		input.Path = pagePath(input.Guts)
		input.Depth = expr.Depth()
	}

	var buf bytes.Buffer
	if err = a.tm.ExecuteTemplateString(&buf, string(body), input); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Template execution failed: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleAction asks the run loop to shut down or restart. The action channel
// is buffered; a second request while one is pending gets 409.
func (a *AdminAPI) handleAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		select {
		case a.actionChan <- action:
			a.logger.Warn("Server action requested via API", "action", action)
			respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Server action accepted: " + action})
		default:
			respondWithError(w, http.StatusConflict, "Another server action is already pending")
		}
	}
}
