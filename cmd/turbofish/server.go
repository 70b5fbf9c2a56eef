package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/CTAG07/Turbofish/pkg/templating"
	"github.com/CTAG07/Turbofish/pkg/turbofish"
)

// PageInput is the data passed to page templates.
type PageInput struct {
	// Guts is the rendered turbofish, empty on the home page.
	Guts string
	// Path is the escaped URL path of Guts.
	Path string
	// Depth is the nesting depth of Guts.
	Depth int
}

// route binds a ServeMux pattern to a handler.
type route struct {
	pattern string
	handler http.HandlerFunc
}

// Server serves the public turbofish pages. Handlers read only the request
// and the collaborators below; nothing is shared between requests.
type Server struct {
	config    *Config
	logger    *slog.Logger
	gen       *turbofish.Generator
	tm        *templating.TemplateManager
	newSource func() turbofish.Source
	stats     *Stats
	staticDir string
	mux       *http.ServeMux
}

// NewServer creates the public server and registers its routes.
func NewServer(config *Config, logger *slog.Logger, gen *turbofish.Generator, tm *templating.TemplateManager) *Server {
	s := &Server{
		config: config,
		logger: logger,
		gen:    gen,
		tm:     tm,
		newSource: func() turbofish.Source {
			return turbofish.NewSource()
		},
		stats:     NewStats(),
		staticDir: filepath.Join(config.Server.DataDir, "static"),
		mux:       http.NewServeMux(),
	}
	for _, rt := range s.routes() {
		s.mux.HandleFunc(rt.pattern, rt.handler)
	}
	return s
}

// routes is the public route table. More specific patterns win regardless
// of order, so "/{value}" only sees single segments that are not "random" or
// "reverse", and "/{path...}" catches everything else.
func (s *Server) routes() []route {
	return []route{
		{"GET /{$}", s.handleIndex},
		{"GET /random", s.handleRandom},
		{"GET /reverse", s.handleReverse},
		{"GET /static/{path...}", s.handleStatic},
		{"GET /{value}", s.handleTurbofish},
		{"GET /{path...}", s.handleStatic},
	}
}

// Handler returns the public handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return withRequestLogging(s.logger, s.mux)
}

// Stats returns the counters for this server.
func (s *Server) Stats() *Stats {
	return s.stats
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.config.Templates.PageTemplate, PageInput{})
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	s.stats.randomServed.Add(1)
	s.redirectTo(w, r, s.gen.Generate(s.newSource(), s.config.Generator.MaxDepth))
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	s.stats.reverseServed.Add(1)
	s.redirectTo(w, r, s.gen.GenerateReverse(s.newSource(), s.config.Generator.MaxDepth))
}

// redirectTo sends the client to the page for expr. Both random endpoints
// go through here so the URL always comes from turbofish.Render.
func (s *Server) redirectTo(w http.ResponseWriter, r *http.Request, expr turbofish.Expression) {
	target := pagePath(turbofish.Render(expr))
	s.logger.Debug("Redirecting to turbofish", "target", target)
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleTurbofish(w http.ResponseWriter, r *http.Request) {
	value := r.PathValue("value")
	expr, err := turbofish.Parse(value)
	if err != nil {
		var perr *turbofish.ParseError
		if errors.As(err, &perr) {
			s.logger.Debug("Not a turbofish", "value", value, "offset", perr.Offset, "reason", perr.Msg)
		}
		// Lower priority: a static file with the same name.
		s.serveStatic(w, r, value)
		return
	}

	text := turbofish.Render(expr)
	if s.renderPage(w, r, http.StatusOK, s.config.Templates.PageTemplate, PageInput{
		Guts:  text,
		Path:  pagePath(text),
		Depth: expr.Depth(),
	}) {
		s.stats.recordPage(expr.Depth())
	}
}

// handleStatic serves the file named by the "path" wildcard, relative to the
// static directory.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	s.serveStatic(w, r, r.PathValue("path"))
}

// serveStatic serves a regular file from the static directory, or the 404
// page. Directories are never listed.
func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request, file string) {
	name := path.Clean("/" + file)
	root, err := os.OpenRoot(s.staticDir)
	if err != nil {
		s.notFound(w, r)
		return
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	rel := name[1:]
	if rel == "" {
		s.notFound(w, r)
		return
	}
	info, err := fs.Stat(root.FS(), rel)
	if err != nil || info.IsDir() {
		s.notFound(w, r)
		return
	}
	s.stats.staticServed.Add(1)
	http.ServeFileFS(w, r, root.FS(), rel)
}

// notFound renders the configured 404 template, falling back to a plain
// text response when it is missing.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.stats.notFound.Add(1)
	name := s.config.Templates.NotFoundTemplate
	if !s.tm.Has(name) {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, r, http.StatusNotFound, name, nil)
}

// renderPage executes a template into a buffer and only then writes the
// response, so a failed render never leaves a half-written page. It reports
// whether the page was rendered.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data any) bool {
	var buf bytes.Buffer
	if err := s.tm.Execute(&buf, name, data); err != nil {
		s.stats.renderFailures.Add(1)
		s.logger.Error("Failed to execute template", "template", name, "path", r.URL.Path, "error", err)
		http.Error(w, fmt.Sprintf("Failed to render page: %v", err), http.StatusInternalServerError)
		return false
	}
	s.setPageHeaders(w)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return true
}

func (s *Server) setPageHeaders(w http.ResponseWriter) {
	for k, v := range s.config.Server.Headers {
		w.Header().Set(k, v)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

// pagePath is the escaped URL path of a rendered turbofish.
func pagePath(text string) string {
	return "/" + url.PathEscape(text)
}
