package templating

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/CTAG07/Turbofish/pkg/turbofish"
)

// ErrTemplateNotFound is returned by Execute when no template has the given name.
var ErrTemplateNotFound = errors.New("template not found")

// TemplateManager is the central controller for the templating engine.
// It owns the parsed template set and the function map, and reloads templates
// from disk on demand. All methods are concurrent-safe. The configuration is
// fixed for the manager's lifetime; a server restart builds a new manager.
type TemplateManager struct {
	logger         *slog.Logger
	config         *TemplateConfig
	gen            *turbofish.Generator
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
	mu             sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// The data directory must contain a "templates" subdirectory. The generator
// backs the turbofish template functions. An initial Refresh is performed.
func NewTemplateManager(logger *slog.Logger, gen *turbofish.Generator, config *TemplateConfig, dataDir string) (*TemplateManager, error) {
	if config == nil {
		config = DefaultConfig()
	}
	tm := &TemplateManager{
		logger:      logger,
		gen:         gen,
		config:      config,
		templateDir: filepath.Join(dataDir, "templates"),
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized", "dir", tm.templateDir)
	return tm, nil
}

// Refresh reloads all templates and partials from the template directory.
// A directory with no templates is not an error; every Execute will then
// fail with ErrTemplateNotFound.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	set := template.New("").Funcs(tm.funcMap)
	var names []string

	for _, pattern := range []string{"*.tmpl.html", "*.part.html"} {
		filePattern := filepath.Join(tm.templateDir, pattern)
		matches, err := filepath.Glob(filePattern)
		if err != nil {
			return fmt.Errorf("bad template pattern %q: %w", filePattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		if set, err = set.ParseFiles(matches...); err != nil {
			tm.logger.Error("Failed to parse template files", "pattern", filePattern, "error", err)
			return fmt.Errorf("failed to parse %s: %w", pattern, err)
		}
	}

	for _, t := range set.Templates() {
		if strings.HasSuffix(t.Name(), ".tmpl.html") {
			names = append(names, t.Name())
		}
	}
	slices.Sort(names)

	if len(names) == 0 {
		tm.logger.Warn("No template files found", "dir", tm.templateDir)
	}

	clean, err := set.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone template set: %w", err)
	}

	tm.templates = set
	tm.cleanTemplates = clean
	tm.templateNames = names
	tm.logger.Info("Loaded template files", "pages", len(names), "total", len(set.Templates())-1)
	return nil
}

// Has reports whether a template with the given name is loaded.
func (tm *TemplateManager) Has(name string) bool {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return name != "" && tm.templates.Lookup(name) != nil
}

// Execute renders the named template to w. Callers that need all-or-nothing
// output should render into a buffer first.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	if name == "" || tm.templates.Lookup(name) == nil {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tm.templates.ExecuteTemplate(w, name, data)
}

// ExecuteTemplateString parses and executes a raw template string against the
// loaded partials and function map without touching the live set.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, data any) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}
	t, err := tempSet.New("inline").Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}

// GetTemplateNames returns the sorted names of the loaded full-page templates.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return slices.Clone(tm.templateNames)
}

// GetTemplateDir returns the directory templates are loaded from.
func (tm *TemplateManager) GetTemplateDir() string {
	return tm.templateDir
}
