package templating

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CTAG07/Turbofish/pkg/turbofish"
	"github.com/CTAG07/Turbofish/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestManager creates a TemplateManager over a fresh data directory
// holding a single "dummy.tmpl.html" page.
func setupTestManager(tb testing.TB) *TemplateManager {
	tb.Helper()

	dataDir := tb.TempDir()
	templatesPath := filepath.Join(dataDir, "templates")
	if err := os.Mkdir(templatesPath, 0755); err != nil {
		tb.Fatalf("failed to create templates dir: %v", err)
	}

	dummyTmplPath := filepath.Join(templatesPath, "dummy.tmpl.html")
	if err := os.WriteFile(dummyTmplPath, []byte(`{{define "dummy.tmpl.html"}}Hello{{end}}`), 0644); err != nil {
		tb.Fatalf("failed to write dummy template: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tm, err := NewTemplateManager(logger, turbofish.NewGenerator(), DefaultConfig(), dataDir)
	if err != nil {
		tb.Fatalf("NewTemplateManager failed: %v", err)
	}
	return tm
}

func writeTemplate(tb testing.TB, tm *TemplateManager, name, content string) {
	tb.Helper()
	if err := os.WriteFile(filepath.Join(tm.templateDir, name), []byte(content), 0644); err != nil {
		tb.Fatalf("failed to write template %s: %v", name, err)
	}
}

func TestNewTemplateManager(t *testing.T) {
	tm := setupTestManager(t)
	if got := tm.GetTemplateNames(); len(got) != 1 || got[0] != "dummy.tmpl.html" {
		t.Errorf("expected [dummy.tmpl.html], got %v", got)
	}
	if !tm.Has("dummy.tmpl.html") {
		t.Error("Has should report the loaded template")
	}
	if tm.Has("") || tm.Has("missing.tmpl.html") {
		t.Error("Has should be false for unknown names")
	}
}

func TestNewTemplateManager_EmptyDir(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dataDir, "templates"), 0755))

	tm, err := NewTemplateManager(slog.New(slog.NewTextHandler(io.Discard, nil)), turbofish.NewGenerator(), nil, dataDir)
	require.NoError(t, err)
	assert.Empty(t, tm.GetTemplateNames())

	err = tm.Execute(io.Discard, "turbofish.tmpl.html", nil)
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestNewTemplateManager_BadTemplate(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dataDir, "templates"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "templates", "bad.tmpl.html"), []byte("{{if}}"), 0644))

	_, err := NewTemplateManager(slog.New(slog.NewTextHandler(io.Discard, nil)), turbofish.NewGenerator(), nil, dataDir)
	assert.Error(t, err)
}

func TestManager_Refresh(t *testing.T) {
	tm := setupTestManager(t)
	initialCount := len(tm.GetTemplateNames())

	writeTemplate(t, tm, "new.tmpl.html", `New Content`)
	writeTemplate(t, tm, "frag.part.html", `{{define "frag"}}fragment{{end}}`)

	if err := tm.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if got := len(tm.GetTemplateNames()); got != initialCount+1 {
		t.Errorf("expected %d page templates after refresh, got %d", initialCount+1, got)
	}
	if !tm.Has("frag") {
		t.Error("partial definitions should be loaded")
	}
}

func TestManager_RefreshKeepsOldSetOnError(t *testing.T) {
	tm := setupTestManager(t)
	writeTemplate(t, tm, "broken.tmpl.html", `{{range}}`)

	if err := tm.Refresh(); err == nil {
		t.Fatal("expected Refresh to fail on a broken template")
	}
	var buf bytes.Buffer
	if err := tm.Execute(&buf, "dummy.tmpl.html", nil); err != nil {
		t.Fatalf("previous template set should still be usable: %v", err)
	}
}

func TestManager_Execute(t *testing.T) {
	tm := setupTestManager(t)
	var buf bytes.Buffer
	err := tm.Execute(&buf, "dummy.tmpl.html", nil)
	if err != nil {
		t.Fatalf("Execute failed for valid template: %v", err)
	}
	if buf.String() != "Hello" {
		t.Errorf("expected output 'Hello', got '%s'", buf.String())
	}

	err = tm.Execute(&buf, "nonexistent.tmpl.html", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestManager_ExecuteTemplateString(t *testing.T) {
	tm := setupTestManager(t)
	var buf bytes.Buffer
	err := tm.ExecuteTemplateString(&buf, `{{template "dummy.tmpl.html"}} {{.}}`, "<b>")
	require.NoError(t, err)
	assert.Equal(t, "Hello &lt;b&gt;", buf.String())

	// The inline template must not leak into the live set.
	assert.False(t, tm.Has("inline"))

	err = tm.ExecuteTemplateString(io.Discard, `{{`, nil)
	assert.Error(t, err)
}

func TestManager_SuggestionsLimit(t *testing.T) {
	config := DefaultConfig()
	config.MaxSuggestions = 2
	tm, err := NewTemplateManager(slog.New(slog.NewTextHandler(io.Discard, nil)), turbofish.NewGenerator(), config, t.TempDir())
	require.NoError(t, err)

	assert.Len(t, tm.suggestions(50), 2)
	assert.Empty(t, tm.suggestions(-1))
}

func TestManager_Watch(t *testing.T) {
	tm := setupTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tm.Watch(ctx) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeTemplate(t, tm, "hot.tmpl.html", `hot`)

	require.Eventually(t, func() bool {
		return tm.Has("hot.tmpl.html")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestManager_WatchMissingDir(t *testing.T) {
	tm := setupTestManager(t)
	tm.templateDir = filepath.Join(t.TempDir(), "nope")
	assert.Error(t, tm.Watch(context.Background()))
}

func TestSeedDefaults(t *testing.T) {
	dir := t.TempDir()

	n, err := SeedDefaults(web.Templates(), dir)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.FileExists(t, filepath.Join(dir, "turbofish.tmpl.html"))

	custom := []byte("custom")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "turbofish.tmpl.html"), custom, 0644))

	n, err = SeedDefaults(web.Templates(), dir)
	require.NoError(t, err)
	assert.Zero(t, n, "existing files must not be rewritten")

	got, err := os.ReadFile(filepath.Join(dir, "turbofish.tmpl.html"))
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

func TestDefaultTemplates(t *testing.T) {
	dataDir := t.TempDir()
	_, err := SeedDefaults(web.Templates(), filepath.Join(dataDir, "templates"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	tm, err := NewTemplateManager(slog.New(slog.NewTextHandler(io.Discard, nil)), turbofish.NewGenerator(), cfg, dataDir)
	require.NoError(t, err)
	require.True(t, tm.Has(cfg.PageTemplate))
	require.True(t, tm.Has(cfg.NotFoundTemplate))

	data := struct {
		Guts  string
		Path  string
		Depth int
	}{Guts: "Vec::<Option::<i32>>", Path: "/Vec::%3COption::%3Ci32%3E%3E", Depth: 2}

	var buf bytes.Buffer
	require.NoError(t, tm.Execute(&buf, cfg.PageTemplate, data))
	assert.Contains(t, buf.String(), "Vec::&lt;Option::&lt;i32&gt;&gt;")
	assert.Contains(t, buf.String(), "2 levels deep")

	buf.Reset()
	require.NoError(t, tm.Execute(&buf, cfg.PageTemplate, struct {
		Guts  string
		Path  string
		Depth int
	}{}))
	assert.Equal(t, 5, strings.Count(buf.String(), "<li>"))

	buf.Reset()
	require.NoError(t, tm.Execute(&buf, cfg.NotFoundTemplate, nil))
	assert.Contains(t, buf.String(), "404")
}

// BenchmarkExecute_Page measures rendering the default page.
func BenchmarkExecute_Page(b *testing.B) {
	tm := setupTestManager(b)
	writeTemplate(b, tm, "page.tmpl.html", `<h1>{{randomTurbofish 3}}</h1>{{range suggestions 5}}<a href="{{turbofishPath .}}">{{.}}</a>{{end}}`)
	if err := tm.Refresh(); err != nil {
		b.Fatalf("failed to refresh: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tm.Execute(io.Discard, "page.tmpl.html", nil)
	}
}
