package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/CTAG07/Turbofish/pkg/templating"
	"github.com/CTAG07/Turbofish/web"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// serve runs server cycles until one ends with anything other than a restart.
// Each cycle reloads the config from disk.
func serve(ctx context.Context, configPath string) error {
	baseLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	actionChan := make(chan string, 1)

	for {
		c, err := newCycle(configPath, actionChan)
		if err != nil {
			baseLogger.Error("Failed to start server cycle", "error", err)
			return err
		}
		action, err := c.run(ctx, actionChan)
		if err != nil {
			baseLogger.Error("An error occurred during server run, shutting down.", "error", err)
			return err
		}
		if action != actionRestart {
			break
		}
		baseLogger.Info("--- Server Restarting ---")
	}

	baseLogger.Info("Turbofish has shut down.")
	return nil
}

// cycle is one configured lifetime of the public and admin servers.
type cycle struct {
	logger   *slog.Logger
	tm       *templating.TemplateManager
	public   *http.Server
	admin    *http.Server
	publicLn net.Listener
	adminLn  net.Listener
	hotLoad  bool
}

// newCycle loads the config, prepares the data directory and binds both
// listeners, so address errors surface before anything is served.
func newCycle(configPath string, actionChan chan<- string) (*cycle, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(config.Server.LogLevel)}))
	logger.Info("Starting server cycle...", "config", configPath)
	return newCycleFromConfig(config, logger, actionChan)
}

func newCycleFromConfig(config *Config, logger *slog.Logger, actionChan chan<- string) (*cycle, error) {
	if config.Server.SeedData {
		if err := seedDataDir(config.Server.DataDir, logger); err != nil {
			return nil, err
		}
	}

	gen := config.Generator.NewGenerator()
	tm, err := templating.NewTemplateManager(logger, gen, config.Templates, config.Server.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	server := NewServer(config, logger, gen, tm)
	adminMux := http.NewServeMux()
	NewAdminAPI(config, actionChan, tm, logger).RegisterRoutes(adminMux)
	NewStatsAPI(server.Stats()).RegisterRoutes(adminMux)

	c := &cycle{
		logger:  logger,
		tm:      tm,
		public:  &http.Server{Handler: server.Handler(), ReadHeaderTimeout: 10 * time.Second},
		admin:   &http.Server{Handler: withRequestLogging(logger, adminMux), ReadHeaderTimeout: 10 * time.Second},
		hotLoad: config.Templates.HotReload,
	}

	if c.publicLn, err = net.Listen("tcp", config.Server.ServerAddr); err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", config.Server.ServerAddr, err)
	}
	if config.Server.AdminAddr != "" {
		if c.adminLn, err = net.Listen("tcp", config.Server.AdminAddr); err != nil {
			_ = c.publicLn.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", config.Server.AdminAddr, err)
		}
	}
	return c, nil
}

// seedDataDir copies the embedded default templates and static files into
// dataDir without overwriting anything already there.
func seedDataDir(dataDir string, logger *slog.Logger) error {
	templates, err := templating.SeedDefaults(web.Templates(), filepath.Join(dataDir, "templates"))
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	static, err := templating.SeedDefaults(web.Static(), filepath.Join(dataDir, "static"))
	if err != nil {
		return fmt.Errorf("failed to seed static files: %w", err)
	}
	if templates+static > 0 {
		logger.Info("Seeded data directory with defaults", "dir", dataDir, "templates", templates, "static", static)
	}
	return nil
}

// run serves until an action arrives, ctx is cancelled, or a listener fails,
// then shuts everything down and returns the action that ended the cycle.
func (c *cycle) run(ctx context.Context, actions <-chan string) (string, error) {
	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatch := context.WithCancel(gctx)
	defer stopWatch()

	g.Go(func() error {
		c.logger.Info("Starting turbofish server", "address", c.publicLn.Addr().String())
		if err := c.public.Serve(c.publicLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("public server failed: %w", err)
		}
		return nil
	})
	if c.adminLn != nil {
		g.Go(func() error {
			c.logger.Info("Starting admin server", "address", c.adminLn.Addr().String())
			if err := c.admin.Serve(c.adminLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin server failed: %w", err)
			}
			return nil
		})
	}
	if c.hotLoad {
		g.Go(func() error {
			if err := c.tm.Watch(watchCtx); err != nil {
				c.logger.Error("Template hot reload disabled", "error", err)
			}
			return nil
		})
	}

	var action string
	select {
	case action = <-actions:
	case <-ctx.Done():
		c.logger.Info("Signal received, initiating shutdown.")
		action = actionShutdown
	case <-gctx.Done():
		action = actionShutdown
	}

	c.logger.Info("Stopping servers for " + action + "...")
	stopWatch()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.public.Shutdown(shutdownCtx); err != nil {
		c.logger.Error("Turbofish server shutdown failed", "error", err)
	}
	if c.adminLn != nil {
		if err := c.admin.Shutdown(shutdownCtx); err != nil {
			c.logger.Error("Admin server shutdown failed", "error", err)
		}
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	c.logger.Info("HTTP servers stopped.")
	return action, nil
}
