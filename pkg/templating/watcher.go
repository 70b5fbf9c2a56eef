package templating

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce batches bursts of editor writes into a single Refresh.
const reloadDebounce = 200 * time.Millisecond

// Watch reloads templates whenever an .html file in the template directory is
// created, written, removed or renamed. It blocks until ctx is cancelled and
// returns nil in that case. A failed reload is logged and the previous
// template set stays live.
func (tm *TemplateManager) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	defer func(watcher *fsnotify.Watcher) {
		_ = watcher.Close()
	}(watcher)

	if err = watcher.Add(tm.templateDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", tm.templateDir, err)
	}
	tm.logger.Info("Watching templates for changes", "dir", tm.templateDir)

	timer := time.NewTimer(reloadDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".html") {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			tm.logger.Debug("Template change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(reloadDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tm.logger.Error("Template watcher error", "error", err)

		case <-timer.C:
			if err := tm.Refresh(); err != nil {
				tm.logger.Error("Hot reload failed, keeping previous templates", "error", err)
			}
		}
	}
}
