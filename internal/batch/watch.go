package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// Handler receives the result for each newly written dump in watch mode.
type Handler func(FileResult)

// Watch parses OCR dumps as they appear in dir, until ctx is cancelled.
// Existing files are not replayed; run ProcessBatch first for those.
func Watch(ctx context.Context, dir string, config *Config, fn Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	engine := extract.New(config.Extractor)
	pctx := config.context()
	slog.Info("watching for OCR dumps", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !shouldIncludeFile(event.Name, config.IncludePatterns, config.ExcludePatterns) {
				continue
			}
			slog.Debug("dump detected", "file", event.Name, "op", event.Op.String())
			fn(processSingleFile(engine, event.Name, pctx))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}
