// Package watch runs the inbox mode: text files dropped into a watched
// directory are read line by line, each line being a presentation URL or ID
// to check and extract. Handled files are moved to a processed directory.
package watch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ProcessFunc handles one raw identifier line. Errors are logged, not fatal;
// one bad line must not stop the rest of the file.
type ProcessFunc func(ctx context.Context, raw string) error

type Watcher struct {
	InboxDir     string
	ProcessedDir string
	Process      ProcessFunc
	Log          zerolog.Logger

	// Debounce waits for file transfers to settle before reading. Defaults
	// to 2 seconds.
	Debounce time.Duration

	activeTasks int
	mu          sync.Mutex
}

func (w *Watcher) incrementTask() {
	w.mu.Lock()
	w.activeTasks++
	w.mu.Unlock()
}

func (w *Watcher) decrementTask() {
	w.mu.Lock()
	w.activeTasks--
	w.mu.Unlock()
}

func (w *Watcher) IsProcessing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeTasks > 0
}

func (w *Watcher) debounce() time.Duration {
	if w.Debounce > 0 {
		return w.Debounce
	}
	return 2 * time.Second
}

func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if w.InboxDir == "" {
		return fmt.Errorf("inbox directory not configured")
	}

	if err := os.MkdirAll(w.InboxDir, 0755); err != nil {
		return fmt.Errorf("failed to create inbox directory: %v", err)
	}
	if w.ProcessedDir != "" {
		if err := os.MkdirAll(w.ProcessedDir, 0755); err != nil {
			w.Log.Warn().Err(err).Msg("failed to create processed directory")
		}
	}

	if err := watcher.Add(w.InboxDir); err != nil {
		return err
	}

	w.Log.Info().Str("dir", w.InboxDir).Msg("inbox watcher started")

	// Initial scan
	w.scanDirectory(ctx, w.InboxDir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if strings.HasSuffix(strings.ToLower(event.Name), ".txt") {
					w.Log.Info().Str("file", event.Name).Msg("detected change")

					// Delay for file transfer to complete
					select {
					case <-time.After(w.debounce()):
					case <-ctx.Done():
						return nil
					}
					w.processFile(ctx, event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Log.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) scanDirectory(ctx context.Context, dir string) {
	files, err := os.ReadDir(dir)
	if err != nil {
		w.Log.Warn().Err(err).Msg("failed to scan inbox")
		return
	}

	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(strings.ToLower(f.Name()), ".txt") {
			w.processFile(ctx, filepath.Join(dir, f.Name()))
		}
	}
}

func (w *Watcher) processFile(ctx context.Context, path string) {
	w.incrementTask()
	defer w.decrementTask()

	filename := filepath.Base(path)
	w.Log.Info().Str("file", filename).Msg("processing identifier list")

	f, err := os.Open(path)
	if err != nil {
		w.Log.Error().Err(err).Str("file", filename).Msg("failed to open file")
		return
	}

	var handled, failed int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := w.Process(ctx, line); err != nil {
			failed++
			w.Log.Warn().Err(err).Str("input", line).Msg("line failed")
			continue
		}
		handled++
	}
	if err := scanner.Err(); err != nil {
		w.Log.Error().Err(err).Str("file", filename).Msg("read error")
	}
	f.Close()

	w.Log.Info().Str("file", filename).Int("handled", handled).Int("failed", failed).Msg("identifier list done")

	w.finalizeFile(path, filename)
}

// finalizeFile moves a handled file out of the inbox so it is not reprocessed.
func (w *Watcher) finalizeFile(path, filename string) {
	if w.ProcessedDir == "" {
		return
	}

	newPath := filepath.Join(w.ProcessedDir, filename)
	if path == newPath {
		return
	}

	if err := os.Rename(path, newPath); err != nil {
		w.Log.Warn().Err(err).Str("file", filename).Msg("failed to move to processed")
	} else {
		w.Log.Info().Str("file", filename).Str("to", newPath).Msg("moved to processed")
	}
}
