package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 200 * time.Millisecond

// WatchLexicon reloads the engine whenever one of the given word files is
// written or recreated. The watch is registered before it returns; it runs
// until ctx ends. Directories are watched so that atomic replaces are seen.
func (s *Server) WatchLexicon(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("lexicon watcher: %w", err)
	}

	targets := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = watcher.Close()
			return fmt.Errorf("lexicon watcher: %w", err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			_ = watcher.Close()
			return fmt.Errorf("watch %s: %w", d, err)
		}
	}
	s.log.Info("watching lexicon files", "files", len(targets))

	go s.watchLoop(ctx, watcher, targets)
	return nil
}

func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets map[string]bool) {
	defer watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !targets[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.log.Debug("lexicon file changed", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(reloadDelay)
		case <-pending:
			pending = nil
			if err := s.Reload(ctx); err != nil {
				s.log.Error("lexicon reload failed, keeping previous engine", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("lexicon watcher error", "error", err)
		}
	}
}
