package devserver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// addRecursive watches dir and every directory below it.
func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

// watch calls onChange once per burst of filesystem events under dir. Bursts
// end after debounce passes without a new event. onChange runs on the
// watcher goroutine so rebuilds never overlap.
func (s *Server) watch(ctx context.Context, dir string, debounce time.Duration, onChange func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addRecursive(w, dir); err != nil {
		return err
	}
	s.log.Info().Str("dir", dir).Msg("Watching for changes")

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := addRecursive(w, ev.Name); err != nil {
						s.log.Warn().Err(err).Str("dir", ev.Name).Msg("Failed to watch new directory")
					}
				}
			}
			s.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Source changed")

			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerCh = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("Watcher error")

		case <-timerCh:
			timerCh = nil
			onChange(ctx)
		}
	}
}
