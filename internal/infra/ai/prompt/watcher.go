package prompt

import (
	"context"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the prompt file whenever it changes and blocks until ctx is
// done. The parent directory is watched so editors that replace the file
// (rename + create) are picked up too.
func (s *Store) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.LoadFile(path); err != nil {
				log.Printf("prompt: reload %s: %v", path, err)
				continue
			}
			log.Printf("prompt: reloaded %s", path)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("prompt: watcher: %v", err)
		}
	}
}
