package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a balance file when it changes on disk
// The parent directory is watched so editors that replace the file by rename
// are still seen
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func(Balance)
	onError  func(error)
}

// NewWatcher starts watching path; onChange receives every successfully
// parsed revision, onError every read or parse failure (may be nil)
func NewWatcher(path string, onChange func(Balance), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	if onError == nil {
		onError = func(err error) { log.Printf("[CONFIG] %v", err) }
	}
	return &Watcher{path: abs, watcher: fw, onChange: onChange, onError: onError}, nil
}

// Run delivers reloads until ctx is done or the watcher is closed
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path {
				continue
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
				continue
			}
			b, err := LoadFromPath(w.path)
			if err != nil {
				w.onError(err)
				continue
			}
			log.Printf("[CONFIG] balance reloaded from %s", w.path)
			w.onChange(b)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.onError(fmt.Errorf("watch %s: %w", w.path, err))
		}
	}
}

// Close stops the underlying watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
