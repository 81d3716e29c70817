// External change detection.
//
// With Config.Watch the store watches its directory and drops the cache
// entry of any top-level document whose file changes underneath it. Our own
// writes also raise events, so the file is re-read and its fingerprint
// compared against the one recorded at write time; only a real difference
// evicts. A dirty entry is never evicted: pending deferred mutations win and
// overwrite the external edit on the next flush.
package jsonkv

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// watch starts the watcher goroutine. It exits when the watcher is closed,
// closing s.done.
func (s *Store) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fail(CodeIO, "", "watch: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		_ = w.Close()
		return fail(CodeIO, "", "watch %s: %w", s.dir, err)
	}
	s.watcher = w
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				s.onChange(event)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("jsonkv: watcher error", "dir", s.dir, "error", err)
			}
		}
	}()
	return nil
}

// onChange reconciles the cache with one filesystem event.
func (s *Store) onChange(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if !strings.HasSuffix(base, Extension) {
		return
	}
	name := strings.TrimSuffix(base, Extension)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	e, ok := s.cache[name]
	if !ok {
		return
	}
	if e.dirty {
		s.logger.Warn("jsonkv: external change to document with pending writes", "doc", name, "op", event.Op.String())
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		delete(s.cache, name)
		s.logger.Debug("jsonkv: evicted", "doc", name, "op", event.Op.String())
		return
	}

	data, err := s.root.ReadFile(base)
	if errors.Is(err, fs.ErrNotExist) {
		delete(s.cache, name)
		return
	}
	if err != nil {
		s.logger.Warn("jsonkv: re-read failed", "doc", name, "error", err)
		delete(s.cache, name)
		return
	}
	if fingerprint(data, s.config.HashAlgorithm) != e.sum {
		delete(s.cache, name)
		s.logger.Debug("jsonkv: evicted", "doc", name, "op", event.Op.String())
	}
}
