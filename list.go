// Document enumeration.
package jsonkv

import (
	"io/fs"
	"iter"
	"slices"
	"strings"
)

// List yields the names of all documents in the store, on disk or only in
// the cache, sorted. Subdirectories are walked so nested names such as
// "users/alice" are included. Callers can break early to stop.
func (s *Store) List() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			yield("", fail(CodeClosed, "list", ""))
			return
		}

		seen := make(map[string]bool)
		for name := range s.cache {
			seen[name] = true
		}
		err := fs.WalkDir(s.root.FS(), ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(p, Extension) {
				return nil
			}
			seen[strings.TrimSuffix(p, Extension)] = true
			return nil
		})
		s.mu.Unlock()
		if err != nil {
			yield("", fail(CodeIO, "list", "walk: %w", err))
			return
		}

		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if !yield(name, nil) {
				return
			}
		}
	}
}
