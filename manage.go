// Document lifecycle: create, destroy, clone, existence and stats.
package jsonkv

import (
	"errors"
	"io/fs"
)

func requireName(op, name string) (string, error) {
	name = Normalize(name)
	if name == "" {
		return "", fail(CodeMissingInput, op, "document name is required")
	}
	return name, nil
}

// Create writes a new document holding initial (nil for {}) and, when
// makeDefault is set, makes it the store's default. It fails with
// ErrAlreadyExists if the document is cached or on disk.
func (s *Store) Create(name string, initial any, makeDefault bool) error {
	name, err := requireName(EventCreate, name)
	if err != nil {
		return err
	}
	doc := NewObject()
	if initial != nil {
		v, err := input(EventCreate, initial)
		if err != nil {
			return err
		}
		obj, ok := v.AsObject()
		if !ok {
			return fail(CodeInvalidInput, EventCreate, "initial document must be an object, got %s", v.Kind())
		}
		doc = obj
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, EventCreate, "")
	}
	err = s.create(name, doc)
	if err == nil && makeDefault {
		s.name = name
	}
	s.mu.Unlock()
	if err != nil {
		return wrap(EventCreate, err)
	}

	s.Emit(Event{Name: EventCreate, Doc: name, Value: ObjectValue(doc)})
	return nil
}

// create writes doc as a new document regardless of the write policy, so
// the file exists once Create returns. The lock must be held.
func (s *Store) create(name string, doc *Object) error {
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if ok {
		return fail(CodeAlreadyExists, "", "%s", name)
	}
	sum, err := s.write(name, doc)
	if err != nil {
		return err
	}
	if s.config.Cache {
		s.cache[name] = &entry{doc: doc, sum: sum}
	}
	return nil
}

// Destroy deletes a document's file and drops its cache entry. It fails
// with ErrMissingFile if the document exists in neither.
func (s *Store) Destroy(name string) error {
	name, err := requireName(EventDestroy, name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, EventDestroy, "")
	}
	_, cached := s.cache[name]
	delete(s.cache, name)
	err = s.root.Remove(fileName(name))
	if errors.Is(err, fs.ErrNotExist) {
		err = nil
		if !cached {
			err = fail(CodeMissingFile, "", "%s", fileName(name))
		}
	} else if err != nil {
		err = fail(CodeIO, "", "remove %s: %w", fileName(name), err)
	}
	s.mu.Unlock()
	if err != nil {
		return wrap(EventDestroy, err)
	}

	s.Emit(Event{Name: EventDestroy, Doc: name})
	return nil
}

// Clone copies document src to a new document dst. The copy follows the
// write policy, and fails with ErrAlreadyExists if dst exists.
func (s *Store) Clone(src, dst string) error {
	src, err := requireName(EventClone, src)
	if err != nil {
		return err
	}
	dst, err = requireName(EventClone, dst)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, EventClone, "")
	}
	var doc *Object
	err = func() error {
		ok, err := s.exists(dst)
		if err != nil {
			return err
		}
		if ok {
			return fail(CodeAlreadyExists, "", "%s", dst)
		}
		from, err := s.load(src)
		if err != nil {
			return err
		}
		doc = from.Clone()
		return s.persist(dst, doc)
	}()
	s.mu.Unlock()
	if err != nil {
		return wrap(EventClone, err)
	}

	s.Emit(Event{Name: EventClone, Doc: dst, Key: src, Value: ObjectValue(doc)})
	return nil
}

// Exists reports whether the named document is cached or on disk.
func (s *Store) Exists(name string) (bool, error) {
	name, err := requireName("exists", name)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, fail(CodeClosed, "exists", "")
	}
	ok, err := s.exists(name)
	return ok, wrap("exists", err)
}

// Info describes a document.
type Info struct {
	Name     string // Normalized name
	File     string // File name relative to the store directory
	Size     int64  // Bytes on disk, 0 if not yet written
	Keys     int    // Entry count
	Checksum string // Fingerprint of the content last read or written
	Cached   bool   // Held in the cache
	Dirty    bool   // Has deferred mutations not yet on disk
}

// Stat loads the named document and reports on it.
func (s *Store) Stat(name string) (Info, error) {
	name, err := requireName("stat", name)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Info{}, fail(CodeClosed, "stat", "")
	}

	doc, err := s.load(name)
	if err != nil {
		return Info{}, wrap("stat", err)
	}
	info := Info{Name: name, File: fileName(name), Keys: doc.Len()}
	if fi, err := s.root.Stat(info.File); err == nil {
		info.Size = fi.Size()
	}
	if e, ok := s.cache[name]; ok {
		info.Cached = true
		info.Dirty = e.dirty
		info.Checksum = checksum(e.sum)
	} else {
		data, err := indent(doc, s.config.Spaces)
		if err != nil {
			return Info{}, wrap("stat", err)
		}
		info.Checksum = checksum(fingerprint(data, s.config.HashAlgorithm))
	}
	return info, nil
}
