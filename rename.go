// Document renaming.
//
// Rename moves a document's file and its cache entry to a new name under a
// single lock hold. A document that so far lives only in the cache (deferred
// writes, never flushed) is moved in the cache alone and stays dirty.
package jsonkv

// Rename changes a document's name. Returns ErrMissingFile if old does not
// exist, or ErrAlreadyExists if new already exists. When old is the default
// document, the default follows it.
func (s *Store) Rename(old, new string) error {
	old, err := requireName(EventRename, old)
	if err != nil {
		return err
	}
	new, err = requireName(EventRename, new)
	if err != nil {
		return err
	}
	if old == new {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, EventRename, "")
	}
	err = s.rename(old, new)
	s.mu.Unlock()
	if err != nil {
		return wrap(EventRename, err)
	}

	s.Emit(Event{Name: EventRename, Doc: new, Key: old})
	return nil
}

// rename does the work of Rename. The lock must be held.
func (s *Store) rename(old, new string) error {
	e, cached := s.cache[old]
	onDisk, err := s.onDisk(old)
	if err != nil {
		return err
	}
	if !cached && !onDisk {
		return fail(CodeMissingFile, "", "%s", fileName(old))
	}

	taken, err := s.exists(new)
	if err != nil {
		return err
	}
	if taken {
		return fail(CodeAlreadyExists, "", "%s", new)
	}

	if onDisk {
		if err := s.root.Rename(fileName(old), fileName(new)); err != nil {
			return fail(CodeIO, "", "rename %s: %w", fileName(old), err)
		}
	}
	if cached {
		delete(s.cache, old)
		s.cache[new] = e
	}
	if s.name == old {
		s.name = new
	}
	return nil
}
