// Store type and lifecycle.
//
// A Store owns a directory of documents, an optional cache of parsed
// documents and the listener registry. Operations are serialized by a
// single mutex; listeners run after it is released so they may call back
// into the store.
package jsonkv

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// WritePolicy selects when mutations reach disk.
type WritePolicy int

const (
	// WriteThrough rewrites the document file on every mutation.
	WriteThrough WritePolicy = iota
	// WriteDeferred keeps mutations in the cache until Flush or Close.
	// Requires Config.Cache.
	WriteDeferred
)

// Config holds store configuration. Zero values select defaults.
type Config struct {
	FileName      string       // Default document name (default "database")
	Cache         bool         // Keep loaded documents in memory
	Write         WritePolicy  // WriteThrough (default) or WriteDeferred
	Spaces        int          // Indent width on disk (default 2, negative for compact)
	HashAlgorithm int          // Fingerprint algorithm (default AlgXXHash3)
	Watch         bool         // Evict cache entries on external edits; requires Cache
	Logger        *slog.Logger // Default slog.Default()
}

// DefaultFileName is the default document used when Config.FileName is empty.
const DefaultFileName = "database"

// Store is an open directory of JSON documents. The embedded Doc addresses
// the default document, so store.Set(...) and store.Document(name).Set(...) are
// the same operation on different documents.
type Store struct {
	Doc

	root   *os.Root
	dir    string
	config Config
	logger *slog.Logger
	events *emitter

	mu     sync.Mutex
	name   string            // normalized default document
	cache  map[string]*entry // normalized name -> document
	closed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// entry is a cached document. sum is the fingerprint of the bytes last read
// from or written to disk; dirty marks deferred mutations not yet flushed.
type entry struct {
	doc   *Object
	sum   uint64
	dirty bool
}

// Open opens the store rooted at dir, creating the directory and the
// default document ({}) if they do not exist.
func Open(dir string, config Config) (*Store, error) {
	if config.Write == WriteDeferred && !config.Cache {
		return nil, fail(CodeConfiguration, "open", "deferred writes require the cache")
	}
	if config.Watch && !config.Cache {
		return nil, fail(CodeConfiguration, "open", "watch requires the cache")
	}
	if config.Write != WriteThrough && config.Write != WriteDeferred {
		return nil, fail(CodeConfiguration, "open", "unknown write policy %d", config.Write)
	}

	// Default config values
	if config.FileName == "" {
		config.FileName = DefaultFileName
	}
	if config.Spaces == 0 {
		config.Spaces = 2
	}
	if config.HashAlgorithm == 0 {
		config.HashAlgorithm = AlgXXHash3
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if dir == "" {
		dir = "."
	}

	name := Normalize(config.FileName)
	if name == "" {
		return nil, fail(CodeMissingInput, "open", "default document name is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrap("open", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, wrap("open", err)
	}

	s := &Store{
		root:   root,
		dir:    dir,
		config: config,
		logger: config.Logger,
		events: newEmitter(config.Logger),
		name:   name,
		cache:  make(map[string]*entry),
	}
	s.Doc = Doc{s: s}

	ok, err := s.onDisk(name)
	if err != nil {
		root.Close()
		return nil, wrap("open", err)
	}
	if !ok {
		doc := NewObject()
		sum, err := s.write(name, doc)
		if err != nil {
			root.Close()
			return nil, wrap("open", err)
		}
		if config.Cache {
			s.cache[name] = &entry{doc: doc, sum: sum}
		}
	}

	if config.Watch {
		if err := s.watch(); err != nil {
			root.Close()
			return nil, wrap("open", err)
		}
	}

	s.logger.Debug("jsonkv: store opened", "dir", dir, "doc", name, "cache", config.Cache, "deferred", config.Write == WriteDeferred)
	return s, nil
}

// Close flushes deferred writes, stops the watcher and releases the
// directory. Further operations fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	errs := []error{s.flush()}
	s.mu.Unlock()

	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
		<-s.done
	}
	errs = append(errs, s.root.Close())
	return wrap("close", errors.Join(errs...))
}

// Flush writes every cached document with deferred mutations. It is a
// no-op under WriteThrough.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fail(CodeClosed, "flush", "")
	}
	return wrap("flush", s.flush())
}

func (s *Store) flush() error {
	var errs []error
	for name, e := range s.cache {
		if !e.dirty {
			continue
		}
		sum, err := s.write(name, e.doc)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e.sum = sum
		e.dirty = false
	}
	return errors.Join(errs...)
}

// Dir returns the directory the store was opened on.
func (s *Store) Dir() string { return s.dir }

// DefaultName returns the normalized name of the default document.
func (s *Store) DefaultName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Document returns a handle on the named document. An empty name follows
// the store's default, including later changes made by Create.
func (s *Store) Document(name string) *Doc {
	return &Doc{s: s, name: Normalize(name)}
}

// load returns the document for name. With the cache enabled a cached
// document is returned as is, without touching disk; callers must not
// modify it. The lock must be held.
func (s *Store) load(name string) (*Object, error) {
	if s.config.Cache {
		if e, ok := s.cache[name]; ok {
			return e.doc, nil
		}
	}
	doc, sum, err := s.read(name)
	if err != nil {
		return nil, err
	}
	if s.config.Cache {
		s.cache[name] = &entry{doc: doc, sum: sum}
	}
	return doc, nil
}

// persist stores doc as the new full content of name. Under WriteThrough
// the file is rewritten; with the cache enabled the cached document is
// replaced either way. The lock must be held.
func (s *Store) persist(name string, doc *Object) error {
	if s.config.Write == WriteDeferred {
		e, ok := s.cache[name]
		if !ok {
			e = &entry{}
			s.cache[name] = e
		}
		e.doc = doc
		e.dirty = true
		return nil
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
