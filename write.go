// Disk primitives.
//
// A document is written to "<name>.json.tmp" and renamed over
// "<name>.json", so readers and crashes only ever see a complete old or new
// document. All paths go through the store's os.Root and cannot escape the
// store directory.
package jsonkv

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// write serializes doc and replaces the file for name. Returns the
// fingerprint of the written bytes.
func (s *Store) write(name string, doc *Object) (uint64, error) {
	data, err := indent(doc, s.config.Spaces)
	if err != nil {
		return 0, err
	}

	file := fileName(name)
	if dir := filepath.Dir(file); dir != "." {
		if err := s.root.MkdirAll(dir, 0o755); err != nil {
			return 0, fail(CodeIO, "", "mkdir %s: %w", dir, err)
		}
	}

	tmp := file + ".tmp"
	if err := s.root.WriteFile(tmp, data, 0o644); err != nil {
		return 0, fail(CodeIO, "", "write %s: %w", tmp, err)
	}
	if err := s.root.Rename(tmp, file); err != nil {
		s.root.Remove(tmp)
		return 0, fail(CodeIO, "", "rename %s: %w", tmp, err)
	}
	return fingerprint(data, s.config.HashAlgorithm), nil
}

// read loads and parses the file for name.
func (s *Store) read(name string) (*Object, uint64, error) {
	data, err := s.root.ReadFile(fileName(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, fail(CodeMissingFile, "", "%s", fileName(name))
	}
	if err != nil {
		return nil, 0, fail(CodeIO, "", "read %s: %w", fileName(name), err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, 0, fail(CodeCorruptDocument, "", "%s: %w", fileName(name), err)
	}
	return doc, fingerprint(data, s.config.HashAlgorithm), nil
}

// decodeDocument parses data, requiring a top-level object.
func decodeDocument(data []byte) (*Object, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	doc, ok := v.AsObject()
	if !ok {
		return nil, errors.New("top-level value is " + v.Kind().String() + ", not an object")
	}
	return doc, nil
}

// onDisk reports whether the file for name exists.
func (s *Store) onDisk(name string) (bool, error) {
	_, err := s.root.Stat(fileName(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fail(CodeIO, "", "stat %s: %w", fileName(name), err)
	}
	return true, nil
}

// exists reports whether name is known, in the cache or on disk.
func (s *Store) exists(name string) (bool, error) {
	if _, ok := s.cache[name]; ok {
		return true, nil
	}
	return s.onDisk(name)
}
