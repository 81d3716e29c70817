// Compressed backup and restore.
//
// A backup is the document's compact JSON encoding, Zstd-compressed as a
// single frame. Restore accepts only a stream whose content decodes to a
// top-level object.
package jsonkv

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Shared encoder/decoder; both are safe for concurrent use and expensive to
// construct.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Backup writes a compressed snapshot of the named document to w. The
// snapshot reflects the cache, so deferred mutations are included.
func (s *Store) Backup(name string, w io.Writer) error {
	name, err := requireName("backup", name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, "backup", "")
	}
	doc, err := s.load(name)
	var data []byte
	if err == nil {
		data, err = indent(doc, -1)
	}
	s.mu.Unlock()
	if err != nil {
		return wrap("backup", err)
	}

	if _, err := w.Write(zstdEncoder.EncodeAll(data, nil)); err != nil {
		return fail(CodeIO, "backup", "%w", err)
	}
	return nil
}

// Restore reads a snapshot written by Backup into the named document.
// Without overwrite it fails with ErrAlreadyExists if the document exists.
func (s *Store) Restore(name string, r io.Reader, overwrite bool) error {
	name, err := requireName(EventRestore, name)
	if err != nil {
		return err
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return fail(CodeIO, EventRestore, "%w", err)
	}
	data, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return fail(CodeCorruptDocument, EventRestore, "zstd: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		return fail(CodeCorruptDocument, EventRestore, "%w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fail(CodeClosed, EventRestore, "")
	}
	err = func() error {
		ok, err := s.exists(name)
		if err != nil {
			return err
		}
		if ok && !overwrite {
			return fail(CodeAlreadyExists, "", "%s", name)
		}
		return s.persist(name, doc)
	}()
	s.mu.Unlock()
	if err != nil {
		return wrap(EventRestore, err)
	}

	s.Emit(Event{Name: EventRestore, Doc: name, Value: ObjectValue(doc)})
	return nil
}
