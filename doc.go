// Document handles and the shared read/update protocol.
//
// Every façade operation goes through view or update. Both take the store
// lock, resolve the document name and load it. update hands fn a private
// copy (the cached document is never mutated in place) and persists the
// result exactly once, so a failing fn leaves disk and cache untouched.
// Events are emitted by the callers after the lock is released.
package jsonkv

import "errors"

// Doc addresses one document of a Store. The zero name refers to the
// store's default document.
type Doc struct {
	s    *Store
	name string
}

// errNoChange lets an update fn report that the document is unchanged so
// nothing is persisted.
var errNoChange = errors.New("no change")

// Name returns the normalized name this handle currently resolves to.
func (d *Doc) Name() string {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return d.resolve()
}

// resolve returns the document name. The lock must be held.
func (d *Doc) resolve() string {
	if d.name == "" {
		return d.s.name
	}
	return d.name
}

// view runs fn against the current document without persisting. fn must
// not modify doc.
func (d *Doc) view(op string, fn func(doc *Object) error) (string, error) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fail(CodeClosed, op, "")
	}

	name := d.resolve()
	doc, err := s.load(name)
	if err != nil {
		return name, wrap(op, err)
	}
	return name, wrap(op, fn(doc))
}

// snapshot returns the current document and releases the lock before
// returning, so callers can run user code against it. Loaded documents are
// replaced, never modified in place, so the result stays consistent; it
// must not be modified.
func (d *Doc) snapshot(op string) (string, *Object, error) {
	var out *Object
	name, err := d.view(op, func(doc *Object) error {
		out = doc
		return nil
	})
	if err != nil {
		return name, nil, err
	}
	return name, out, nil
}

// update runs fn against a private copy of the document and persists it.
func (d *Doc) update(op string, fn func(doc *Object) error) (string, error) {
	s := d.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", fail(CodeClosed, op, "")
	}

	name := d.resolve()
	doc, err := s.load(name)
	if err != nil {
		return name, wrap(op, err)
	}
	if s.config.Cache {
		doc = doc.Clone()
	}

	if err := fn(doc); err != nil {
		if errors.Is(err, errNoChange) {
			return name, nil
		}
		return name, wrap(op, err)
	}
	return name, wrap(op, s.persist(name, doc))
}

// input converts a caller-supplied value for storage. The result is a deep
// copy so later changes by the caller do not leak into the document.
func input(op string, x any) (Value, error) {
	v, err := ValueOf(x)
	if err != nil {
		return Value{}, wrap(op, err)
	}
	return v.Clone(), nil
}

// fallbackOf converts a fallback argument. nil stays undefined.
func fallbackOf(op string, x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	}
	return input(op, x)
}

func requireKey(op, key string) error {
	if key == "" {
		return fail(CodeMissingInput, op, "key is required")
	}
	return nil
}
