// Predicate search over a document.
//
// All predicates share one shape, func(Entry) bool, and see entries in
// insertion order with a zero-based Index. Predicates must not modify the
// Value they receive; results handed back to callers are copies.
//
// Find, Filter, Some and Every evaluate predicates against a snapshot with
// the store lock released, so a predicate may read the store. The
// *AndDelete variants remove what they match and persist once; they hold
// the lock while evaluating, so their predicates must not call into the
// Store. When nothing matches nothing is written.
//
// MatchKeys applies a regular expression to keys instead. Patterns are
// case-sensitive unless they carry their own (?i) flag.
package jsonkv

import "regexp"

// Entry is one key/value pair of a document together with its position.
type Entry struct {
	Key   string
	Value Value
	Index int
}

// Predicate selects entries. Predicates given to FindAndDelete or
// FilterAndDelete must not call into the Store.
type Predicate func(Entry) bool

func requirePredicate(op string, fn Predicate) error {
	if fn == nil {
		return fail(CodeMissingInput, op, "predicate is required")
	}
	return nil
}

// Find returns the first entry satisfying fn.
func (d *Doc) Find(fn Predicate) (Entry, bool, error) {
	if err := requirePredicate(EventFind, fn); err != nil {
		return Entry{}, false, err
	}

	name, doc, err := d.snapshot(EventFind)
	if err != nil {
		return Entry{}, false, err
	}
	hit, found := first(doc, fn)
	hit.Value = hit.Value.Clone()
	d.s.Emit(Event{Name: EventFind, Doc: name, Key: hit.Key, Value: hit.Value})
	return hit, found, nil
}

// Filter returns every entry satisfying fn, in document order.
func (d *Doc) Filter(fn Predicate) (*Object, error) {
	if err := requirePredicate(EventFilter, fn); err != nil {
		return nil, err
	}

	name, doc, err := d.snapshot(EventFilter)
	if err != nil {
		return nil, err
	}
	out := NewObject()
	for _, e := range matching(doc, fn) {
		out.Set(e.Key, e.Value.Clone())
	}
	d.s.Emit(Event{Name: EventFilter, Doc: name, Keys: out.Keys(), Value: ObjectValue(out)})
	return out, nil
}

// Some reports whether any entry satisfies fn. An empty document yields
// false.
func (d *Doc) Some(fn Predicate) (bool, error) {
	if err := requirePredicate(EventSome, fn); err != nil {
		return false, err
	}

	name, doc, err := d.snapshot(EventSome)
	if err != nil {
		return false, err
	}
	_, ok := first(doc, fn)
	d.s.Emit(Event{Name: EventSome, Doc: name, Value: Bool(ok)})
	return ok, nil
}

// Every reports whether all entries satisfy fn. An empty document yields
// true.
func (d *Doc) Every(fn Predicate) (bool, error) {
	if err := requirePredicate(EventEvery, fn); err != nil {
		return false, err
	}

	name, doc, err := d.snapshot(EventEvery)
	if err != nil {
		return false, err
	}
	_, miss := first(doc, func(e Entry) bool { return !fn(e) })
	ok := !miss
	d.s.Emit(Event{Name: EventEvery, Doc: name, Value: Bool(ok)})
	return ok, nil
}

// FindAndDelete removes and returns the first entry satisfying fn.
func (d *Doc) FindAndDelete(fn Predicate) (Entry, bool, error) {
	if err := requirePredicate(EventFindAndDelete, fn); err != nil {
		return Entry{}, false, err
	}

	var hit Entry
	var found bool
	name, err := d.update(EventFindAndDelete, func(doc *Object) error {
		hit, found = first(doc, fn)
		if !found {
			return errNoChange
		}
		doc.Delete(hit.Key)
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	d.s.Emit(Event{Name: EventFindAndDelete, Doc: name, Key: hit.Key, Old: hit.Value})
	return hit, found, nil
}

// FilterAndDelete removes every entry satisfying fn and returns them.
func (d *Doc) FilterAndDelete(fn Predicate) (*Object, error) {
	if err := requirePredicate(EventFilterAndDelete, fn); err != nil {
		return nil, err
	}

	removed := NewObject()
	name, err := d.update(EventFilterAndDelete, func(doc *Object) error {
		hits := matching(doc, fn)
		if len(hits) == 0 {
			return errNoChange
		}
		for _, e := range hits {
			doc.Delete(e.Key)
			removed.Set(e.Key, e.Value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventFilterAndDelete, Doc: name, Keys: removed.Keys(), Old: ObjectValue(removed)})
	return removed, nil
}

// MatchKeys returns the keys matching the regular expression pattern, in
// document order.
func (d *Doc) MatchKeys(pattern string) ([]string, error) {
	if pattern == "" {
		return nil, fail(CodeMissingInput, EventMatchKeys, "pattern is required")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fail(CodeInvalidInput, EventMatchKeys, "%w", err)
	}

	var keys []string
	name, err := d.view(EventMatchKeys, func(doc *Object) error {
		for k := range doc.All() {
			if re.MatchString(k) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventMatchKeys, Doc: name, Keys: keys})
	return keys, nil
}

func first(doc *Object, fn Predicate) (Entry, bool) {
	i := 0
	for k, v := range doc.All() {
		e := Entry{Key: k, Value: v, Index: i}
		if fn(e) {
			return e, true
		}
		i++
	}
	return Entry{}, false
}

// matching collects hits before any deletion so the predicate never sees a
// document that is being modified.
func matching(doc *Object, fn Predicate) []Entry {
	var hits []Entry
	i := 0
	for k, v := range doc.All() {
		e := Entry{Key: k, Value: v, Index: i}
		if fn(e) {
			hits = append(hits, e)
		}
		i++
	}
	return hits
}
