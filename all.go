// Whole-document operations.
package jsonkv

import "iter"

// All returns a copy of the whole document (toJSON / getAll).
func (d *Doc) All() (*Object, error) {
	var out *Object
	name, err := d.view(EventAll, func(doc *Object) error {
		out = doc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventAll, Doc: name, Value: ObjectValue(out)})
	return out, nil
}

// Entries yields the document's entries in order from a snapshot taken
// when iteration starts. A load failure is yielded once as the error.
func (d *Doc) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		doc, err := d.All()
		if err != nil {
			yield(Entry{}, err)
			return
		}
		i := 0
		for k, v := range doc.All() {
			if !yield(Entry{Key: k, Value: v, Index: i}, nil) {
				return
			}
			i++
		}
	}
}

// ToArray returns the document as an array of [key, value] pairs.
func (d *Doc) ToArray() (Value, error) {
	doc, err := d.All()
	if err != nil {
		return Value{}, err
	}
	pairs := make([]Value, 0, doc.Len())
	for k, v := range doc.All() {
		pairs = append(pairs, Array(String(k), v))
	}
	return Array(pairs...), nil
}

// Keys returns the document's keys in order.
func (d *Doc) Keys() ([]string, error) {
	var keys []string
	name, err := d.view(EventKeys, func(doc *Object) error {
		keys = doc.Keys()
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventKeys, Doc: name, Keys: keys})
	return keys, nil
}

// Values returns copies of the document's values in order.
func (d *Doc) Values() ([]Value, error) {
	var vals []Value
	name, err := d.view(EventValues, func(doc *Object) error {
		vals = make([]Value, 0, doc.Len())
		for _, v := range doc.All() {
			vals = append(vals, v.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventValues, Doc: name, Value: Array(vals...)})
	return vals, nil
}

// Len returns the number of entries.
func (d *Doc) Len() (int, error) {
	var n int
	name, err := d.view(EventLen, func(doc *Object) error {
		n = doc.Len()
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.s.Emit(Event{Name: EventLen, Doc: name, Value: Number(float64(n))})
	return n, nil
}

// DeleteAll replaces the document with {}. Calling it repeatedly is safe.
func (d *Doc) DeleteAll() error {
	var old *Object
	name, err := d.update(EventReset, func(doc *Object) error {
		old = doc.Clone()
		for _, k := range doc.Keys() {
			doc.Delete(k)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.s.Emit(Event{Name: EventReset, Doc: name, Old: ObjectValue(old)})
	return nil
}

// Reset is an alias for DeleteAll.
func (d *Doc) Reset() error { return d.DeleteAll() }

// Destroy deletes the document's file and cache entry.
func (d *Doc) Destroy() error {
	d.s.mu.Lock()
	name := d.resolve()
	d.s.mu.Unlock()
	return d.s.Destroy(name)
}
