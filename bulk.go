// Bulk key operations. Each call loads once and persists at most once.
package jsonkv

// GetMany returns an object holding exactly the requested keys that exist,
// in the order they were requested. When none exist it returns fallback
// (undefined for nil); missing keys are never padded.
func (d *Doc) GetMany(keys []string, fallback any) (Value, error) {
	if len(keys) == 0 {
		return Value{}, fail(CodeMissingInput, EventGetMany, "keys are required")
	}
	fb, err := fallbackOf(EventGetMany, fallback)
	if err != nil {
		return Value{}, err
	}

	found := NewObject()
	name, err := d.view(EventGetMany, func(doc *Object) error {
		for _, k := range keys {
			if v, ok := doc.Get(k); ok {
				found.Set(k, v.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return Value{}, err
	}

	out := fb
	if found.Len() > 0 {
		out = ObjectValue(found)
	}
	d.s.Emit(Event{Name: EventGetMany, Doc: name, Keys: keys, Value: out})
	return out, nil
}

// SetMany stores every pair of entries, which must convert to an object
// (an *Object, an object Value, a string-keyed map or a struct).
func (d *Doc) SetMany(entries any) error {
	if entries == nil {
		return fail(CodeMissingInput, EventSetMany, "entries are required")
	}
	v, err := input(EventSetMany, entries)
	if err != nil {
		return err
	}
	obj, ok := v.AsObject()
	if !ok {
		return fail(CodeInvalidInput, EventSetMany, "entries must be an object, got %s", v.Kind())
	}
	if obj.Has("") {
		return fail(CodeMissingInput, EventSetMany, "empty key")
	}

	name, err := d.update(EventSetMany, func(doc *Object) error {
		for k, item := range obj.All() {
			doc.Set(k, item)
		}
		return nil
	})
	if err != nil {
		return err
	}
	d.s.Emit(Event{Name: EventSetMany, Doc: name, Keys: obj.Keys(), Value: v})
	return nil
}

// DeleteMany removes keys and returns the pairs that were present. Nothing
// is written if none were.
func (d *Doc) DeleteMany(keys []string) (*Object, error) {
	if len(keys) == 0 {
		return nil, fail(CodeMissingInput, EventDeleteMany, "keys are required")
	}

	removed := NewObject()
	name, err := d.update(EventDeleteMany, func(doc *Object) error {
		for _, k := range keys {
			if v, ok := doc.Delete(k); ok {
				removed.Set(k, v)
			}
		}
		if removed.Len() == 0 {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: EventDeleteMany, Doc: name, Keys: removed.Keys(), Old: ObjectValue(removed)})
	return removed, nil
}
