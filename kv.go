// Point operations on single keys.
package jsonkv

// Get returns the value stored at key, or fallback when the key is absent.
// A nil fallback yields the undefined Value.
func (d *Doc) Get(key string, fallback any) (Value, error) {
	if err := requireKey(EventGet, key); err != nil {
		return Value{}, err
	}
	fb, err := fallbackOf(EventGet, fallback)
	if err != nil {
		return Value{}, err
	}

	var out Value
	var found bool
	name, err := d.view(EventGet, func(doc *Object) error {
		out, found = doc.Get(key)
		out = out.Clone()
		return nil
	})
	if err != nil {
		return Value{}, err
	}
	if !found {
		out = fb
	}

	d.s.Emit(Event{Name: EventGet, Doc: name, Key: key, Value: out})
	return out, nil
}

// Has reports whether key is present.
func (d *Doc) Has(key string) (bool, error) {
	if err := requireKey(EventHas, key); err != nil {
		return false, err
	}
	var found bool
	name, err := d.view(EventHas, func(doc *Object) error {
		found = doc.Has(key)
		return nil
	})
	if err != nil {
		return false, err
	}
	d.s.Emit(Event{Name: EventHas, Doc: name, Key: key, Value: Bool(found)})
	return found, nil
}

// Set stores value at key, replacing any existing value in place.
func (d *Doc) Set(key string, value any) error {
	if err := requireKey(EventSet, key); err != nil {
		return err
	}
	v, err := input(EventSet, value)
	if err != nil {
		return err
	}

	var old Value
	name, err := d.update(EventSet, func(doc *Object) error {
		old, _ = doc.Get(key)
		doc.Set(key, v)
		return nil
	})
	if err != nil {
		return err
	}
	d.s.Emit(Event{Name: EventSet, Doc: name, Key: key, Value: v, Old: old})
	return nil
}

// Delete removes key and returns the value it held. ok is false when the
// key was absent, in which case nothing is written.
func (d *Doc) Delete(key string) (Value, bool, error) {
	if err := requireKey(EventDelete, key); err != nil {
		return Value{}, false, err
	}

	var old Value
	var found bool
	name, err := d.update(EventDelete, func(doc *Object) error {
		old, found = doc.Delete(key)
		if !found {
			return errNoChange
		}
		return nil
	})
	if err != nil {
		return Value{}, false, err
	}
	d.s.Emit(Event{Name: EventDelete, Doc: name, Key: key, Old: old})
	return old, found, nil
}
