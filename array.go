// Operations on array-valued entries.
//
// A missing key behaves as an empty array; every operation except Pull and
// Includes creates it. A present value of any other kind fails with
// ErrNotArray and leaves the document untouched.
package jsonkv

// arrayAt returns a copy of the array at key, or an empty slice.
func arrayAt(doc *Object, key string) ([]Value, error) {
	v, ok := doc.Get(key)
	if !ok {
		return []Value{}, nil
	}
	items, ok := v.AsArray()
	if !ok {
		return nil, fail(CodeNotArray, "", "%q holds %s", key, v.Kind())
	}
	return append([]Value(nil), items...), nil
}

func inputs(op string, xs []any) ([]Value, error) {
	out := make([]Value, len(xs))
	for i, x := range xs {
		v, err := input(op, x)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Push appends value to the array at key and returns the new length.
func (d *Doc) Push(key string, value any) (int, error) {
	return d.insert(EventPush, key, []any{value}, false)
}

// PushAll appends values in order.
func (d *Doc) PushAll(key string, values ...any) (int, error) {
	return d.insert(EventPush, key, values, false)
}

// Unshift prepends value to the array at key and returns the new length.
func (d *Doc) Unshift(key string, value any) (int, error) {
	return d.insert(EventUnshift, key, []any{value}, true)
}

// UnshiftAll prepends values keeping their order, so UnshiftAll(k, a, b)
// on [c] yields [a, b, c].
func (d *Doc) UnshiftAll(key string, values ...any) (int, error) {
	return d.insert(EventUnshift, key, values, true)
}

func (d *Doc) insert(op, key string, xs []any, front bool) (int, error) {
	if err := requireKey(op, key); err != nil {
		return 0, err
	}
	vals, err := inputs(op, xs)
	if err != nil {
		return 0, err
	}

	var n int
	var result Value
	name, err := d.update(op, func(doc *Object) error {
		items, err := arrayAt(doc, key)
		if err != nil {
			return err
		}
		if front {
			items = append(append([]Value(nil), vals...), items...)
		} else {
			items = append(items, vals...)
		}
		n = len(items)
		result = Array(items...)
		doc.Set(key, result)
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.s.Emit(Event{Name: op, Doc: name, Key: key, Value: result})
	return n, nil
}

// Pop removes up to n elements from the end of the array at key and
// returns them in removal order (last element first).
func (d *Doc) Pop(key string, n int) ([]Value, error) {
	return d.remove(EventPop, key, n, false)
}

// Shift removes up to n elements from the start of the array at key and
// returns them in removal order.
func (d *Doc) Shift(key string, n int) ([]Value, error) {
	return d.remove(EventShift, key, n, true)
}

func (d *Doc) remove(op, key string, n int, front bool) ([]Value, error) {
	if err := requireKey(op, key); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fail(CodeInvalidInput, op, "count must be at least 1, got %d", n)
	}

	var removed []Value
	var result Value
	name, err := d.update(op, func(doc *Object) error {
		items, err := arrayAt(doc, key)
		if err != nil {
			return err
		}
		n = min(n, len(items))
		removed = make([]Value, 0, n)
		if front {
			removed = append(removed, items[:n]...)
			items = items[n:]
		} else {
			for i := len(items) - 1; i >= len(items)-n; i-- {
				removed = append(removed, items[i])
			}
			items = items[:len(items)-n]
		}
		result = Array(append([]Value(nil), items...)...)
		doc.Set(key, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.s.Emit(Event{Name: op, Doc: name, Key: key, Value: result, Old: Array(removed...)})
	return removed, nil
}

// Pull removes every element equal to value from the array at key and
// returns how many were removed. A missing key is left missing.
func (d *Doc) Pull(key string, value any) (int, error) {
	if err := requireKey(EventPull, key); err != nil {
		return 0, err
	}
	want, err := input(EventPull, value)
	if err != nil {
		return 0, err
	}

	var count int
	name, err := d.update(EventPull, func(doc *Object) error {
		if !doc.Has(key) {
			return errNoChange
		}
		items, err := arrayAt(doc, key)
		if err != nil {
			return err
		}
		kept := items[:0]
		for _, item := range items {
			if Equal(item, want) {
				count++
				continue
			}
			kept = append(kept, item)
		}
		if count == 0 {
			return errNoChange
		}
		doc.Set(key, Array(kept...))
		return nil
	})
	if err != nil {
		return 0, err
	}
	d.s.Emit(Event{Name: EventPull, Doc: name, Key: key, Old: want, Value: Number(float64(count))})
	return count, nil
}

// Includes reports whether the array at key holds an element equal to
// value. A missing key yields false.
func (d *Doc) Includes(key string, value any) (bool, error) {
	if err := requireKey(EventIncludes, key); err != nil {
		return false, err
	}
	want, err := input(EventIncludes, value)
	if err != nil {
		return false, err
	}

	var found bool
	name, err := d.view(EventIncludes, func(doc *Object) error {
		items, err := arrayAt(doc, key)
		if err != nil {
			return err
		}
		for _, item := range items {
			if Equal(item, want) {
				found = true
				break
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	d.s.Emit(Event{Name: EventIncludes, Doc: name, Key: key, Value: Bool(found)})
	return found, nil
}
