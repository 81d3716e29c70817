// Value-based lookup. Keys are found by comparing stored values with Equal,
// scanning in insertion order.
package jsonkv

// GetByValue returns the first key whose value equals value.
func (d *Doc) GetByValue(value any) (string, bool, error) {
	want, err := input(EventGetByValue, value)
	if err != nil {
		return "", false, err
	}

	var key string
	var found bool
	name, err := d.view(EventGetByValue, func(doc *Object) error {
		key, found = keyOf(doc, want)
		return nil
	})
	if err != nil {
		return "", false, err
	}
	d.s.Emit(Event{Name: EventGetByValue, Doc: name, Key: key, Value: want})
	return key, found, nil
}

// GetManyByValue resolves each of values to the first key holding an equal
// value. The result always is a slice, in input order, of the keys that
// resolved; unresolved inputs are skipped. ok is false only when none
// resolved.
func (d *Doc) GetManyByValue(values []any) ([]string, bool, error) {
	if len(values) == 0 {
		return nil, false, fail(CodeMissingInput, EventGetManyByValue, "values are required")
	}
	wants := make([]Value, len(values))
	for i, x := range values {
		v, err := input(EventGetManyByValue, x)
		if err != nil {
			return nil, false, err
		}
		wants[i] = v
	}

	var keys []string
	name, err := d.view(EventGetManyByValue, func(doc *Object) error {
		for _, want := range wants {
			if k, ok := keyOf(doc, want); ok {
				keys = append(keys, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	d.s.Emit(Event{Name: EventGetManyByValue, Doc: name, Keys: keys, Value: Array(wants...)})
	return keys, len(keys) > 0, nil
}

func keyOf(doc *Object, want Value) (string, bool) {
	for k, v := range doc.All() {
		if Equal(v, want) {
			return k, true
		}
	}
	return "", false
}
