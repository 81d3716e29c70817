package jsonkv

// TypeOf returns the kind of the value at key. Missing keys report
// KindUndefined; arrays report KindArray, never KindObject.
func (d *Doc) TypeOf(key string) (Kind, error) {
	if err := requireKey(EventTypeOf, key); err != nil {
		return KindUndefined, err
	}
	var kind Kind
	name, err := d.view(EventTypeOf, func(doc *Object) error {
		v, _ := doc.Get(key)
		kind = v.Kind()
		return nil
	})
	if err != nil {
		return KindUndefined, err
	}
	d.s.Emit(Event{Name: EventTypeOf, Doc: name, Key: key, Value: String(kind.String())})
	return kind, nil
}
