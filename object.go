// Insertion-ordered JSON object.
package jsonkv

import (
	"bytes"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a string-keyed map that remembers insertion order. Setting an
// existing key replaces its value in place; only new keys go to the end.
// The zero value is not usable; call NewObject. A nil *Object reads as empty.
type Object struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{m: orderedmap.New[string, Value]()}
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.m.Len()
}

// Get returns the value stored at key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.m.Get(key)
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Set stores v at key.
func (o *Object) Set(key string, v Value) {
	o.m.Set(key, v)
}

// Delete removes key, returning the value it held.
func (o *Object) Delete(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.m.Delete(key)
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	for k := range o.All() {
		keys = append(keys, k)
	}
	return keys
}

// All yields key/value pairs in insertion order. The object must not be
// modified during iteration.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy.
func (o *Object) Clone() *Object {
	out := NewObject()
	for k, v := range o.All() {
		out.Set(k, v.Clone())
	}
	return out
}

// MarshalJSON encodes the object compactly in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := ObjectValue(o).encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := ParseValue(data)
	if err != nil {
		return err
	}
	obj, ok := v.AsObject()
	if !ok {
		return fail(CodeInvalidInput, "object", "expected object, got %s", v.Kind())
	}
	o.m = obj.m
	return nil
}
