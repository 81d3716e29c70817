// JSON value model.
//
// Value is a closed variant over the JSON kinds. The zero Value is
// KindUndefined, which stands for "absent" and is never stored: Set and
// friends reject it, and TypeOf reports it for missing keys.
package jsonkv

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	json "github.com/goccy/go-json"
)

// Kind is the dynamic type tag of a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "undefined"
	}
}

// Value is a JSON value. Arrays and objects are held by reference, so use
// Clone before mutating a Value obtained from a document.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    *Object
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array Value holding items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, a: items}
}

// ObjectValue wraps o as a Value. A nil o becomes an empty object.
func ObjectValue(o *Object) Value {
	if o == nil {
		o = NewObject()
	}
	return Value{kind: KindObject, o: o}
}

// Kind reports the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined reports whether v is the zero (absent) Value.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsArray returns the backing slice; it is shared, not copied.
func (v Value) AsArray() ([]Value, bool) { return v.a, v.kind == KindArray }

func (v Value) AsObject() (*Object, bool) { return v.o, v.kind == KindObject }

// Interface converts v to plain Go values: nil, bool, float64, string,
// []any and map[string]any. Object key order is lost in the map.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.a))
		for i, item := range v.a {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.o.Len())
		for k, item := range v.o.All() {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		items := make([]Value, len(v.a))
		for i, item := range v.a {
			items[i] = item.Clone()
		}
		return Value{kind: KindArray, a: items}
	case KindObject:
		return Value{kind: KindObject, o: v.o.Clone()}
	default:
		return v
	}
}

// MarshalJSON encodes v compactly. Undefined encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes data, keeping object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// String renders v as compact JSON.
func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("!(%v)", err)
	}
	return string(data)
}

// ValueOf converts a Go value into a Value. Values, *Object, scalars,
// slices and string-keyed maps convert directly (map keys are sorted since
// Go maps are unordered); anything else is marshalled to JSON and parsed
// back, so structs keep their field order.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		if t.kind == KindUndefined {
			return Value{}, fail(CodeInvalidInput, "value", "undefined is not a JSON value")
		}
		return t, nil
	case *Object:
		return ObjectValue(t), nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return number(t)
	case float32:
		return number(float64(t))
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return Value{}, fail(CodeInvalidInput, "value", "%w", err)
		}
		return number(f)
	case []Value:
		items := make([]Value, len(t))
		for i, item := range t {
			cv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = cv
		}
		return Array(items...), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			cv, err := ValueOf(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = cv
		}
		return Array(items...), nil
	case map[string]Value:
		return fromMap(t)
	case map[string]any:
		return fromMap(t)
	}
	return viaJSON(x)
}

func number(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fail(CodeInvalidInput, "value", "%v is not a JSON number", f)
	}
	return Number(f), nil
}

func fromMap[V any](m map[string]V) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	o := NewObject()
	for _, k := range keys {
		cv, err := ValueOf(m[k])
		if err != nil {
			return Value{}, err
		}
		o.Set(k, cv)
	}
	return ObjectValue(o), nil
}

func viaJSON(x any) (Value, error) {
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Func || rv.Kind() == reflect.Chan || rv.Kind() == reflect.Complex64 || rv.Kind() == reflect.Complex128 {
		return Value{}, fail(CodeInvalidInput, "value", "unsupported type %T", x)
	}
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, fail(CodeInvalidInput, "value", "%w", err)
	}
	v, err := ParseValue(data)
	if err != nil {
		return Value{}, fail(CodeInvalidInput, "value", "%T: %w", x, err)
	}
	return v, nil
}

// MustValue is like ValueOf but panics on error. Intended for literals.
func MustValue(x any) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}
