// JSON parsing and encoding for Value.
//
// Parsing walks the text with jsonparser so object keys are visited in
// source order; encoding/json would lose that order by decoding into maps.
// The input is first checked with json.Valid because jsonparser is lenient
// about trailing garbage and some malformed input.
//
// Encoding writes compact JSON directly, using json.Marshal only for
// scalars so string escaping and float formatting match the standard
// encoders. indent re-flows compact output to the configured width.
package jsonkv

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	json "github.com/goccy/go-json"
)

// errNumberRange marks a number literal that does not fit a float64.
var errNumberRange = errors.New("number out of range")

// ParseValue parses a complete JSON text.
func ParseValue(data []byte) (Value, error) {
	if !json.Valid(data) {
		// Valid also rejects well-formed numbers beyond float64; name
		// that cause when the lenient parse finds one.
		if raw, typ, _, err := jsonparser.Get(data); err == nil {
			if _, err := decode(raw, typ); errors.Is(err, errNumberRange) {
				return Value{}, err
			}
		}
		return Value{}, fail(CodeInvalidInput, "parse", "invalid JSON")
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fail(CodeInvalidInput, "parse", "%w", err)
	}
	return decode(raw, typ)
}

// decode converts one jsonparser token. String tokens arrive without
// quotes and still escaped.
func decode(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fail(CodeInvalidInput, "parse", "%w", err)
		}
		return Bool(b), nil
	case jsonparser.Number:
		n, err := jsonparser.ParseFloat(raw)
		if err != nil || math.IsInf(n, 0) {
			if _, rerr := strconv.ParseFloat(string(raw), 64); errors.Is(rerr, strconv.ErrRange) {
				return Value{}, fail(CodeInvalidInput, "parse", "%s: %w", raw, errNumberRange)
			}
			return Value{}, fail(CodeInvalidInput, "parse", "%w", err)
		}
		return Number(n), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fail(CodeInvalidInput, "parse", "%w", err)
		}
		return String(s), nil
	case jsonparser.Array:
		items := []Value{}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(val []byte, t jsonparser.ValueType, _ int, e error) {
			if inner != nil {
				return
			}
			if e != nil {
				inner = e
				return
			}
			item, e := decode(val, t)
			if e != nil {
				inner = e
				return
			}
			items = append(items, item)
		})
		if err = errors.Join(err, inner); err != nil {
			return Value{}, parseError(err)
		}
		return Array(items...), nil
	case jsonparser.Object:
		o := NewObject()
		err := jsonparser.ObjectEach(raw, func(key, val []byte, t jsonparser.ValueType, _ int) error {
			item, err := decode(val, t)
			if err != nil {
				return err
			}
			// ObjectEach has already unescaped the key.
			o.Set(string(key), item)
			return nil
		})
		if err != nil {
			return Value{}, parseError(err)
		}
		return ObjectValue(o), nil
	}
	return Value{}, fail(CodeInvalidInput, "parse", "unexpected token %s", typ)
}

func parseError(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return fail(CodeInvalidInput, "parse", "%w", err)
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindUndefined, KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		data, err := json.Marshal(v.n)
		if err != nil {
			return fail(CodeInvalidInput, "encode", "%w", err)
		}
		buf.Write(data)
	case KindString:
		data, err := json.Marshal(v.s)
		if err != nil {
			return fail(CodeInvalidInput, "encode", "%w", err)
		}
		buf.Write(data)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		for k, item := range v.o.All() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(k)
			if err != nil {
				return fail(CodeInvalidInput, "encode", "%w", err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// indent encodes doc with the given number of spaces per level. Zero or
// less produces compact output.
func indent(doc *Object, spaces int) ([]byte, error) {
	compact, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if spaces <= 0 {
		return compact, nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", strings.Repeat(" ", spaces)); err != nil {
		return nil, fail(CodeInvalidInput, "encode", "%w", err)
	}
	return buf.Bytes(), nil
}
