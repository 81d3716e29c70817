package jsonkv

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParseValueRoundTrip(t *testing.T) {
	tests := []string{
		`null`,
		`true`,
		`-2.5`,
		`"plain"`,
		`"line\nbreak \"quoted\""`,
		`[]`,
		`{}`,
		`[1,[2,[3]],{"a":null}]`,
		`{"z":1,"a":{"y":true,"b":null},"m":[]}`,
		`{"k\"ey":"v"}`,
	}
	for _, in := range tests {
		v, err := ParseValue([]byte(in))
		if err != nil {
			t.Errorf("ParseValue(%s): %v", in, err)
			continue
		}
		if v.String() != in {
			t.Errorf("round trip %s = %s", in, v)
		}
	}
}

func TestParseValueWhitespace(t *testing.T) {
	v, err := ParseValue([]byte("  {\n  \"b\": 1,\n  \"a\": [ 1, 2 ]\n}\n"))
	if err != nil {
		t.Fatalf("ParseValue: %v", err)
	}
	if v.String() != `{"b":1,"a":[1,2]}` {
		t.Errorf("ParseValue = %s", v)
	}
}

func TestParseValueNumbers(t *testing.T) {
	tests := map[string]float64{
		`0`:      0,
		`-1`:     -1,
		`1e3`:    1000,
		`0.125`:  0.125,
		`1.5E-1`: 0.15,
	}
	for in, want := range tests {
		v, err := ParseValue([]byte(in))
		if err != nil {
			t.Fatalf("ParseValue(%s): %v", in, err)
		}
		if n, ok := v.AsNumber(); !ok || n != want {
			t.Errorf("ParseValue(%s) = %s, want %v", in, v, want)
		}
	}
}

func TestParseValueInvalid(t *testing.T) {
	for _, in := range []string{``, `{`, `[1,]`, `{"a"}`, `1 2`, `tru`, `{'a':1}`, `{"a":1}x`} {
		if _, err := ParseValue([]byte(in)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseValue(%q) = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestParseValueDuplicateKeys(t *testing.T) {
	v := mustParse(t, `{"a":1,"b":2,"a":3}`)
	obj, _ := v.AsObject()
	if !slices.Equal(obj.Keys(), []string{"a", "b"}) {
		t.Errorf("Keys = %v", obj.Keys())
	}
	if x, _ := obj.Get("a"); !Equal(x, Number(3)) {
		t.Errorf("a = %s, want last value 3", x)
	}
}

func TestIndent(t *testing.T) {
	doc := NewObject()
	doc.Set("a", MustValue([]any{1}))

	compact, _ := indent(doc, -1)
	if string(compact) != `{"a":[1]}` {
		t.Errorf("compact = %s", compact)
	}
	pretty, _ := indent(doc, 2)
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if string(pretty) != want {
		t.Errorf("indent 2 = %q, want %q", pretty, want)
	}
	wide, _ := indent(doc, 4)
	if !strings.HasPrefix(string(wide), "{\n    \"a\"") {
		t.Errorf("indent 4 = %q", wide)
	}
}

func TestParseValueNumberRange(t *testing.T) {
	for _, in := range []string{`1e400`, `{"a":-1e400}`, `[1,2e999]`} {
		_, err := ParseValue([]byte(in))
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseValue(%s) = %v, want ErrInvalidInput", in, err)
		}
		if err == nil || !strings.Contains(err.Error(), "out of range") {
			t.Errorf("ParseValue(%s) = %v, want range cause", in, err)
		}
	}
}
