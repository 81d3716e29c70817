package jsonkv

import (
	"slices"
	"testing"
)

func TestGetByValue(t *testing.T) {
	s := openTestStore(t, Config{})
	s.Set("a", 1)
	s.Set("b", []any{1, 2, 2})
	s.Set("c", map[string]any{"x": 1, "y": []any{"p", "q"}})
	s.Set("d", 1)

	tests := []struct {
		name  string
		value any
		key   string
		ok    bool
	}{
		{"first of duplicates", 1, "a", true},
		{"array in any order", []any{2, 1, 2}, "b", true},
		{"array with wrong multiplicity", []any{1, 1, 2}, "", false},
		{"object", map[string]any{"y": []any{"q", "p"}, "x": 1}, "c", true},
		{"absent", "nope", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok, err := s.GetByValue(tt.value)
			if err != nil {
				t.Fatalf("GetByValue: %v", err)
			}
			if key != tt.key || ok != tt.ok {
				t.Errorf("GetByValue = %q, %v, want %q, %v", key, ok, tt.key, tt.ok)
			}
		})
	}
}

func TestGetManyByValue(t *testing.T) {
	s := openTestStore(t, Config{})
	s.Set("a", 1)
	s.Set("b", "two")

	keys, ok, err := s.GetManyByValue([]any{"two", 99, 1})
	if err != nil {
		t.Fatalf("GetManyByValue: %v", err)
	}
	if !ok || !slices.Equal(keys, []string{"b", "a"}) {
		t.Errorf("GetManyByValue = %v, %v, want [b a], true", keys, ok)
	}

	keys, ok, _ = s.GetManyByValue([]any{98, 99})
	if ok || len(keys) != 0 {
		t.Errorf("GetManyByValue none = %v, %v, want empty, false", keys, ok)
	}
}
