package jsonkv

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func seedUsers(t *testing.T, s *Store) {
	t.Helper()
	s.Set("user:alice", map[string]any{"age": 30})
	s.Set("user:bob", map[string]any{"age": 17})
	s.Set("admin", true)
	s.Set("user:carol", map[string]any{"age": 45})
}

func age(e Entry) float64 {
	o, ok := e.Value.AsObject()
	if !ok {
		return -1
	}
	v, _ := o.Get("age")
	n, _ := v.AsNumber()
	return n
}

func TestFind(t *testing.T) {
	s := openTestStore(t, Config{})
	seedUsers(t, s)

	e, ok, err := s.Find(func(e Entry) bool { return age(e) > 18 })
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok || e.Key != "user:alice" || e.Index != 0 {
		t.Errorf("Find = %+v, %v", e, ok)
	}

	e, ok, _ = s.Find(func(e Entry) bool { return e.Index == 3 })
	if !ok || e.Key != "user:carol" {
		t.Errorf("Find by index = %q, %v, want user:carol", e.Key, ok)
	}

	_, ok, _ = s.Find(func(Entry) bool { return false })
	if ok {
		t.Error("Find with no match = true")
	}
}

func TestFilter(t *testing.T) {
	s := openTestStore(t, Config{})
	seedUsers(t, s)

	got, err := s.Filter(func(e Entry) bool { return age(e) > 18 })
	if err != nil {
		t.Fatalf("Filter: %v", err)
	}
	if !slices.Equal(got.Keys(), []string{"user:alice", "user:carol"}) {
		t.Errorf("Filter = %v", got.Keys())
	}
}

func TestSomeEvery(t *testing.T) {
	s := openTestStore(t, Config{})

	any18 := func(e Entry) bool { return age(e) >= 18 }
	if ok, _ := s.Some(any18); ok {
		t.Error("Some on empty document = true")
	}
	if ok, _ := s.Every(any18); !ok {
		t.Error("Every on empty document = false")
	}

	seedUsers(t, s)
	if ok, _ := s.Some(any18); !ok {
		t.Error("Some = false")
	}
	if ok, _ := s.Every(any18); ok {
		t.Error("Every = true")
	}
	if ok, _ := s.Every(func(e Entry) bool { return e.Key != "" }); !ok {
		t.Error("Every key non-empty = false")
	}
}

func TestFindAndDelete(t *testing.T) {
	s := openTestStore(t, Config{Cache: true})
	seedUsers(t, s)

	e, ok, err := s.FindAndDelete(func(e Entry) bool { return age(e) < 18 && age(e) >= 0 })
	if err != nil {
		t.Fatalf("FindAndDelete: %v", err)
	}
	if !ok || e.Key != "user:bob" {
		t.Errorf("FindAndDelete = %q, %v, want user:bob", e.Key, ok)
	}
	if has, _ := s.Has("user:bob"); has {
		t.Error("user:bob still present")
	}

	_, ok, _ = s.FindAndDelete(func(Entry) bool { return false })
	if ok {
		t.Error("FindAndDelete with no match = true")
	}
}

func TestFilterAndDelete(t *testing.T) {
	s := openTestStore(t, Config{})
	seedUsers(t, s)

	removed, err := s.FilterAndDelete(func(e Entry) bool { return age(e) >= 18 })
	if err != nil {
		t.Fatalf("FilterAndDelete: %v", err)
	}
	if !slices.Equal(removed.Keys(), []string{"user:alice", "user:carol"}) {
		t.Errorf("removed = %v", removed.Keys())
	}
	keys, _ := s.Keys()
	if !slices.Equal(keys, []string{"user:bob", "admin"}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestMatchKeys(t *testing.T) {
	s := openTestStore(t, Config{})
	seedUsers(t, s)

	keys, err := s.MatchKeys("^user:")
	if err != nil {
		t.Fatalf("MatchKeys: %v", err)
	}
	if !slices.Equal(keys, []string{"user:alice", "user:bob", "user:carol"}) {
		t.Errorf("MatchKeys = %v", keys)
	}

	keys, _ = s.MatchKeys("(?i)ADMIN")
	if !slices.Equal(keys, []string{"admin"}) {
		t.Errorf("MatchKeys case-insensitive = %v", keys)
	}
	keys, _ = s.MatchKeys("ADMIN")
	if len(keys) != 0 {
		t.Errorf("MatchKeys case-sensitive = %v", keys)
	}

	if _, err := s.MatchKeys("("); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("MatchKeys bad pattern = %v, want ErrInvalidInput", err)
	}
	if _, err := s.MatchKeys(""); !errors.Is(err, ErrMissingInput) {
		t.Errorf("MatchKeys empty = %v, want ErrMissingInput", err)
	}
}

func TestNilPredicate(t *testing.T) {
	s := openTestStore(t, Config{})

	if _, _, err := s.Find(nil); !errors.Is(err, ErrMissingInput) {
		t.Errorf("Find(nil) = %v", err)
	}
	if _, err := s.Filter(nil); !errors.Is(err, ErrMissingInput) {
		t.Errorf("Filter(nil) = %v", err)
	}
	if _, err := s.FilterAndDelete(nil); !errors.Is(err, ErrMissingInput) {
		t.Errorf("FilterAndDelete(nil) = %v", err)
	}
}

func TestPredicateMayReadStore(t *testing.T) {
	s := openTestStore(t, Config{Cache: true})
	seedUsers(t, s)
	s.Set("minAge", 18)

	done := make(chan struct{})
	go func() {
		defer close(done)
		adult := func(e Entry) bool {
			limit, err := s.Get("minAge", nil)
			if err != nil {
				return false
			}
			n, _ := limit.AsNumber()
			return age(e) >= n
		}
		if e, ok, err := s.Find(adult); err != nil || !ok || e.Key != "user:alice" {
			t.Errorf("Find = %q, %v, %v", e.Key, ok, err)
		}
		if got, err := s.Filter(adult); err != nil || got.Len() != 2 {
			t.Errorf("Filter = %v, %v", got.Keys(), err)
		}
		if ok, err := s.Some(adult); err != nil || !ok {
			t.Errorf("Some = %v, %v", ok, err)
		}
		if ok, err := s.Every(adult); err != nil || ok {
			t.Errorf("Every = %v, %v", ok, err)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("predicate reading the store blocked")
	}
}
