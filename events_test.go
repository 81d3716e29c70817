package jsonkv

import (
	"errors"
	"slices"
	"testing"
)

func TestListenerOrder(t *testing.T) {
	s := openTestStore(t, Config{})

	var calls []string
	s.On(EventAny, func(ev Event) error {
		calls = append(calls, "any:"+ev.Name)
		return nil
	})
	s.On(EventSet, func(Event) error {
		calls = append(calls, "first")
		return nil
	})
	s.On(EventSet, func(Event) error {
		calls = append(calls, "second")
		return nil
	})

	s.Set("a", 1)
	want := []string{"first", "second", "any:set"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestEventPayload(t *testing.T) {
	s := openTestStore(t, Config{})
	var got []Event
	s.On(EventAny, func(ev Event) error {
		got = append(got, ev)
		return nil
	})

	s.Set("a", 1)
	s.Set("a", 2)
	s.Delete("a")

	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	if got[1].Key != "a" || !Equal(got[1].Value, Number(2)) || !Equal(got[1].Old, Number(1)) {
		t.Errorf("second set = %+v", got[1])
	}
	if got[2].Name != EventDelete || !Equal(got[2].Old, Number(2)) {
		t.Errorf("delete = %+v", got[2])
	}
	if got[0].Doc != DefaultFileName {
		t.Errorf("Doc = %q", got[0].Doc)
	}
}

func TestListenerFailuresAreContained(t *testing.T) {
	s := openTestStore(t, Config{})

	reached := false
	s.On(EventSet, func(Event) error { return errors.New("boom") })
	s.On(EventSet, func(Event) error { panic("listener bug") })
	s.On(EventSet, func(Event) error {
		reached = true
		return nil
	})

	if err := s.Set("a", 1); err != nil {
		t.Fatalf("Set = %v, want nil despite listener failures", err)
	}
	if !reached {
		t.Error("listener after failures not called")
	}
	if ok, _ := s.Has("a"); !ok {
		t.Error("Set not applied")
	}
}

func TestListenerMayCallStore(t *testing.T) {
	s := openTestStore(t, Config{Cache: true})

	var seen Value
	s.On(EventSet, func(ev Event) error {
		v, err := s.Get(ev.Key, nil)
		seen = v
		return err
	})
	s.Set("a", "x")

	if seen.String() != `"x"` {
		t.Errorf("listener saw %s, want \"x\"", seen)
	}
}

func TestOff(t *testing.T) {
	s := openTestStore(t, Config{})

	n := 0
	id, err := s.On(EventSet, func(Event) error {
		n++
		return nil
	})
	if err != nil {
		t.Fatalf("On: %v", err)
	}
	s.Set("a", 1)
	if !s.Off(EventSet, id) {
		t.Error("Off = false")
	}
	if s.Off(EventSet, id) {
		t.Error("second Off = true")
	}
	s.Set("a", 2)

	if n != 1 {
		t.Errorf("listener called %d times, want 1", n)
	}
}

func TestOnErrors(t *testing.T) {
	s := openTestStore(t, Config{})

	if _, err := s.On("", func(Event) error { return nil }); !errors.Is(err, ErrMissingInput) {
		t.Errorf("On empty = %v, want ErrMissingInput", err)
	}
	if _, err := s.On(EventSet, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("On nil = %v, want ErrInvalidInput", err)
	}
}

func TestNoEventOnFailure(t *testing.T) {
	s := openTestStore(t, Config{})
	s.Set("n", "x")

	fired := false
	s.On(EventAdd, func(Event) error {
		fired = true
		return nil
	})
	s.Add("n", 1)

	if fired {
		t.Error("event emitted for a failed operation")
	}
}

func TestStoreEvents(t *testing.T) {
	s := openTestStore(t, Config{})
	var names []string
	s.On(EventAny, func(ev Event) error {
		names = append(names, ev.Name+":"+ev.Doc)
		return nil
	})

	s.Create("a", nil, false)
	s.Clone("a", "b")
	s.Rename("b", "c")
	s.Destroy("c")

	want := []string{"create:a", "clone:b", "rename:c", "destroy:c"}
	if !slices.Equal(names, want) {
		t.Errorf("events = %v, want %v", names, want)
	}
}
