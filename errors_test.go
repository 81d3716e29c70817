package jsonkv

import (
	"errors"
	"io/fs"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fail(CodeNotArray, "push", "%q holds %s", "k", KindNumber), `jsonkv: push: not an array: "k" holds number`},
		{fail(CodeClosed, "get", ""), "jsonkv: get: store is closed"},
		{fail(CodeDivideByZero, "", ""), "jsonkv: divide by zero"},
		{&Error{Code: Code(99)}, "jsonkv: code(99)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorIs(t *testing.T) {
	err := fail(CodeMissingFile, "get", "%s", "x.json")

	if !errors.Is(err, ErrMissingFile) {
		t.Error("errors.Is(ErrMissingFile) = false")
	}
	if errors.Is(err, ErrIO) {
		t.Error("errors.Is(ErrIO) = true")
	}

	var e *Error
	if !errors.As(err, &e) || e.Op != "get" {
		t.Errorf("errors.As = %+v", e)
	}
}

func TestWrap(t *testing.T) {
	if wrap("op", nil) != nil {
		t.Error("wrap(nil) != nil")
	}

	inner := fail(CodeNotNumber, "", "x")
	got := wrap("add", inner)
	var e *Error
	errors.As(got, &e)
	if e.Op != "add" || e.Code != CodeNotNumber {
		t.Errorf("wrap = %+v", e)
	}
	if wrap("other", got) != got {
		t.Error("wrap replaced an existing op")
	}

	plain := wrap("open", fs.ErrPermission)
	if !errors.Is(plain, ErrIO) || !errors.Is(plain, fs.ErrPermission) {
		t.Errorf("wrap(plain) = %v, want ErrIO wrapping the cause", plain)
	}
}
