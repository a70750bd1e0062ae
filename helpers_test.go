package stitch

import (
	"errors"
	"strings"
	"testing"
)

var errPlain = errors.New("plain")

// fr builds a synthetic frame in a fixed source file.
func fr(fn string, line int) Frame {
	return Frame{Function: fn, File: "/src/app.go", Line: line}
}

// scriptCapture plays back one scripted stack per capture call,
// applying the requested leading trim. A nil stack simulates
// introspection being unavailable for that call.
type scriptCapture struct {
	stacks [][]Frame
	idx    int
}

func (s *scriptCapture) capture(skip int) []Frame {
	if s.idx >= len(s.stacks) {
		return nil
	}
	stack := s.stacks[s.idx]
	s.idx++
	if skip >= len(stack) {
		return nil
	}
	return append([]Frame(nil), stack[skip:]...)
}

func mustPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", substr)
		}
		msg, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic value, got %T", r)
		}
		if !strings.Contains(msg.Error(), substr) {
			t.Fatalf("panic mismatch: want substring %q, got %q", substr, msg.Error())
		}
	}()
	fn()
}

func framesEqual(a, b []Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func asStitch(t *testing.T, err error) *Error {
	t.Helper()
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *stitch.Error, got %T", err)
	}
	return e
}
