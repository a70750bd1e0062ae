package stitch

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Error is an error carrying a stitched continuation trace. Its own
// frames and the active continuation are snapshotted at construction
// time; text rendering is lazy and happens at most once.
type Error struct {
	msg    string
	cause  error
	frames []Frame
	cont   *node
	tracer *Tracer

	once sync.Once
	text string
}

// New constructs an error capturing the active continuation.
func (t *Tracer) New(msg string) error {
	if t.cfg.Disabled {
		return errors.New(msg)
	}
	return &Error{msg: msg, frames: t.capture(0), cont: t.active, tracer: t}
}

// Errorf constructs a formatted error capturing the active
// continuation. The %w verb wraps as with fmt.Errorf.
func (t *Tracer) Errorf(format string, args ...any) error {
	if t.cfg.Disabled {
		return fmt.Errorf(format, args...)
	}
	err := fmt.Errorf(format, args...)
	return &Error{msg: err.Error(), cause: errors.Unwrap(err), frames: t.capture(0), cont: t.active, tracer: t}
}

// Augment attaches the active continuation to err without altering its
// type, message, or wrap chain: the original error stays reachable via
// Unwrap. Augmenting an already augmented error returns it unchanged.
func (t *Tracer) Augment(err error) error {
	if err == nil || t.cfg.Disabled {
		return err
	}
	if _, ok := err.(*Error); ok {
		return err
	}
	return &Error{msg: err.Error(), cause: err, frames: t.capture(0), cont: t.active, tracer: t}
}

// Error returns the original message, unaltered.
func (e *Error) Error() string { return e.msg }

// Unwrap exposes the augmented cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Stack renders the stitched trace text per the tracer's configured
// shape. The result is computed once and cached; re-rendering the same
// error returns identical output. An empty string means introspection
// produced nothing to add beyond the native error.
func (e *Error) Stack() string {
	e.once.Do(func() { e.text = e.render() })
	return e.text
}

// Trace returns the structured (continuable) form of the stitched
// trace: the ordered segments and their boundary labels, innermost
// first. It is rebuilt deterministically from the construction-time
// snapshot, so repeated calls agree.
func (e *Error) Trace() *Trace {
	return &Trace{Segments: e.segments()}
}

// Format implements fmt.Formatter. %+v prints the message followed by
// the stitched trace.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		io.WriteString(f, e.msg)
		if f.Flag('+') {
			if stack := e.Stack(); stack != "" {
				io.WriteString(f, "\n")
				io.WriteString(f, stack)
			}
		}
	case 's':
		io.WriteString(f, e.msg)
	case 'q':
		fmt.Fprintf(f, "%q", e.msg)
	}
}
