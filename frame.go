package stitch

import (
	"fmt"
	"runtime"
)

// maxCaptureDepth bounds a single stack capture.
const maxCaptureDepth = 64

// Frame is one entry of a captured call chain.
type Frame struct {
	Function string
	File     string
	Line     int
	Native   bool // the runtime could not attribute this frame
}

// String renders the frame in the native two-line trace convention:
// the function name, then a tab-indented file:line.
func (f Frame) String() string {
	if f.Native {
		return "<native frame>"
	}
	return fmt.Sprintf("%s\n\t%s:%d", f.Function, f.File, f.Line)
}

// Capturer obtains the current logical call chain, innermost first,
// dropping the first skip entries. Implementations must not panic and
// return nil when introspection is unavailable; the rest of the system
// then degrades to passing errors through unmodified.
type Capturer func(skip int) []Frame

// CaptureFrames is the default Capturer, backed by runtime.Callers.
// With skip zero the first frame is the caller of CaptureFrames.
func CaptureFrames(skip int) []Frame {
	if skip < 0 {
		skip = 0
	}
	return captureFrames(skip + 1)
}

// captureFrames drops skip frames starting at its own caller.
func captureFrames(skip int) []Frame {
	pc := make([]uintptr, maxCaptureDepth)
	n := runtime.Callers(skip+2, pc)
	if n <= 0 {
		return nil
	}
	iter := runtime.CallersFrames(pc[:n])
	out := make([]Frame, 0, n)
	for {
		fr, more := iter.Next()
		f := Frame{Function: fr.Function, File: fr.File, Line: fr.Line}
		if f.Function == "" {
			f.Function = "unknown"
			f.Native = true
		}
		out = append(out, f)
		if !more {
			break
		}
	}
	return out
}
