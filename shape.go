package stitch

import (
	"fmt"
	"strings"
)

// Shape selects the rendered form of a stitched trace.
type Shape uint8

const (
	// ShapeNormal renders a single flat sequence: own frames, via
	// marker, parent frames, via marker, and so on.
	ShapeNormal Shape = iota
	// ShapeTree renders with increasing indentation per hop; fan-out
	// from a shared continuation groups under one ancestor, see
	// Tracer.MergeTree.
	ShapeTree
	// ShapeContinuable marks the trace for structured consumption via
	// (*Error).Trace; its text form falls back to the normal shape.
	ShapeContinuable
)

// String returns the string representation of Shape.
func (s Shape) String() string {
	switch s {
	case ShapeNormal:
		return "normal"
	case ShapeTree:
		return "tree"
	case ShapeContinuable:
		return "continuable"
	default:
		return "unknown"
	}
}

// ParseShape converts a string to a Shape. Unrecognized values fall
// back to ShapeNormal alongside the error.
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(s) {
	case "normal":
		return ShapeNormal, nil
	case "tree":
		return ShapeTree, nil
	case "continuable":
		return ShapeContinuable, nil
	default:
		return ShapeNormal, fmt.Errorf("invalid trace shape: %q (expected: normal|tree|continuable)", s)
	}
}
