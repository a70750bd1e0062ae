package stitch

import (
	"errors"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// truncatedMarker ends a trace whose continuation chain exceeded
// Config.MaxChainDepth.
const truncatedMarker = "trace truncated"

// Segment is one hop of a stitched trace: the frames owned by a single
// suspend/resume boundary, and the label of the asynchronous boundary
// below them.
type Segment struct {
	// Label is empty for the error's own segment.
	Label  string
	Frames []Frame

	node *node // identity for fan-out grouping; nil for own segments
}

// Trace is the structured (continuable) rendering: segments ordered
// innermost first.
type Trace struct {
	Segments []Segment
}

var (
	viaColor = color.New(color.FgYellow)
	errColor = color.New(color.FgRed)
)

// segments walks the continuation chain captured at construction and
// stitches the ordered segment list. Any inconsistency inside the walk
// degrades to the best available partial trace; a render fault never
// masks the original error.
func (e *Error) segments() (segs []Segment) {
	defer func() {
		if r := recover(); r != nil {
			segs = []Segment{{Frames: e.frames}}
		}
	}()
	segs = append(segs, Segment{Frames: e.frames})
	maxDepth := 0
	if e.tracer != nil {
		maxDepth = e.tracer.cfg.MaxChainDepth
	}
	depth := 0
	for n := e.cont; n != nil; n = n.parent {
		if maxDepth > 0 && depth >= maxDepth {
			segs = append(segs, Segment{Label: truncatedMarker})
			break
		}
		last := &segs[len(segs)-1]
		last.Frames = trimTail(last.Frames, n.postTrim)
		if len(n.frames) == 0 {
			// Capture failed at wrap time; nothing to show for this hop.
			continue
		}
		segs = append(segs, Segment{Label: n.via, Frames: n.frames, node: n})
		depth++
	}
	return segs
}

// trimTail drops the last n frames: the scheduler plumbing between the
// host's dispatch and the callback's first line. The input is never
// mutated, only resliced.
func trimTail(frames []Frame, n int) []Frame {
	if n <= 0 {
		return frames
	}
	if n >= len(frames) {
		return nil
	}
	return frames[:len(frames)-n]
}

func (e *Error) render() string {
	segs := e.segments()
	if len(segs) == 1 && len(segs[0].Frames) == 0 {
		// Introspection unavailable: the native error stands alone.
		return ""
	}
	shape := ShapeNormal
	var hook FilterHook
	useColor := false
	if e.tracer != nil {
		shape = e.tracer.cfg.Shape
		hook = e.tracer.cfg.Filter
		useColor = e.tracer.cfg.Color
	}
	var entries []string
	switch shape {
	case ShapeTree:
		entries = treeEntries(segs, useColor)
	default:
		// ShapeContinuable consumers read Trace(); its text form and
		// any unrecognized shape fall back to normal.
		entries = normalEntries(segs)
	}
	if hook != nil {
		hook(&entries)
	}
	return strings.Join(entries, "\n")
}

// normalEntries renders the flat shape: one entry per frame, one entry
// per via marker between segments.
func normalEntries(segs []Segment) []string {
	var entries []string
	for i, seg := range segs {
		if i > 0 {
			entries = append(entries, seg.Label+":")
		}
		for _, f := range seg.Frames {
			entries = append(entries, f.String())
		}
	}
	return entries
}

// treeEntries renders a single chain oldest-first, indenting one level
// per hop. The marker above a child's frames is the label of the
// boundary crossed out of the segment above it.
func treeEntries(segs []Segment, useColor bool) []string {
	var entries []string
	n := len(segs)
	for i := n - 1; i >= 0; i-- {
		indent := strings.Repeat("  ", n-1-i)
		if i < n-1 {
			entries = append(entries, indent+markerText(segs[i+1].Label, useColor))
		}
		for _, f := range segs[i].Frames {
			entries = append(entries, indentFrame(f, indent))
		}
	}
	return entries
}

func markerText(label string, useColor bool) string {
	if useColor {
		return viaColor.Sprint(label + ":")
	}
	return label + ":"
}

func errorText(msg string, useColor bool) string {
	if useColor {
		return errColor.Sprint("error: " + msg)
	}
	return "error: " + msg
}

// indentFrame indents both lines of a frame's text form.
func indentFrame(f Frame, indent string) string {
	lines := strings.Split(f.String(), "\n")
	for i := range lines {
		lines[i] = indent + lines[i]
	}
	return strings.Join(lines, "\n")
}

// postOf returns the post-trim owed by the node whose invocation
// produced the segment below it.
func postOf(n *node) int {
	if n == nil {
		return 0
	}
	return n.postTrim
}

// MergeTree renders several stitched errors as one branch-aware tree.
// Ancestors shared between errors appear exactly once; independent
// callbacks fanning out from the same continuation render as distinct
// children of that shared ancestor, in wrap order. Errors that carry no
// stitched trace are skipped.
func (t *Tracer) MergeTree(errs ...error) string {
	type leafEntry struct {
		msg    string
		frames []Frame
	}
	children := make(map[*node][]*node)
	leaves := make(map[*node][]leafEntry)
	inTree := make(map[*node]bool)
	var roots []*node
	var rootLeaves []leafEntry

	for _, err := range errs {
		var e *Error
		if !errors.As(err, &e) {
			continue
		}
		lf := leafEntry{msg: e.msg, frames: trimTail(e.frames, postOf(e.cont))}
		if e.cont == nil {
			rootLeaves = append(rootLeaves, lf)
		} else {
			leaves[e.cont] = append(leaves[e.cont], lf)
		}
		for n := e.cont; n != nil; n = n.parent {
			if inTree[n] {
				break // this ancestry is already registered
			}
			inTree[n] = true
			if n.parent == nil {
				roots = append(roots, n)
			} else {
				children[n.parent] = append(children[n.parent], n)
			}
		}
	}
	for _, kids := range children {
		sort.Slice(kids, func(i, j int) bool { return kids[i].seq < kids[j].seq })
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].seq < roots[j].seq })

	useColor := t != nil && t.cfg.Color
	var entries []string
	var walk func(n *node, depth int)
	walk = func(n *node, depth int) {
		indent := strings.Repeat("  ", depth)
		if n.parent != nil {
			entries = append(entries, indent+markerText(n.parent.via, useColor))
		}
		display := n.frames
		if n.parent != nil {
			display = trimTail(n.frames, n.parent.postTrim)
		}
		for _, f := range display {
			entries = append(entries, indentFrame(f, indent))
		}
		leafIndent := strings.Repeat("  ", depth+1)
		for _, lf := range leaves[n] {
			entries = append(entries, leafIndent+markerText(n.via, useColor))
			entries = append(entries, leafIndent+errorText(lf.msg, useColor))
			for _, f := range lf.frames {
				entries = append(entries, indentFrame(f, leafIndent))
			}
		}
		for _, child := range children[n] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	for _, lf := range rootLeaves {
		entries = append(entries, errorText(lf.msg, useColor))
		for _, f := range lf.frames {
			entries = append(entries, f.String())
		}
	}
	if t != nil && t.cfg.Filter != nil {
		t.cfg.Filter(&entries)
	}
	return strings.Join(entries, "\n")
}
