package stitch

import (
	"strings"
	"testing"
)

// fanOut builds the branching scenario: one wrapped parent schedules
// two independently wrapped callbacks; both are invoked and both fail.
func fanOut(t *testing.T, cfg Config) (*Tracer, error, error) {
	t.Helper()
	sc := &scriptCapture{stacks: [][]Frame{
		{fr("app.main", 1)},   // parent wrap
		{fr("app.spawn", 10)}, // first child wrap
		{fr("app.spawn", 12)}, // second child wrap
		{fr("app.fail", 30)},  // first error
		{fr("app.crash", 40)}, // second error
	}}
	cfg.Capture = sc.capture
	tr := NewTracer(cfg)
	var errX, errY error
	var cx, cy func()
	parent := tr.Wrap(func() {
		cx = tr.Wrap(func() { errX = tr.New("x failed") }, WithVia("via sleep"))
		cy = tr.Wrap(func() { errY = tr.New("y failed") }, WithVia("via timer event"))
	}, WithVia("via callback"))
	parent()
	cx()
	cy()
	return tr, errX, errY
}

func TestBranchingSharedParentOncePerTrace(t *testing.T) {
	_, errX, errY := fanOut(t, Config{})
	for _, err := range []error{errX, errY} {
		e := asStitch(t, err)
		segs := e.Trace().Segments
		if len(segs) != 3 {
			t.Fatalf("segment count mismatch: want 3, got %d", len(segs))
		}
		if n := strings.Count(e.Stack(), "app.main"); n != 1 {
			t.Fatalf("shared parent segment duplicated: %d occurrences", n)
		}
	}
	x := asStitch(t, errX)
	y := asStitch(t, errY)
	if x.cont.parent != y.cont.parent || x.cont.parent == nil {
		t.Fatalf("children do not share one parent node")
	}
	if x.cont == y.cont {
		t.Fatalf("independent wraps must own distinct nodes")
	}
}

func TestMergeTreeFanOut(t *testing.T) {
	tr, errX, errY := fanOut(t, Config{})
	got := tr.MergeTree(errX, errY)
	want := strings.Join([]string{
		"app.main",
		"\t/src/app.go:1",
		"  via callback:",
		"  app.spawn",
		"  \t/src/app.go:10",
		"    via sleep:",
		"    error: x failed",
		"    app.fail",
		"    \t/src/app.go:30",
		"  via callback:",
		"  app.spawn",
		"  \t/src/app.go:12",
		"    via timer event:",
		"    error: y failed",
		"    app.crash",
		"    \t/src/app.go:40",
	}, "\n")
	if got != want {
		t.Fatalf("merge tree mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
	if n := strings.Count(got, "app.main"); n != 1 {
		t.Fatalf("shared ancestor rendered %d times, want 1", n)
	}
}

func TestMergeTreeSkipsPlainErrors(t *testing.T) {
	stack := []Frame{fr("app.fail", 1)}
	sc := &scriptCapture{stacks: [][]Frame{stack}}
	tr := NewTracer(Config{Capture: sc.capture})
	got := tr.MergeTree(tr.New("boom"), nil, errPlain)
	want := strings.Join([]string{
		"error: boom",
		"app.fail",
		"\t/src/app.go:1",
	}, "\n")
	if got != want {
		t.Fatalf("merge tree mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}
