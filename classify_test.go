package stitch

import "testing"

func TestClassifyFrame(t *testing.T) {
	cases := []struct {
		function string
		want     string
	}{
		{"time.Sleep", "via sleep"},
		{"main.sleepThenRetry", "via sleep"},
		{"time.AfterFunc", "via timer event"},
		{"stitch/internal/eventloop.(*Loop).After", "via timer event"},
		{"main.onTimerFired", "via timer event"},
		{"net/http.(*conn).serve", "via network event"},
		{"net.(*netFD).Read", "via network event"},
		{"internal/poll.(*FD).Read", "via network event"},
		{"main.main", "via callback"},
		{"", "via callback"},
	}
	for _, tc := range cases {
		if got := ClassifyFrame(Frame{Function: tc.function}); got != tc.want {
			t.Fatalf("classify %q: want %q, got %q", tc.function, tc.want, got)
		}
	}
}

func TestCustomClassifier(t *testing.T) {
	sc := &scriptCapture{stacks: [][]Frame{
		{fr("app.scheduler", 3)},
		{fr("app.boom", 9)},
	}}
	tr := NewTracer(Config{
		Capture:  sc.capture,
		Classify: func(f Frame) string { return "via " + f.Function },
	})
	var err error
	w := tr.Wrap(func() { err = tr.New("boom") })
	w()
	segs := asStitch(t, err).Trace().Segments
	if len(segs) != 2 {
		t.Fatalf("segment count mismatch: want 2, got %d", len(segs))
	}
	if segs[1].Label != "via app.scheduler" {
		t.Fatalf("label mismatch: want %q, got %q", "via app.scheduler", segs[1].Label)
	}
}
