package stitch

import "strings"

// Classifier maps the frame enclosing a wrap call to a human-readable
// label describing how control crosses the asynchronous boundary.
type Classifier func(Frame) string

// viaTable lists known scheduling-primitive signatures, matched against
// the lowercased function name. First match wins.
var viaTable = []struct {
	match string
	label string
}{
	{"sleep", "via sleep"},
	{"eventloop", "via timer event"},
	{"time.", "via timer event"},
	{"timer", "via timer event"},
	{"ticker", "via timer event"},
	{"net/http", "via network event"},
	{"net.(", "via network event"},
	{"internal/poll", "via network event"},
}

// ClassifyFrame is the default Classifier. It is a best-effort
// convenience, not a correctness requirement: custom scheduling
// wrappers may misclassify and should install their own Classifier via
// Config.Classify, or pass WithVia per wrap.
func ClassifyFrame(f Frame) string {
	name := strings.ToLower(f.Function)
	for _, entry := range viaTable {
		if strings.Contains(name, entry.match) {
			return entry.label
		}
	}
	return "via callback"
}
