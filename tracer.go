package stitch

import (
	"fmt"
	"reflect"
)

// Tracer stitches continuation traces for callbacks wrapped through it.
//
// A Tracer is confined to a single logical thread of control (one event
// loop): the active-continuation slot is saved and restored around each
// wrapped invocation and is not synchronized. Use one Tracer per loop.
// Nodes are immutable after construction and safe to share between
// tracers and rendered errors.
type Tracer struct {
	cfg     Config
	active  *node
	nextSeq uint64
}

// NewTracer constructs a Tracer from cfg.
func NewTracer(cfg Config) *Tracer {
	return &Tracer{cfg: cfg}
}

// Enabled reports whether wrapping and error augmentation are active.
func (t *Tracer) Enabled() bool { return !t.cfg.Disabled }

// SetEnabled toggles wrapping and error augmentation. Callbacks wrapped
// while disabled stay passthrough.
func (t *Tracer) SetEnabled(enabled bool) { t.cfg.Disabled = !enabled }

// SetShape selects the rendered trace form for errors rendered from now
// on. Already cached renderings keep their shape.
func (t *Tracer) SetShape(shape Shape) { t.cfg.Shape = shape }

// SetFilter installs the render filter hook.
func (t *Tracer) SetFilter(hook FilterHook) { t.cfg.Filter = hook }

// WrapOption adjusts a single wrap call.
type WrapOption func(*wrapOptions)

type wrapOptions struct {
	preTrim     int
	preTrimSet  bool
	postTrim    int
	postTrimSet bool
	via         string
}

// WithPreTrim drops the first n frames of the wrap-time capture,
// removing caller-declared noise above the wrap call.
func WithPreTrim(n int) WrapOption {
	return func(o *wrapOptions) {
		o.preTrim = n
		o.preTrimSet = true
	}
}

// WithPostTrim drops the last n frames of the invocation-time capture:
// the scheduler plumbing between the host's dispatch and the callback's
// first line. It is only accepted together with an explicit WithPreTrim.
func WithPostTrim(n int) WrapOption {
	return func(o *wrapOptions) {
		o.postTrim = n
		o.postTrimSet = true
	}
}

// WithVia sets the boundary label, bypassing classification.
func WithVia(label string) WrapOption {
	return func(o *wrapOptions) {
		o.via = label
	}
}

// resolveOptions folds the options and fails fast on caller programming
// mistakes, per the wrap contract.
func resolveOptions(opts []WrapOption) wrapOptions {
	var o wrapOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.postTrimSet && !o.preTrimSet {
		panic(fmt.Errorf("stitch: WithPostTrim requires an explicit WithPreTrim"))
	}
	if o.preTrim < 0 || o.postTrim < 0 {
		panic(fmt.Errorf("stitch: negative trim depth (pre=%d, post=%d)", o.preTrim, o.postTrim))
	}
	return o
}

// Wrap returns a callback that re-establishes the continuation captured
// at this call for the duration of each invocation. Invoking the result
// multiple times re-pushes the same node; the chain does not grow.
//
// Wrapping an already wrapped callback nests another node. That is
// intentional (chains through multiple async layers), but wrapping the
// same logical boundary twice yields a redundant entry, and wrapping
// from inside the callback itself grows the chain by one node per
// invocation; see Config.MaxChainDepth.
func (t *Tracer) Wrap(fn func(), opts ...WrapOption) func() {
	if t.cfg.Disabled {
		return fn
	}
	o := resolveOptions(opts)
	n := t.newNode(t.capture(o.preTrim), o)
	return func() {
		t.run(n, fn)
	}
}

// WrapWith carries ctx as the callback's bound state. Plain scalars are
// rejected: a bare number or string in the ctx position almost always
// indicates a misplaced trim count.
func (t *Tracer) WrapWith(fn func(ctx any), ctx any, opts ...WrapOption) func() {
	if isScalar(ctx) {
		panic(fmt.Errorf("stitch: context must not be a plain scalar, got %T", ctx))
	}
	if t.cfg.Disabled {
		return func() { fn(ctx) }
	}
	o := resolveOptions(opts)
	n := t.newNode(t.capture(o.preTrim), o)
	return func() {
		t.run(n, func() { fn(ctx) })
	}
}

// Wrap1 is Wrap for callbacks taking one argument.
func Wrap1[A any](t *Tracer, fn func(A), opts ...WrapOption) func(A) {
	if t.cfg.Disabled {
		return fn
	}
	o := resolveOptions(opts)
	n := t.newNode(t.capture(o.preTrim), o)
	return func(a A) {
		t.run(n, func() { fn(a) })
	}
}

// Wrap2 is Wrap for callbacks taking two arguments.
func Wrap2[A, B any](t *Tracer, fn func(A, B), opts ...WrapOption) func(A, B) {
	if t.cfg.Disabled {
		return fn
	}
	o := resolveOptions(opts)
	n := t.newNode(t.capture(o.preTrim), o)
	return func(a A, b B) {
		t.run(n, func() { fn(a, b) })
	}
}

// run installs n as the active continuation for the duration of fn.
// Restoration is unconditional: a panicking callback does not corrupt
// the slot for subsequent unrelated invocations, and the panic resumes
// after the previous continuation is back in place.
func (t *Tracer) run(n *node, fn func()) {
	prev := t.active
	t.active = n
	defer func() { t.active = prev }()
	fn()
}

// capture obtains the current call chain with trim leading user frames
// removed. The default path hides the library's own two frames so the
// first frame is the caller of the exported entry point; every exported
// capture site must therefore call this method directly.
func (t *Tracer) capture(trim int) []Frame {
	if t.cfg.Capture != nil {
		return t.cfg.Capture(trim)
	}
	return captureFrames(trim + 2)
}

func (t *Tracer) classify(frames []Frame) string {
	if len(frames) == 0 {
		return "via callback"
	}
	cl := t.cfg.Classify
	if cl == nil {
		cl = ClassifyFrame
	}
	return cl(frames[0])
}

func (t *Tracer) newNode(frames []Frame, o wrapOptions) *node {
	via := o.via
	if via == "" {
		via = t.classify(frames)
	}
	t.nextSeq++
	return &node{
		frames:   frames,
		parent:   t.active,
		via:      via,
		postTrim: o.postTrim,
		seq:      t.nextSeq,
	}
}

// isScalar reports whether v is a plain scalar value, reserved for
// positional-parameter disambiguation and disallowed as wrap context.
func isScalar(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}
