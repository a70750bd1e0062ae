package stitch

// node records one wrap event: the frames captured at wrap time, the
// continuation active when the wrap occurred, and the label of the
// asynchronous boundary the wrapped callback crosses.
//
// Nodes are immutable after construction and may be shared: several
// nodes wrapped from the same continuation reference one parent, so the
// store is a tree rooted at "no continuation", not a list. Parent links
// always point at strictly older nodes, which makes chains acyclic by
// construction order alone.
type node struct {
	frames   []Frame
	parent   *node
	via      string
	postTrim int
	seq      uint64 // creation order, for deterministic sibling sort
}
