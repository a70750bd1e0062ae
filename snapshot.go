package stitch

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotSchemaVersion invalidates decoded payloads when the snapshot
// format changes. Increment on any change to the payload types below.
const snapshotSchemaVersion uint16 = 1

// Snapshot is the out-of-process form of a stitched trace.
type Snapshot struct {
	Message string
	Trace   *Trace
}

type snapshotPayload struct {
	Schema   uint16
	Message  string
	Segments []snapshotSegment
}

type snapshotSegment struct {
	Label  string
	Frames []snapshotFrame
}

type snapshotFrame struct {
	Function string
	File     string
	Line     uint32
	Native   bool
}

// Snapshot encodes the error's continuable trace as a schema-versioned
// msgpack payload suitable for shipping to another process.
func (e *Error) Snapshot() ([]byte, error) {
	tr := e.Trace()
	payload := snapshotPayload{
		Schema:  snapshotSchemaVersion,
		Message: e.msg,
	}
	for _, seg := range tr.Segments {
		out := snapshotSegment{Label: seg.Label}
		for _, f := range seg.Frames {
			line, err := safecast.Conv[uint32](f.Line)
			if err != nil {
				line = 0
			}
			out.Frames = append(out.Frames, snapshotFrame{
				Function: f.Function,
				File:     f.File,
				Line:     line,
				Native:   f.Native,
			})
		}
		payload.Segments = append(payload.Segments, out)
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode trace snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot decodes a payload produced by Snapshot. Payloads
// written under a different schema version are rejected.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var payload snapshotPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode trace snapshot: %w", err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("trace snapshot schema mismatch: want %d, got %d", snapshotSchemaVersion, payload.Schema)
	}
	snap := &Snapshot{Message: payload.Message, Trace: &Trace{}}
	for _, seg := range payload.Segments {
		out := Segment{Label: seg.Label}
		for _, f := range seg.Frames {
			line, err := safecast.Conv[int](f.Line)
			if err != nil {
				line = 0
			}
			out.Frames = append(out.Frames, Frame{
				Function: f.Function,
				File:     f.File,
				Line:     line,
				Native:   f.Native,
			})
		}
		snap.Trace.Segments = append(snap.Trace.Segments, out)
	}
	return snap, nil
}
