// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// EventKind tells the host what the render path observed.
type EventKind uint8

const (
	// EventDone is posted once when a non-looping cursor reaches its end.
	EventDone EventKind = iota + 1
	// EventEndOfStream is posted once when a streamed source runs short.
	EventEndOfStream
)

func (k EventKind) String() string {
	switch k {
	case EventDone:
		return "done"
	case EventEndOfStream:
		return "end-of-stream"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// Event is a state change reported by the render path.
type Event struct {
	Kind EventKind
	// Position is the frame position when the event was posted.
	Position int
	// Err is the decoder error that ended a stream, nil for a clean EOF.
	Err error
	// Generation is the engine's Start count when the posting render began.
	// Events older than Engine.Generation describe a playback that was
	// restarted since.
	Generation uint64
}

const eventQueue = 8
