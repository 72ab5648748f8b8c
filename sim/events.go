package sim

import (
	"time"

	"trackreplay/model"
)

// Event is a marker for all replay events emitted by Runner.
type Event interface{ isEvent() }

// InitEvent signals the start of a replay stream.
type InitEvent struct {
	Time        time.Time
	ConnID      string
	Race        string
	Competitors int
	Laps        int
	Speed       float64
}

func (InitEvent) isEvent() {}

// FrameEvent carries the frame produced by one tick.
type FrameEvent struct {
	Frame Frame
}

func (FrameEvent) isEvent() {}

// CommentaryEvent is emitted alongside the frame that dispatched it.
type CommentaryEvent struct {
	Commentary Commentary
}

func (CommentaryEvent) isEvent() {}

// FinishEvent indicates a competitor crossed the line.
type FinishEvent struct {
	CompetitorID int
	Place        int
	Time         float64
}

func (FinishEvent) isEvent() {}

// ControlEvent echoes an applied control command.
type ControlEvent struct {
	Command  Command
	RaceTime float64
	Speed    float64
	Running  bool
}

func (ControlEvent) isEvent() {}

// DoneEvent signals every competitor has finished.
type DoneEvent struct {
	RaceTime    float64
	Ticks       uint64
	FinishOrder []int
	Pending     int
	Fired       []model.EventID
}

func (DoneEvent) isEvent() {}
