package sim

import (
	"fmt"
	"log"
	"sync"
	"time"

	"trackreplay/model"
)

// CommandKind names a control-surface action.
type CommandKind string

const (
	CmdStart    CommandKind = "start"
	CmdPause    CommandKind = "pause"
	CmdReset    CommandKind = "reset"
	CmdSetSpeed CommandKind = "speed"
)

// Command is applied by the runner between ticks.
type Command struct {
	Kind  CommandKind `json:"action"`
	Speed float64     `json:"speed,omitempty"`
}

// ParseCommand validates an action name coming from a client.
func ParseCommand(action string, speed float64) (Command, error) {
	switch k := CommandKind(action); k {
	case CmdStart, CmdPause, CmdReset:
		return Command{Kind: k}, nil
	case CmdSetSpeed:
		if speed <= 0 {
			return Command{}, fmt.Errorf("speed must be positive, got %v", speed)
		}
		return Command{Kind: k, Speed: ClampSpeed(speed)}, nil
	}
	return Command{}, fmt.Errorf("unknown action %q", action)
}

// Apply runs a command against the engine.
func (c Command) Apply(e *Engine) {
	switch c.Kind {
	case CmdStart:
		e.Start()
	case CmdPause:
		e.Pause()
	case CmdReset:
		e.Reset()
	case CmdSetSpeed:
		e.SetSpeed(c.Speed)
	}
}

// Control exposes per-connection tunables.
type Control interface {
	Speed() float64
	Busy() bool
	Commands() <-chan Command
}

// BusyMarker is implemented by controls whose output channel is occupied from
// the moment a commentary is dispatched. The runner calls MarkBusy in the same
// step, so the next tick is already suppressed; the client clears it when the
// clip ends.
type BusyMarker interface {
	MarkBusy(c Commentary)
}

// StaticControl implements Control with fixed values.
type StaticControl struct {
	SpeedMult float64
	Cmds      chan Command
}

func (s StaticControl) Speed() float64 {
	if s.SpeedMult <= 0 {
		return 1
	}
	return ClampSpeed(s.SpeedMult)
}
func (s StaticControl) Busy() bool               { return false }
func (s StaticControl) Commands() <-chan Command { return s.Cmds }

// RunnerOptions configures a streaming replay.
type RunnerOptions struct {
	ConnID        string
	FrameInterval time.Duration
	AutoStart     bool
	ExitOnFinish  bool
}

// DefaultFrameInterval approximates an animation frame.
const DefaultFrameInterval = time.Second / 60

// StartRunner drives the engine from a real-time ticker and emits events on the
// returned channel. Commands are applied between ticks, so a reset always
// completes before the next frame. Control.Speed is passed to the engine only
// when it changes, so a CmdSetSpeed command holds until the tunable moves. It returns a stop function to cancel, and a
// wait that blocks until the loop has exited.
func StartRunner(eng *Engine, opts RunnerOptions, ctrl Control) (events <-chan Event, stop func(), wait func()) {
	ch := make(chan Event, 256)
	var wg sync.WaitGroup
	stopCh := make(chan struct{})
	var stopOnce sync.Once
	stop = func() { stopOnce.Do(func() { close(stopCh) }) }
	wait = func() { wg.Wait() }

	interval := opts.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if ctrl == nil {
		ctrl = StaticControl{SpeedMult: 1}
	}

	emit := func(ev Event) bool {
		select {
		case ch <- ev:
			return true
		case <-stopCh:
			return false
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(ch)

		race := eng.Race()
		lastSpeed := ctrl.Speed()
		eng.SetSpeed(lastSpeed)
		marker, _ := ctrl.(BusyMarker)
		if !emit(InitEvent{Time: time.Now(), ConnID: opts.ConnID, Race: race.Name, Competitors: len(race.Competitors), Laps: eng.Track().Config().Laps(), Speed: eng.Snapshot().Speed}) {
			return
		}
		if opts.AutoStart {
			eng.Start()
		}
		log.Printf("runner: conn=%s started speed=%.2fx", opts.ConnID, eng.Snapshot().Speed)
		defer log.Printf("runner: conn=%s stopped", opts.ConnID)

		var fired []model.EventID
		publish := func(f Frame) bool {
			if !emit(FrameEvent{Frame: f}) {
				return false
			}
			if f.Commentary != nil {
				c := *f.Commentary
				fired = append(fired, c.EventID)
				if marker != nil {
					marker.MarkBusy(c)
				}
				log.Printf("commentary: conn=%s t=%.2f id=%d subject=%v", opts.ConnID, c.RaceTime, c.EventID, subjectString(c.SubjectID))
				if !emit(CommentaryEvent{Commentary: c}) {
					return false
				}
			}
			if len(f.Finishers) > 0 {
				order := eng.Snapshot().FinishOrder
				place := len(order) - len(f.Finishers)
				for _, id := range f.Finishers {
					place++
					c, _ := race.Competitor(id)
					if !emit(FinishEvent{CompetitorID: id, Place: place, Time: c.FinishTime()}) {
						return false
					}
				}
			}
			return true
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		last := time.Now()
		wasFinished := false
		for {
			select {
			case <-stopCh:
				return
			case cmd := <-ctrl.Commands():
				cmd.Apply(eng)
				snap := eng.Snapshot()
				if cmd.Kind == CmdReset {
					fired = nil
					wasFinished = false
				}
				if !emit(ControlEvent{Command: cmd, RaceTime: snap.RaceTime, Speed: snap.Speed, Running: snap.Running}) {
					return
				}
				// zero-length tick so clients redraw immediately
				if !publish(eng.Tick(TickInput{Busy: ctrl.Busy()})) {
					return
				}
				last = time.Now()
			case now := <-ticker.C:
				elapsed := now.Sub(last)
				last = now
				in := TickInput{Elapsed: elapsed, Busy: ctrl.Busy()}
				if sp := ctrl.Speed(); sp != lastSpeed {
					in.Speed = sp
					lastSpeed = sp
				}
				f := eng.Tick(in)
				if !publish(f) {
					return
				}
				snap := eng.Snapshot()
				if snap.Finished && !wasFinished {
					wasFinished = true
					done := DoneEvent{RaceTime: snap.RaceTime, Ticks: f.Seq, FinishOrder: snap.FinishOrder, Pending: eng.Scheduler().PendingCount(), Fired: append([]model.EventID(nil), fired...)}
					if !emit(done) {
						return
					}
					if opts.ExitOnFinish {
						return
					}
				}
			}
		}
	}()

	return ch, stop, wait
}

func subjectString(id *int) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}
