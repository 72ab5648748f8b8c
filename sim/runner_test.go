package sim

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackreplay/data"
	"trackreplay/model"
)

// clipControl goes busy whenever a commentary is dispatched and stays busy.
type clipControl struct {
	busy  atomic.Bool
	marks atomic.Int32
}

func (c *clipControl) Speed() float64           { return 5 }
func (c *clipControl) Busy() bool               { return c.busy.Load() }
func (c *clipControl) Commands() <-chan Command { return nil }
func (c *clipControl) MarkBusy(Commentary) {
	c.marks.Add(1)
	c.busy.Store(true)
}

func shortRace(t *testing.T) *model.Race {
	return newRace(t, &model.Race{
		Competitors: []model.Competitor{
			{ID: 1, Splits: []float64{0, 1, 2}},
			{ID: 2, Splits: []float64{0, 1.2, 2.5}},
		},
		Catalog: catalog(0, 1),
		Globals: []model.GlobalEvent{{Kind: model.TriggerTime, Trigger: 0, EventID: 0}},
		Checkpoints: map[int][]model.Checkpoint{
			2: {{Distance: 800, EventID: 1}},
		},
	})
}

func collect(t *testing.T, events <-chan Event, until func(Event) bool) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(10 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
			if until != nil && until(ev) {
				return out
			}
		case <-timeout:
			t.Fatalf("timed out after %d events", len(out))
			return out
		}
	}
}

func TestStartRunner(t *testing.T) {
	t.Run("should run a race to completion", func(t *testing.T) {
		eng := NewEngine(shortRace(t))
		events, stop, wait := StartRunner(eng, RunnerOptions{
			ConnID:        "test",
			FrameInterval: time.Millisecond,
			AutoStart:     true,
			ExitOnFinish:  true,
		}, StaticControl{SpeedMult: 5})
		defer stop()

		got := collect(t, events, nil)
		wait()

		require.NotEmpty(t, got)
		first, ok := got[0].(InitEvent)
		require.True(t, ok)
		assert.Equal(t, "test", first.ConnID)
		assert.Equal(t, 5.0, first.Speed)

		var finishes []FinishEvent
		var fired []model.EventID
		var done *DoneEvent
		for _, ev := range got {
			switch e := ev.(type) {
			case FinishEvent:
				finishes = append(finishes, e)
			case CommentaryEvent:
				fired = append(fired, e.Commentary.EventID)
			case DoneEvent:
				done = &e
			}
		}
		require.Len(t, finishes, 2)
		assert.Equal(t, 1, finishes[0].CompetitorID)
		assert.Equal(t, 1, finishes[0].Place)
		assert.Equal(t, 2, finishes[1].Place)
		assert.Equal(t, []model.EventID{0, 1}, fired)

		require.NotNil(t, done)
		assert.Equal(t, []int{1, 2}, done.FinishOrder)
		assert.Equal(t, 0, done.Pending)
		assert.Equal(t, fired, done.Fired)
		_, last := got[len(got)-1].(DoneEvent)
		assert.True(t, last)
	})

	t.Run("should apply commands between ticks", func(t *testing.T) {
		eng := NewEngine(shortRace(t))
		cmds := make(chan Command, 4)
		events, stop, wait := StartRunner(eng, RunnerOptions{FrameInterval: 5 * time.Millisecond}, StaticControl{SpeedMult: 1, Cmds: cmds})

		// idle frames until started
		f := collect(t, events, func(ev Event) bool { _, ok := ev.(FrameEvent); return ok })
		frame := f[len(f)-1].(FrameEvent).Frame
		assert.False(t, frame.Running)

		cmds <- Command{Kind: CmdStart}
		got := collect(t, events, func(ev Event) bool { _, ok := ev.(ControlEvent); return ok })
		ctl := got[len(got)-1].(ControlEvent)
		assert.Equal(t, CmdStart, ctl.Command.Kind)
		assert.True(t, ctl.Running)

		cmds <- Command{Kind: CmdPause}
		got = collect(t, events, func(ev Event) bool {
			c, ok := ev.(ControlEvent)
			return ok && c.Command.Kind == CmdPause
		})
		assert.False(t, got[len(got)-1].(ControlEvent).Running)

		stop()
		for range events {
		}
		wait()
	})

	t.Run("should hold further commentary once a clip is marked busy", func(t *testing.T) {
		race := newRace(t, &model.Race{
			Competitors: []model.Competitor{{ID: 1, Splits: []float64{0, 1, 2}}},
			Catalog:     catalog(0, 1),
			Globals:     []model.GlobalEvent{{Kind: model.TriggerDistance, Trigger: 400, EventID: 0}},
			Checkpoints: map[int][]model.Checkpoint{
				1: {{Distance: 400, EventID: 1}},
			},
		})
		ctrl := &clipControl{}
		events, stop, wait := StartRunner(NewEngine(race), RunnerOptions{
			FrameInterval: time.Millisecond,
			AutoStart:     true,
			ExitOnFinish:  true,
		}, ctrl)
		defer stop()

		got := collect(t, events, nil)
		wait()

		var fired []model.EventID
		var done *DoneEvent
		for _, ev := range got {
			switch e := ev.(type) {
			case CommentaryEvent:
				fired = append(fired, e.Commentary.EventID)
			case DoneEvent:
				done = &e
			}
		}
		assert.Equal(t, []model.EventID{0}, fired)
		assert.Equal(t, int32(1), ctrl.marks.Load())
		require.NotNil(t, done)
		assert.Equal(t, 1, done.Pending)
	})

	t.Run("should keep a queued speed change", func(t *testing.T) {
		cmds := make(chan Command, 1)
		events, stop, wait := StartRunner(NewEngine(data.DemoRace()), RunnerOptions{
			FrameInterval: 2 * time.Millisecond,
			AutoStart:     true,
		}, StaticControl{SpeedMult: 1, Cmds: cmds})

		cmds <- Command{Kind: CmdSetSpeed, Speed: 4}
		got := collect(t, events, func(ev Event) bool { _, ok := ev.(ControlEvent); return ok })
		assert.Equal(t, 4.0, got[len(got)-1].(ControlEvent).Speed)

		frames := 0
		collect(t, events, func(ev Event) bool {
			fe, ok := ev.(FrameEvent)
			if !ok {
				return false
			}
			assert.Equal(t, 4.0, fe.Frame.Speed)
			frames++
			return frames == 10
		})

		stop()
		for range events {
		}
		wait()
	})

	t.Run("should close the channel on stop", func(t *testing.T) {
		eng := NewEngine(shortRace(t))
		events, stop, wait := StartRunner(eng, RunnerOptions{FrameInterval: time.Millisecond}, nil)
		stop()
		collect(t, events, nil)
		wait()
	})
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("start", 0)
	require.NoError(t, err)
	assert.Equal(t, CmdStart, cmd.Kind)

	cmd, err = ParseCommand("speed", 50)
	require.NoError(t, err)
	assert.Equal(t, MaxSpeed, cmd.Speed)

	_, err = ParseCommand("speed", 0)
	assert.Error(t, err)
	_, err = ParseCommand("rewind", 0)
	assert.Error(t, err)
}
