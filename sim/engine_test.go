package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackreplay/data"
	"trackreplay/model"
)

func TestEngineControls(t *testing.T) {
	t.Run("should jump to the countdown on first start", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		assert.Equal(t, 0.0, e.Snapshot().RaceTime)
		assert.False(t, e.Snapshot().Running)

		e.Start()
		s := e.Snapshot()
		assert.True(t, s.Running)
		assert.Equal(t, model.DefaultPreRaceStart, s.RaceTime)

		f := e.Tick(TickInput{Elapsed: time.Second, Speed: 1})
		assert.InDelta(t, -45.0, f.RaceTime, 1e-9)
		assert.Equal(t, 45, f.Countdown)
		assert.Equal(t, 1, f.Lap)
		require.NotNil(t, f.Commentary)
		assert.Equal(t, model.EventID(0), f.Commentary.EventID)
	})

	t.Run("should resume where it paused", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		e.Start()
		e.Tick(TickInput{Elapsed: 2 * time.Second})
		e.Pause()
		f := e.Tick(TickInput{Elapsed: 5 * time.Second})
		assert.False(t, f.Running)
		assert.InDelta(t, -44.0, f.RaceTime, 1e-9)

		e.Start()
		f = e.Tick(TickInput{Elapsed: time.Second})
		assert.InDelta(t, -43.0, f.RaceTime, 1e-9)
	})

	t.Run("should not dispatch commentary while paused", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		e.Start()
		e.Pause()
		f := e.Tick(TickInput{Elapsed: time.Second})
		assert.Nil(t, f.Commentary)
		assert.Equal(t, 22, e.Scheduler().PendingCount())
	})

	t.Run("should reset to a fresh state and keep the speed", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		e.SetSpeed(4)
		e.Start()
		for i := 0; i < 100; i++ {
			e.Tick(TickInput{Elapsed: 500 * time.Millisecond})
		}
		require.Less(t, e.Scheduler().PendingCount(), 22)

		e.Reset()
		s := e.Snapshot()
		assert.Equal(t, 0.0, s.RaceTime)
		assert.False(t, s.Running)
		assert.Empty(t, s.FinishOrder)
		assert.Nil(t, s.Focus)
		assert.Equal(t, 4.0, s.Speed)
		assert.Equal(t, 22, e.Scheduler().PendingCount())

		e.Start()
		assert.Equal(t, model.DefaultPreRaceStart, e.Snapshot().RaceTime)
		f := e.Tick(TickInput{})
		require.NotNil(t, f.Commentary)
		assert.Equal(t, model.EventID(0), f.Commentary.EventID)
	})

	t.Run("should clamp speed", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		e.SetSpeed(25)
		assert.Equal(t, MaxSpeed, e.Snapshot().Speed)
		e.SetSpeed(0.01)
		assert.Equal(t, MinSpeed, e.Snapshot().Speed)
		e.SetSpeed(-1)
		assert.Equal(t, 1.0, e.Snapshot().Speed)

		e.SetSpeed(3)
		f := e.Tick(TickInput{})
		assert.Equal(t, 3.0, f.Speed)
		f = e.Tick(TickInput{Speed: 2})
		assert.Equal(t, 2.0, f.Speed)
	})
}

func TestEngineTick(t *testing.T) {
	t.Run("should scale elapsed time by speed", func(t *testing.T) {
		e := NewEngine(newRace(t, &model.Race{}))
		e.Start()
		f := e.Tick(TickInput{Elapsed: time.Second, Speed: 4})
		assert.InDelta(t, 4.0, f.RaceTime, 1e-9)
	})

	t.Run("should not depend on tick size", func(t *testing.T) {
		race := newRace(t, &model.Race{})
		one := NewEngine(race)
		many := NewEngine(race)
		one.Start()
		many.Start()

		big := one.Tick(TickInput{Elapsed: 30 * time.Second, Speed: 2})
		var small Frame
		for i := 0; i < 600; i++ {
			small = many.Tick(TickInput{Elapsed: 50 * time.Millisecond, Speed: 2})
		}
		assert.InDelta(t, big.RaceTime, small.RaceTime, 1e-6)
		require.Len(t, small.Competitors, len(big.Competitors))
		for i := range big.Competitors {
			assert.InDelta(t, big.Competitors[i].Distance, small.Competitors[i].Distance, 1e-6)
		}
	})

	t.Run("should keep lanes on the track", func(t *testing.T) {
		e := NewEngine(data.DemoRace())
		e.SetSpeed(5)
		e.Start()
		for i := 0; i < 600; i++ {
			f := e.Tick(TickInput{Elapsed: 100 * time.Millisecond})
			for _, c := range f.Competitors {
				assert.GreaterOrEqual(t, c.Lane, 0)
				assert.LessOrEqual(t, c.Lane, 5)
			}
		}
	})

	t.Run("should stop when everyone has finished", func(t *testing.T) {
		e := NewEngine(newRace(t, &model.Race{}))
		e.Start()
		f := e.Tick(TickInput{Elapsed: 110 * time.Second})
		assert.False(t, f.AllFinished)
		assert.Equal(t, []int{1}, f.Finishers)
		assert.True(t, f.Competitors[0].Finished)

		f = e.Tick(TickInput{Elapsed: 20 * time.Second})
		assert.True(t, f.AllFinished)
		assert.False(t, f.Running)
		assert.Equal(t, []int{2}, f.Finishers)

		s := e.Snapshot()
		assert.True(t, s.Finished)
		assert.Equal(t, []int{1, 2}, s.FinishOrder)

		e.Start()
		assert.False(t, e.Snapshot().Running)
		f = e.Tick(TickInput{Elapsed: time.Second})
		assert.Empty(t, f.Finishers)
		assert.InDelta(t, 130.0, f.RaceTime, 1e-9)
	})

	t.Run("should order finishers crossing in the same tick by time", func(t *testing.T) {
		e := NewEngine(newRace(t, &model.Race{}))
		e.Start()
		f := e.Tick(TickInput{Elapsed: 200 * time.Second})
		assert.Equal(t, []int{1, 2}, f.Finishers)
	})

	t.Run("should report the leader and laps", func(t *testing.T) {
		e := NewEngine(newRace(t, &model.Race{}))
		e.Start()
		f := e.Tick(TickInput{Elapsed: 30 * time.Second})
		assert.Equal(t, 1, f.LeaderID)
		assert.InDelta(t, 240.0, f.LeaderDistance, 1e-9)
		assert.Equal(t, 2, f.Lap)
		assert.Equal(t, 4, f.Laps)
		assert.Equal(t, "0:30.00", f.Clock)
	})

	t.Run("should follow the subject of the last commentary", func(t *testing.T) {
		race := newRace(t, &model.Race{
			Catalog: []model.CatalogEntry{{ID: 0, Text: "two", SubjectID: intp(2)}},
			Globals: []model.GlobalEvent{{Kind: model.TriggerTime, Trigger: 1, EventID: 0}},
		})
		e := NewEngine(race)
		e.Start()
		f := e.Tick(TickInput{Elapsed: 2 * time.Second})
		require.NotNil(t, f.Focus)
		assert.Equal(t, 2, *f.Focus)

		f = e.Tick(TickInput{Elapsed: time.Second, Busy: true})
		require.NotNil(t, f.Focus)

		f = e.Tick(TickInput{Elapsed: time.Second})
		assert.Nil(t, f.Focus)
	})
}

func TestClampSpeed(t *testing.T) {
	assert.Equal(t, 1.0, ClampSpeed(0))
	assert.Equal(t, 0.5, ClampSpeed(0.5))
	assert.Equal(t, MaxSpeed, ClampSpeed(100))
}
