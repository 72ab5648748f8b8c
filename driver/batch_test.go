package driver

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackreplay/data"
	"trackreplay/model"
	"trackreplay/sim"
)

func eventIDs(cs []sim.Commentary) []model.EventID {
	out := make([]model.EventID, len(cs))
	for i, c := range cs {
		out[i] = c.EventID
	}
	return out
}

func TestRun(t *testing.T) {
	t.Run("should play every event without audio gaps", func(t *testing.T) {
		race := data.DemoRace()
		sum, err := Run(race, Options{Speed: 4, Step: 50 * time.Millisecond})
		require.NoError(t, err)
		assert.True(t, sum.Completed)
		assert.Equal(t, 0, sum.Pending)
		assert.GreaterOrEqual(t, sum.RaceTime, 206.0)

		var want []model.EventID
		for _, e := range sim.NewScheduler(race).Timeline() {
			want = append(want, e.EventID)
		}
		assert.Equal(t, want, eventIDs(sum.Timeline))

		require.Len(t, sum.Results, 11)
		assert.Equal(t, 1, sum.Results[0].CompetitorID)
	})

	t.Run("should delay commentary while a clip plays", func(t *testing.T) {
		race := data.DemoRace()
		quiet, err := Run(race, Options{Speed: 4, Step: 50 * time.Millisecond})
		require.NoError(t, err)
		busy, err := Run(race, Options{Speed: 4, Step: 50 * time.Millisecond, SimulateAudio: true})
		require.NoError(t, err)

		assert.Less(t, len(busy.Timeline), len(quiet.Timeline))
		assert.Equal(t, len(quiet.Timeline)-len(busy.Timeline), busy.Pending)
		// second event waits for the intro clip to end
		require.GreaterOrEqual(t, len(busy.Timeline), 2)
		gap := busy.Timeline[1].RaceTime - busy.Timeline[0].RaceTime
		assert.GreaterOrEqual(t, gap, model.DefaultClipDuration*4-0.5)
	})

	t.Run("should fail when the tick limit is too low", func(t *testing.T) {
		_, err := Run(data.DemoRace(), Options{Speed: 1, MaxTicks: 10})
		assert.ErrorIs(t, err, ErrTickLimit)
	})

	t.Run("should reject an empty race", func(t *testing.T) {
		_, err := Run(&model.Race{}, Options{})
		assert.Error(t, err)
	})

	t.Run("should write a report", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Run(data.DemoRace(), Options{Speed: 10, Step: 100 * time.Millisecond, ReportPath: dir})
		require.NoError(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestRunSpeeds(t *testing.T) {
	t.Run("should keep the same order at every speed", func(t *testing.T) {
		sums, err := RunSpeeds(context.Background(), data.DemoRace(), []float64{1, 2, 4, 8}, Options{SimulateAudio: true})
		require.NoError(t, err)
		require.Len(t, sums, 4)
		for _, s := range sums {
			assert.True(t, s.Completed)
			assert.NotEmpty(t, s.Timeline)
			assert.Equal(t, model.EventID(0), s.Timeline[0].EventID)
		}
		assert.Equal(t, 8.0, sums[3].Speed)
	})

	t.Run("should stop on a cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := RunSpeeds(ctx, data.DemoRace(), []float64{1}, Options{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestConsistentOrder(t *testing.T) {
	mk := func(ids ...model.EventID) Summary {
		s := Summary{}
		for _, id := range ids {
			s.Timeline = append(s.Timeline, sim.Commentary{EventID: id})
		}
		return s
	}
	assert.NoError(t, ConsistentOrder(nil))
	assert.NoError(t, ConsistentOrder([]Summary{mk(0, 1, 2), mk(0, 1), mk()}))
	assert.Error(t, ConsistentOrder([]Summary{mk(0, 1, 2), mk(0, 2)}))
}
