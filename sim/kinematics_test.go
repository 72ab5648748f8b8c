package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceAtTime(t *testing.T) {
	splits := []float64{0, 30, 62, 95, 130}

	t.Run("should clamp before the gun and after the finish", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceAtTime(splits, 800, -5))
		assert.Equal(t, 0.0, DistanceAtTime(splits, 800, 0))
		assert.Equal(t, 800.0, DistanceAtTime(splits, 800, 130))
		assert.Equal(t, 800.0, DistanceAtTime(splits, 800, 500))
	})

	t.Run("should hit every split exactly", func(t *testing.T) {
		for i, s := range splits {
			assert.InDelta(t, float64(i)*200, DistanceAtTime(splits, 800, s), 1e-9, "split %d", i)
		}
	})

	t.Run("should interpolate linearly inside a segment", func(t *testing.T) {
		assert.InDelta(t, 100.0, DistanceAtTime(splits, 800, 15), 1e-9)
		assert.InDelta(t, 300.0, DistanceAtTime(splits, 800, 46), 1e-9)
	})

	t.Run("should never decrease", func(t *testing.T) {
		prev := -1.0
		for tm := -2.0; tm < 140; tm += 0.37 {
			d := DistanceAtTime(splits, 800, tm)
			assert.GreaterOrEqual(t, d, prev)
			prev = d
		}
	})

	t.Run("should return zero for degenerate splits", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceAtTime([]float64{0}, 800, 10))
		assert.Equal(t, 0.0, DistanceAtTime(nil, 800, 10))
	})

	t.Run("should place two finishers", func(t *testing.T) {
		a := []float64{0, 50}
		b := []float64{0, 40}
		assert.InDelta(t, 720.0, DistanceAtTime(a, 800, 45), 1e-9)
		assert.Equal(t, 800.0, DistanceAtTime(b, 800, 45))
	})
}

func TestTimeAtDistance(t *testing.T) {
	splits := []float64{0, 30, 62, 95, 130}

	t.Run("should clamp outside the race", func(t *testing.T) {
		assert.Equal(t, 0.0, TimeAtDistance(splits, 800, -10))
		assert.Equal(t, 0.0, TimeAtDistance(splits, 800, 0))
		assert.Equal(t, 130.0, TimeAtDistance(splits, 800, 800))
		assert.Equal(t, 130.0, TimeAtDistance(splits, 800, 1000))
	})

	t.Run("should invert DistanceAtTime", func(t *testing.T) {
		for d := 5.0; d < 800; d += 17.5 {
			tm := TimeAtDistance(splits, 800, d)
			assert.InDelta(t, d, DistanceAtTime(splits, 800, tm), 1e-6, "distance %v", d)
		}
	})

	t.Run("should land on split boundaries", func(t *testing.T) {
		assert.InDelta(t, 62.0, TimeAtDistance(splits, 800, 400), 1e-9)
		assert.InDelta(t, 46.0, TimeAtDistance(splits, 800, 300), 1e-9)
	})
}
