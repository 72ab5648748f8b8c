package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trackreplay/model"
)

func TestDemoRace(t *testing.T) {
	t.Run("should validate", func(t *testing.T) {
		r := DemoRace()
		require.NoError(t, r.Validate())
		assert.Len(t, r.Competitors, 11)
		assert.Len(t, r.Catalog, 22)
		assert.Equal(t, model.DefaultPreRaceStart, r.PreRaceStart)
	})

	t.Run("should highlight bib 10", func(t *testing.T) {
		c, ok := DemoRace().Highlighted()
		require.True(t, ok)
		assert.Equal(t, 10, c.Bib)
	})

	t.Run("should return independent copies", func(t *testing.T) {
		a, b := DemoRace(), DemoRace()
		a.Competitors[0].Splits[1] = 1
		assert.NotEqual(t, a.Competitors[0].Splits[1], b.Competitors[0].Splits[1])
	})
}
