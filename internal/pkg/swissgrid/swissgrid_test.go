package swissgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToWGS84(t *testing.T) {
	t.Run("Bern origin LV03", func(t *testing.T) {
		lat, lon, _ := ToWGS84(600000, 200000, 0)
		assert.InDelta(t, 46.95108, lat, 0.0001)
		assert.InDelta(t, 7.43864, lon, 0.0001)
	})

	t.Run("LV95 equals LV03", func(t *testing.T) {
		lat03, lon03, ele03 := ToWGS84(600000, 200000, 500)
		lat95, lon95, ele95 := ToWGS84(2600000, 1200000, 500)
		assert.InDelta(t, lat03, lat95, 1e-9)
		assert.InDelta(t, lon03, lon95, 1e-9)
		assert.InDelta(t, ele03, ele95, 1e-9)
	})
}

func TestNormalize(t *testing.T) {
	e, n := Normalize(2600000, 1200000)
	assert.Equal(t, 600000.0, e)
	assert.Equal(t, 200000.0, n)

	e, n = Normalize(600000, 200000)
	assert.Equal(t, 600000.0, e)
	assert.Equal(t, 200000.0, n)
}
