package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	porto := Point{Lat: 41.1579, Lon: -8.6291}
	lisbon := Point{Lat: 38.7223, Lon: -9.1393}

	assert.InDelta(t, 0, Distance(porto, porto), 1e-9)
	assert.InDelta(t, 274, Distance(porto, lisbon), 2)
	assert.InDelta(t, Distance(porto, lisbon), Distance(lisbon, porto), 1e-9)
}

func TestRoundDistance(t *testing.T) {
	assert.Equal(t, 9.0, RoundDistance(9.04))
	assert.Equal(t, 9.1, RoundDistance(9.06))
	assert.Equal(t, 15.3, RoundDistance(15.27))
}
