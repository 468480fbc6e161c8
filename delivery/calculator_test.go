package delivery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	res Resolution
	err error
}

func (s stubResolver) Resolve(context.Context, string, string) (Resolution, error) {
	return s.res, s.err
}

var store = Point{Lat: 41.1579, Lon: -8.6291}

func TestCalculatorNearbyAddressIsFree(t *testing.T) {
	calc := NewCalculator(stubResolver{res: Resolution{
		Found: true, Point: Point{Lat: 41.16, Lon: -8.63}, DisplayName: "Porto",
	}}, store, DefaultFeePolicy())

	out, err := calc.Calculate(context.Background(), "4000-123", "Rua A")
	require.NoError(t, err)
	assert.True(t, out.Verified)
	assert.True(t, out.Available)
	assert.Equal(t, 0.0, out.Fee)
	require.NotNil(t, out.Address)
	assert.Equal(t, "Porto", out.Address.DisplayName)
}

func TestCalculatorFarAddressIsUnavailable(t *testing.T) {
	// Braga, ~50 km north.
	calc := NewCalculator(stubResolver{res: Resolution{
		Found: true, Point: Point{Lat: 41.5454, Lon: -8.4265},
	}}, store, DefaultFeePolicy())

	out, err := calc.Calculate(context.Background(), "4700-001", "")
	require.NoError(t, err)
	assert.True(t, out.Verified)
	assert.False(t, out.Available)
	assert.Greater(t, out.DistanceKm, 30.0)
}

func TestCalculatorUnresolvedAddress(t *testing.T) {
	calc := NewCalculator(stubResolver{res: Resolution{Reason: ReasonNotFound}}, store, DefaultFeePolicy())

	out, err := calc.Calculate(context.Background(), "4000-123", "")
	require.NoError(t, err)
	assert.False(t, out.Verified)
	assert.False(t, out.Available)
	assert.Equal(t, ReasonNotFound, out.Message)
	assert.Nil(t, out.Address)
}
