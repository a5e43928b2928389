package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	pairs := [][4]float64{
		{54.6872, 25.2797, 54.6989, 25.2599},
		{0, 0, 10, 10},
		{-33.8688, 151.2093, 48.8566, 2.3522},
	}
	for _, p := range pairs {
		ab := HaversineKm(p[0], p[1], p[2], p[3])
		ba := HaversineKm(p[2], p[3], p[0], p[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestHaversineZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(54.6872, 25.2797, 54.6872, 25.2797))
}

func TestEstimateTravelMinutes(t *testing.T) {
	// 5 km at walking speed (5 km/h) is one hour.
	assert.InDelta(t, 60.0, EstimateTravelMinutes(5, "walking"), 1e-9)
	// 40 km at driving speed (40 km/h) is one hour.
	assert.InDelta(t, 60.0, EstimateTravelMinutes(40, "driving"), 1e-9)
	// Unknown mode falls back to walking.
	assert.InDelta(t, EstimateTravelMinutes(3, "walking"), EstimateTravelMinutes(3, "hoverboard"), 1e-9)
}

func TestEstimateTravelMinutesMonotonic(t *testing.T) {
	for _, mode := range []string{"walking", "bicycling", "driving", "transit"} {
		prev := -1.0
		for km := 0.0; km <= 50; km += 0.5 {
			got := EstimateTravelMinutes(km, mode)
			assert.GreaterOrEqual(t, got, prev, "mode %s at %v km", mode, km)
			prev = got
		}
	}
}
