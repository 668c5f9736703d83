package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{"same point", 41.8781, -87.6298, 41.8781, -87.6298, 0, 0.001},
		{"chicago to new york", 41.8781, -87.6298, 40.7128, -74.0060, 1145, 10},
		{"equator degree", 0, 0, 0, 1, 111.19, 0.5},
		{"across prime meridian", 51.5074, -0.1278, 48.8566, 2.3522, 344, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}

func TestResolveCenterExplicitCoordinatesWin(t *testing.T) {
	lat, lng := 10.0, 20.0
	stop := Stop{City: "Chicago", Lat: &lat, Lng: &lng}

	c, ok := ResolveCenter(stop)
	require.True(t, ok)
	assert.Equal(t, Centroid{Lat: 10, Lng: 20}, c)
}

func TestResolveCenterGranularityOrder(t *testing.T) {
	// City beats state beats country.
	c, ok := ResolveCenter(Stop{City: "Chicago", State: "IL", Country: "US"})
	require.True(t, ok)
	assert.InDelta(t, 41.8781, c.Lat, 0.001)

	// Unknown city falls back to the state capital.
	c, ok = ResolveCenter(Stop{City: "Nowhereville", State: "IL", Country: "US"})
	require.True(t, ok)
	assert.InDelta(t, 39.7817, c.Lat, 0.001)

	// State-only stop.
	c, ok = ResolveCenter(Stop{State: "Texas"})
	require.True(t, ok)
	assert.InDelta(t, 30.2672, c.Lat, 0.001)

	// Country-only stop.
	c, ok = ResolveCenter(Stop{Country: "France"})
	require.True(t, ok)
	assert.InDelta(t, 48.8566, c.Lat, 0.001)

	// Region-only stop.
	c, ok = ResolveCenter(Stop{Region: "Midwest"})
	require.True(t, ok)
	assert.InDelta(t, 41.8781, c.Lat, 0.001)
}

func TestResolveCenterNormalizesNames(t *testing.T) {
	c, ok := ResolveCenter(Stop{City: "  CHICAGO  "})
	require.True(t, ok)
	assert.InDelta(t, 41.8781, c.Lat, 0.001)

	// Diacritics fold away.
	c, ok = ResolveCenter(Stop{City: "Zágreb"})
	require.True(t, ok)
	assert.InDelta(t, 45.8150, c.Lat, 0.001)

	// "St. Louis" matches the dotted-abbreviation entry.
	c, ok = ResolveCenter(Stop{City: "St. Louis"})
	require.True(t, ok)
	assert.InDelta(t, 38.6270, c.Lat, 0.001)
}

func TestResolveCenterUnknownPlace(t *testing.T) {
	_, ok := ResolveCenter(Stop{City: "Atlantis"})
	assert.False(t, ok)
}
