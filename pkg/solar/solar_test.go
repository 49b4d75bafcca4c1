package solar

import (
	"testing"
	"time"
)

func TestIsDaylight(t *testing.T) {
	tests := []struct {
		name      string
		when      time.Time
		latitude  float64
		longitude float64
		want      bool
	}{
		{
			name:      "equator at local noon",
			when:      time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC),
			latitude:  0.0,
			longitude: 0.0,
			want:      true,
		},
		{
			name:      "equator at local midnight",
			when:      time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
			latitude:  0.0,
			longitude: 0.0,
			want:      false,
		},
		{
			name:      "London summer noon",
			when:      time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC),
			latitude:  51.5,
			longitude: -0.1,
			want:      true,
		},
		{
			name:      "London summer 11 PM",
			when:      time.Date(2026, 6, 21, 23, 0, 0, 0, time.UTC),
			latitude:  51.5,
			longitude: -0.1,
			want:      false,
		},
		{
			name:      "Seattle winter morning before sunrise",
			when:      time.Date(2026, 12, 21, 14, 0, 0, 0, time.UTC), // 6:00 AM PST
			latitude:  47.6,
			longitude: -122.3,
			want:      false,
		},
		{
			name:      "Seattle winter noon",
			when:      time.Date(2026, 12, 21, 20, 0, 0, 0, time.UTC), // 12:00 PM PST
			latitude:  47.6,
			longitude: -122.3,
			want:      true,
		},
		{
			name:      "arctic summer midnight sun",
			when:      time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC),
			latitude:  70.0,
			longitude: 25.0,
			want:      true,
		},
		{
			name:      "arctic winter polar night at noon",
			when:      time.Date(2026, 12, 21, 11, 0, 0, 0, time.UTC),
			latitude:  70.0,
			longitude: 25.0,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsDaylight(tt.when, tt.latitude, tt.longitude)
			if got != tt.want {
				elev := ElevationDegrees(tt.when, tt.latitude, tt.longitude)
				t.Errorf("IsDaylight = %v (elevation %.1f deg), want %v", got, elev, tt.want)
			}
		})
	}
}

func TestElevationRoundTripsNoon(t *testing.T) {
	// At the March equinox the Sun stands near the zenith over the
	// equator at solar noon; elevation should be close to 90 degrees.
	noon := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	elev := ElevationDegrees(noon, 0, 0)
	if elev < 80 || elev > 90 {
		t.Errorf("equinox noon elevation = %.1f deg, want near 90", elev)
	}
}
