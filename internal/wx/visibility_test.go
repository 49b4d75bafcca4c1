package wx

import (
	"math"
	"testing"
)

func TestVisibilityValidation(t *testing.T) {
	if _, err := NewVisibility(-1, StatuteMiles); err == nil {
		t.Error("negative distance accepted")
	}
	if _, err := NewVisibility(10, DistanceUnit("FATHOMS")); err == nil {
		t.Error("unknown unit accepted")
	}
	if _, err := NewVisibilityModified(1, StatuteMiles, true, true); err == nil {
		t.Error("both less-than and greater-than accepted")
	}
}

func TestVisibilityQualifiers(t *testing.T) {
	// "M1/4SM" and "P6SM" from coded reports.
	low, err := NewVisibilityModified(0.25, StatuteMiles, true, false)
	if err != nil {
		t.Fatalf("NewVisibilityModified: %v", err)
	}
	if !low.LessThan() || low.GreaterThan() {
		t.Error("less-than qualifier lost")
	}
	high, err := NewVisibilityModified(6, StatuteMiles, false, true)
	if err != nil {
		t.Fatalf("NewVisibilityModified: %v", err)
	}
	if high.LessThan() || !high.GreaterThan() {
		t.Error("greater-than qualifier lost")
	}
}

func TestInStatuteMiles(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		unit     DistanceUnit
		want     float64
	}{
		{name: "already statute miles", distance: 10, unit: StatuteMiles, want: 10},
		{name: "kilometers", distance: 1.609344, unit: Kilometers, want: 1},
		{name: "meters", distance: 1609.344, unit: Meters, want: 1},
		{name: "9999 meters", distance: 9999, unit: Meters, want: 6.2131},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVisibility(tt.distance, tt.unit)
			if err != nil {
				t.Fatalf("NewVisibility: %v", err)
			}
			if got := v.InStatuteMiles(); math.Abs(got-tt.want) > 0.001 {
				t.Errorf("InStatuteMiles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCAVOKImpliesTenKilometers(t *testing.T) {
	v := NewSpecialVisibility(VisibilityCAVOK)
	special, ok := v.Special()
	if !ok || special != VisibilityCAVOK {
		t.Fatalf("Special() = %v, %v, want CAVOK, true", special, ok)
	}
	if v.Distance() != 10 || v.Unit() != Kilometers || !v.GreaterThan() {
		t.Errorf("CAVOK visibility = %v %s greaterThan=%v, want 10 KM true", v.Distance(), v.Unit(), v.GreaterThan())
	}
}
