package wx

import (
	"testing"

	"k8s.io/utils/ptr"
)

func TestNewWindValidation(t *testing.T) {
	tests := []struct {
		name      string
		direction *int
		speed     float64
		gust      *float64
		unit      SpeedUnit
		wantErr   bool
	}{
		{name: "steady wind", direction: ptr.To(240), speed: 12, unit: Knots},
		{name: "gusting", direction: ptr.To(180), speed: 15, gust: ptr.To(25.0), unit: Knots},
		{name: "direction zero", direction: ptr.To(0), speed: 5, unit: Knots},
		{name: "direction 359", direction: ptr.To(359), speed: 5, unit: Knots},
		{name: "calm", speed: 0, unit: Knots},
		{name: "variable", speed: 4, unit: Knots},
		{name: "metric units", direction: ptr.To(90), speed: 6, unit: MetersPerSecond},
		{name: "direction 360", direction: ptr.To(360), speed: 5, unit: Knots, wantErr: true},
		{name: "direction negative", direction: ptr.To(-1), speed: 5, unit: Knots, wantErr: true},
		{name: "negative speed", speed: -1, unit: Knots, wantErr: true},
		{name: "negative gust", direction: ptr.To(100), speed: 10, gust: ptr.To(-5.0), unit: Knots, wantErr: true},
		{name: "unknown unit", direction: ptr.To(100), speed: 10, unit: SpeedUnit("FURLONGS"), wantErr: true},
		{name: "empty unit", speed: 10, unit: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWind(tt.direction, tt.speed, tt.gust, tt.unit)
			if tt.wantErr {
				if err == nil {
					t.Fatal("invalid wind accepted")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewWind: %v", err)
			}
			if w.Speed() != tt.speed || w.Unit() != tt.unit {
				t.Errorf("got %v %s, want %v %s", w.Speed(), w.Unit(), tt.speed, tt.unit)
			}
		})
	}
}

func TestWindCalmAndVariable(t *testing.T) {
	calm, err := NewWind(nil, 0, nil, Knots)
	if err != nil {
		t.Fatalf("NewWind calm: %v", err)
	}
	if !calm.IsCalm() || calm.IsVariable() {
		t.Errorf("calm wind: IsCalm=%v IsVariable=%v, want true false", calm.IsCalm(), calm.IsVariable())
	}

	variable, err := NewWind(nil, 4, nil, Knots)
	if err != nil {
		t.Fatalf("NewWind variable: %v", err)
	}
	if variable.IsCalm() || !variable.IsVariable() {
		t.Errorf("variable wind: IsCalm=%v IsVariable=%v, want false true", variable.IsCalm(), variable.IsVariable())
	}

	steady, err := NewWind(ptr.To(240), 12, nil, Knots)
	if err != nil {
		t.Fatalf("NewWind steady: %v", err)
	}
	if steady.IsCalm() || steady.IsVariable() {
		t.Errorf("steady wind: IsCalm=%v IsVariable=%v, want false false", steady.IsCalm(), steady.IsVariable())
	}
}

func TestWindCopiesPointerArguments(t *testing.T) {
	dir := 240
	gust := 30.0
	w, err := NewWind(&dir, 18, &gust, Knots)
	if err != nil {
		t.Fatalf("NewWind: %v", err)
	}
	dir = 10
	gust = 5
	if d, _ := w.DirectionDegrees(); d != 240 {
		t.Errorf("direction mutated through caller pointer: got %d", d)
	}
	if g, _ := w.Gust(); g != 30 {
		t.Errorf("gust mutated through caller pointer: got %v", g)
	}
}
