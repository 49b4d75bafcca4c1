package wx

import "github.com/skewt/avwxingest/internal/wxerr"

// SkyCoverage is a coded cloud-coverage amount.
type SkyCoverage string

const (
	SkyClear      SkyCoverage = "SKC" // manual station, clear
	Clear         SkyCoverage = "CLR" // automated station, clear below 12000 ft
	NoSignificant SkyCoverage = "NSC" // no significant cloud
	Few           SkyCoverage = "FEW"
	Scattered     SkyCoverage = "SCT"
	Broken        SkyCoverage = "BKN"
	Overcast      SkyCoverage = "OVC"
	VerticalVis   SkyCoverage = "VV" // sky obscured, vertical visibility only
)

// Valid reports whether c is one of the known coverage codes.
func (c SkyCoverage) Valid() bool {
	switch c {
	case SkyClear, Clear, NoSignificant, Few, Scattered, Broken, Overcast, VerticalVis:
		return true
	}
	return false
}

// Oktas ranks the coverage in eighths of sky covered.
func (c SkyCoverage) Oktas() int {
	switch c {
	case Few:
		return 1
	case Scattered:
		return 3
	case Broken:
		return 5
	case Overcast, VerticalVis:
		return 8
	default:
		return 0
	}
}

// IsCeiling reports whether a layer with this coverage constitutes a
// ceiling (broken or worse, or sky obscured).
func (c SkyCoverage) IsCeiling() bool {
	switch c {
	case Broken, Overcast, VerticalVis:
		return true
	}
	return false
}

// CloudType is a significant convective cloud marker attached to a layer.
type CloudType string

const (
	Cumulonimbus    CloudType = "CB"
	ToweringCumulus CloudType = "TCU"
)

// SkyCondition is one cloud layer: coverage, optional base height, and an
// optional convective cloud type.
type SkyCondition struct {
	coverage   SkyCoverage
	heightFeet *int
	cloudType  CloudType
}

// NewSkyCondition validates and builds a cloud layer. Height, when
// present, is feet above ground level.
func NewSkyCondition(coverage SkyCoverage, heightFeet *int, cloudType CloudType) (SkyCondition, error) {
	if !coverage.Valid() {
		return SkyCondition{}, wxerr.Newf(wxerr.KindInvalidData, "unknown sky coverage %q", coverage)
	}
	if heightFeet != nil && *heightFeet < 0 {
		return SkyCondition{}, wxerr.Newf(wxerr.KindInvalidData, "negative cloud height %d ft", *heightFeet)
	}
	sc := SkyCondition{coverage: coverage, cloudType: cloudType}
	if heightFeet != nil {
		h := *heightFeet
		sc.heightFeet = &h
	}
	return sc, nil
}

func (s SkyCondition) Coverage() SkyCoverage { return s.coverage }

// HeightFeet returns the layer base when one was reported.
func (s SkyCondition) HeightFeet() (int, bool) {
	if s.heightFeet == nil {
		return 0, false
	}
	return *s.heightFeet, true
}

// CloudType returns the convective marker when one was reported.
func (s SkyCondition) CloudType() (CloudType, bool) {
	return s.cloudType, s.cloudType != ""
}
