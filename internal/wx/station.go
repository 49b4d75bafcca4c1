package wx

import (
	"strings"

	"github.com/skewt/avwxingest/internal/wxerr"
)

// IsValidStationID reports whether id is an ICAO-style station identifier:
// 3-4 ASCII letters, case-insensitive.
func IsValidStationID(id string) bool {
	if len(id) < 3 || len(id) > 4 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

// NormalizeStationID validates id and returns its uppercase form.
func NormalizeStationID(id string) (string, error) {
	if !IsValidStationID(id) {
		return "", wxerr.InvalidStationCode(id)
	}
	return strings.ToUpper(id), nil
}
