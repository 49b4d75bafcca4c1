package wx

import "time"

// ProcessingLayer tags which storage tier a report is destined for.
type ProcessingLayer string

const (
	// SpeedLayer holds the most recent reports for low-latency reads.
	SpeedLayer ProcessingLayer = "SPEED_LAYER"
	// BatchLayer is the historical warehouse tier.
	BatchLayer ProcessingLayer = "BATCH_LAYER"
	// ServingLayer is the merged query tier.
	ServingLayer ProcessingLayer = "SERVING_LAYER"
	// RawLayer marks verbatim upstream payloads awaiting processing.
	RawLayer ProcessingLayer = "RAW"
)

// Valid reports whether l is one of the known layer values.
func (l ProcessingLayer) Valid() bool {
	switch l {
	case SpeedLayer, BatchLayer, ServingLayer, RawLayer:
		return true
	}
	return false
}

func (l ProcessingLayer) String() string { return string(l) }

// Retention returns the retention window for the layer and whether the
// window is bounded. Batch and serving retain indefinitely; raw data is
// not retained once processed.
func (l ProcessingLayer) Retention() (time.Duration, bool) {
	switch l {
	case SpeedLayer:
		return 24 * time.Hour, true
	case RawLayer:
		return 0, true
	default:
		return 0, false
	}
}
