package wx

import (
	"time"

	"github.com/google/uuid"
)

// WeatherData is the common envelope carried by every report regardless of
// source or type. ID and IngestionTime are assigned at construction and
// must not be reassigned afterwards; envelope identity is the ID alone.
type WeatherData struct {
	ID              uuid.UUID
	IngestionTime   time.Time
	Source          Source
	Layer           ProcessingLayer
	StationID       string
	ObservationTime time.Time
	Location        *GeoLocation
	RawData         string
	QualityFlags    string

	metadata map[string]interface{}
}

// NewWeatherData returns an envelope with a fresh random ID, the current
// UTC instant as ingestion time, and speed-layer defaults.
func NewWeatherData() WeatherData {
	return WeatherData{
		ID:            uuid.New(),
		IngestionTime: time.Now().UTC(),
		Source:        SourceUnknown,
		Layer:         SpeedLayer,
	}
}

// NewStationData returns an envelope for the given source and station. The
// station identifier is validated and normalized to uppercase.
func NewStationData(source Source, stationID string) (WeatherData, error) {
	id, err := NormalizeStationID(stationID)
	if err != nil {
		return WeatherData{}, err
	}
	w := NewWeatherData()
	w.Source = source
	w.StationID = id
	return w, nil
}

// Envelope returns the embedded envelope; it makes any report type usable
// where only envelope fields are needed.
func (w *WeatherData) Envelope() *WeatherData { return w }

// DataType is the serialization discriminator; envelope-only documents are
// test payloads.
func (w *WeatherData) DataType() string { return "TEST" }

// Equal compares envelopes by ID alone.
func (w *WeatherData) Equal(o *WeatherData) bool {
	if w == nil || o == nil {
		return w == o
	}
	return w.ID == o.ID
}

// AddMetadata records a key/value pair, lazily allocating the map.
func (w *WeatherData) AddMetadata(key string, value interface{}) {
	if w.metadata == nil {
		w.metadata = make(map[string]interface{})
	}
	w.metadata[key] = value
}

// Metadata returns the value stored under key.
func (w *WeatherData) Metadata(key string) (interface{}, bool) {
	v, ok := w.metadata[key]
	return v, ok
}

// MetadataLen returns the number of metadata entries without allocating.
func (w *WeatherData) MetadataLen() int { return len(w.metadata) }

// MetadataMap returns a copy of all metadata entries.
func (w *WeatherData) MetadataMap() map[string]interface{} {
	if len(w.metadata) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(w.metadata))
	for k, v := range w.metadata {
		out[k] = v
	}
	return out
}

// setMetadataMap replaces the metadata wholesale; used by the codec.
func (w *WeatherData) setMetadataMap(m map[string]interface{}) {
	if len(m) == 0 {
		w.metadata = nil
		return
	}
	w.metadata = make(map[string]interface{}, len(m))
	for k, v := range m {
		w.metadata[k] = v
	}
}
