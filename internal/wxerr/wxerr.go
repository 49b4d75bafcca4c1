// Package wxerr defines the typed failure modes of the ingestion pipeline.
//
// Every failure that crosses a component boundary is an *Error carrying a
// Kind, an optional station identifier, and an optional wrapped cause.
// Callers branch on Kind, never on error strings.
package wxerr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind uint8

const (
	// KindUnknown is the classification for errors that did not originate here.
	KindUnknown Kind = iota

	// KindInvalidStationCode: a malformed station identifier rejected at the boundary.
	KindInvalidStationCode

	// KindInvalidData: a fetched record is missing a required field.
	KindInvalidData

	// KindNoData: upstream returned an empty result for a valid station.
	KindNoData

	// KindNetwork: transport failure, non-2xx response, or malformed body.
	KindNetwork

	// KindTimeout: deadline exceeded or the call was interrupted.
	KindTimeout

	// KindStorage: the object store rejected or failed an upload.
	KindStorage

	// KindParse: raw report text could not be decoded.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindInvalidStationCode:
		return "invalid_station_code"
	case KindInvalidData:
		return "invalid_data"
	case KindNoData:
		return "no_data"
	case KindNetwork:
		return "network_error"
	case KindTimeout:
		return "timeout"
	case KindStorage:
		return "storage_error"
	case KindParse:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Error is a classified ingestion failure.
type Error struct {
	Kind    Kind
	Station string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Station != "" {
		fmt.Fprintf(&b, " [%s]", e.Station)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the cause for errors.Is/errors.As traversal.
func (e *Error) Unwrap() error { return e.Err }

// WithStation returns a copy of e with the station identifier attached.
func (e *Error) WithStation(station string) *Error {
	dup := *e
	dup.Station = station
	return &dup
}

// New builds an *Error of kind k with a plain message.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Message: msg}
}

// Newf builds an *Error of kind k with a formatted message.
func Newf(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of kind k chaining cause.
func Wrap(k Kind, cause error, msg string) *Error {
	return &Error{Kind: k, Message: msg, Err: cause}
}

// Wrapf builds an *Error of kind k with a formatted message, chaining cause.
func Wrapf(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Err: cause}
}

// InvalidStationCode marks a station identifier that is not 3-4 ASCII letters.
func InvalidStationCode(code string) *Error {
	return &Error{Kind: KindInvalidStationCode, Station: code, Message: fmt.Sprintf("invalid station code %q", code)}
}

// InvalidData marks a record failing validation for the named station.
func InvalidData(station, msg string) *Error {
	return &Error{Kind: KindInvalidData, Station: station, Message: msg}
}

// NoData marks an empty upstream result for the named station.
func NoData(station string) *Error {
	return &Error{Kind: KindNoData, Station: station, Message: "no reports returned"}
}

// KindOf returns the Kind of err, walking the wrap chain; KindUnknown when
// no *Error is found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries an *Error of kind k anywhere in its chain.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// StationOf returns the station identifier attached to err, or "".
func StationOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Station
	}
	return ""
}
