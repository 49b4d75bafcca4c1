// Package parser defines the seam to the coded-text parser. The parser
// itself is an external collaborator; the ingestion core consumes only
// this interface and treats parse failures as typed errors.
package parser

import (
	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

// Parser converts raw coded report text into a typed report.
type Parser interface {
	Parse(reportType wx.ReportType, rawText string) ParseResult
}

// ParseResult is the success/failure outcome of one parse. Exactly one of
// the two arms is populated; the zero value is a failure with no cause.
type ParseResult struct {
	report wx.Report
	err    error
}

// Success wraps a parsed report.
func Success(report wx.Report) ParseResult {
	return ParseResult{report: report}
}

// Failure wraps a parse failure, chaining the cause when there is one.
func Failure(message string, cause error) ParseResult {
	if cause != nil {
		return ParseResult{err: wxerr.Wrap(wxerr.KindParse, cause, message)}
	}
	return ParseResult{err: wxerr.New(wxerr.KindParse, message)}
}

// IsSuccess reports whether the parse produced a report.
func (r ParseResult) IsSuccess() bool { return r.report != nil }

// Map transforms a successful result; failures pass through unchanged.
func (r ParseResult) Map(fn func(wx.Report) wx.Report) ParseResult {
	if !r.IsSuccess() {
		return r
	}
	return Success(fn(r.report))
}

// IfSuccess runs fn on the report when the parse succeeded. Returns r for
// chaining.
func (r ParseResult) IfSuccess(fn func(wx.Report)) ParseResult {
	if r.IsSuccess() {
		fn(r.report)
	}
	return r
}

// IfFailure runs fn on the error when the parse failed. Returns r for
// chaining.
func (r ParseResult) IfFailure(fn func(error)) ParseResult {
	if !r.IsSuccess() {
		fn(r.Err())
	}
	return r
}

// OrElse returns the report, or def when the parse failed.
func (r ParseResult) OrElse(def wx.Report) wx.Report {
	if r.IsSuccess() {
		return r.report
	}
	return def
}

// Get unpacks the result as an ordinary Go pair.
func (r ParseResult) Get() (wx.Report, error) {
	if r.IsSuccess() {
		return r.report, nil
	}
	return nil, r.Err()
}

// Err returns the failure as a parse-kind error, or nil on success. A zero
// ParseResult yields a generic parse error rather than nil.
func (r ParseResult) Err() error {
	if r.IsSuccess() {
		return nil
	}
	if r.err == nil {
		return wxerr.New(wxerr.KindParse, "empty parse result")
	}
	return r.err
}
