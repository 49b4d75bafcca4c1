package parser

import (
	"errors"
	"testing"

	"github.com/skewt/avwxingest/internal/wx"
	"github.com/skewt/avwxingest/internal/wxerr"
)

func testReport(t *testing.T) *wx.NOAAReport {
	t.Helper()
	r, err := wx.NewNOAAReport(wx.ReportMETAR, "KJFK")
	if err != nil {
		t.Fatalf("NewNOAAReport: %v", err)
	}
	return r
}

func TestSuccessArm(t *testing.T) {
	report := testReport(t)
	res := Success(report)
	if !res.IsSuccess() {
		t.Fatal("Success result not successful")
	}
	got, err := res.Get()
	if err != nil || got != wx.Report(report) {
		t.Errorf("Get() = %v, %v", got, err)
	}
	if res.Err() != nil {
		t.Errorf("Err() = %v on success", res.Err())
	}

	var sawSuccess, sawFailure bool
	res.IfSuccess(func(wx.Report) { sawSuccess = true }).
		IfFailure(func(error) { sawFailure = true })
	if !sawSuccess || sawFailure {
		t.Errorf("callbacks: success=%v failure=%v", sawSuccess, sawFailure)
	}
}

func TestFailureArm(t *testing.T) {
	cause := errors.New("unexpected token at position 12")
	res := Failure("malformed METAR group", cause)
	if res.IsSuccess() {
		t.Fatal("Failure result reports success")
	}
	_, err := res.Get()
	if err == nil {
		t.Fatal("Get() returned nil error on failure")
	}
	if !wxerr.IsKind(err, wxerr.KindParse) {
		t.Errorf("error kind = %v, want parse_error", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not chained")
	}

	var sawFailure bool
	res.IfFailure(func(error) { sawFailure = true })
	if !sawFailure {
		t.Error("IfFailure not invoked")
	}
}

func TestFailureWithoutCause(t *testing.T) {
	res := Failure("empty input", nil)
	if _, err := res.Get(); err == nil || !wxerr.IsKind(err, wxerr.KindParse) {
		t.Errorf("Get() error = %v, want parse_error", err)
	}
}

func TestMapTransformsOnlySuccess(t *testing.T) {
	report := testReport(t)
	mapped := Success(report).Map(func(r wx.Report) wx.Report {
		r.Envelope().AddMetadata("mapped", true)
		return r
	})
	got, err := mapped.Get()
	if err != nil {
		t.Fatalf("Get() after Map: %v", err)
	}
	if v, ok := got.Envelope().Metadata("mapped"); !ok || v != true {
		t.Error("Map transform not applied")
	}

	var called bool
	failed := Failure("nope", nil).Map(func(r wx.Report) wx.Report {
		called = true
		return r
	})
	if called || failed.IsSuccess() {
		t.Error("Map ran on a failure")
	}
}

func TestOrElse(t *testing.T) {
	report := testReport(t)
	fallback := testReport(t)
	if got := Success(report).OrElse(fallback); got != wx.Report(report) {
		t.Error("OrElse replaced a successful report")
	}
	if got := Failure("bad", nil).OrElse(fallback); got != wx.Report(fallback) {
		t.Error("OrElse did not fall back")
	}
}

func TestZeroValueIsFailure(t *testing.T) {
	var res ParseResult
	if res.IsSuccess() {
		t.Fatal("zero ParseResult reports success")
	}
	if err := res.Err(); err == nil || !wxerr.IsKind(err, wxerr.KindParse) {
		t.Errorf("zero value Err() = %v", err)
	}
}
