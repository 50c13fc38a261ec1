// Package report contains the per-board report document and the pure
// append rules that govern it.
// This is part of the Functional Core - no I/O, only pure functions.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"
)

// TimestampLayout is the YYYYMMDD_HHMMSS layout used for every timestamp in a report.
const TimestampLayout = "20060102_150405"

var (
	// ErrUnknownKind is returned for an annotation kind other than RedTag or ProcessFlow.
	ErrUnknownKind = errors.New("unknown annotation kind")
	// ErrAnnotationIndex is returned when an update targets a row that does not exist.
	ErrAnnotationIndex = errors.New("annotation index out of range")
	// ErrUnknownReport is returned when an image targets a test report timestamp that does not exist.
	ErrUnknownReport = errors.New("no test report with that timestamp")
)

// FormatTimestamp renders t in the report timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// Status is a Pass/Fail verdict.
type Status string

const (
	Pass Status = "Pass"
	Fail Status = "Fail"
)

// TestResult is the verdict for one channel of a measurement run.
type TestResult struct {
	TestNumber    int     `json:"test_number"`
	Description   string  `json:"description"`
	TargetValue   float64 `json:"target_value"`
	LowerLimit    float64 `json:"lower_limit"`
	UpperLimit    float64 `json:"upper_limit"`
	MeasuredValue float64 `json:"measured_value"`
	Conclusion    Status  `json:"conclusion"`
}

// TestReport is one completed measurement run. It is never mutated after creation.
type TestReport struct {
	Timestamp     string       `json:"timestamp"`
	Barcode       string       `json:"barcode"`
	OverallStatus Status       `json:"overall_status"`
	TestResults   []TestResult `json:"test_results"`
}

// OverallStatus aggregates results: Fail if any result failed, Pass otherwise.
func OverallStatus(results []TestResult) Status {
	for _, r := range results {
		if r.Conclusion == Fail {
			return Fail
		}
	}
	return Pass
}

// NewTestReport builds a report for the given results, deriving the overall status.
func NewTestReport(now time.Time, barcode string, results []TestResult) TestReport {
	copied := slices.Clone(results)
	if copied == nil {
		copied = []TestResult{}
	}
	return TestReport{
		Timestamp:     FormatTimestamp(now),
		Barcode:       barcode,
		OverallStatus: OverallStatus(results),
		TestResults:   copied,
	}
}

// Kind selects one of the two annotation sublogs.
type Kind string

const (
	RedTag      Kind = "red_tag"
	ProcessFlow Kind = "process_flow"
)

// ParseKind maps user input to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "redtag", "red-tag", "red_tag":
		return RedTag, nil
	case "flow", "process-flow", "process_flow", "processflow":
		return ProcessFlow, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Source names the department that entered an annotation.
type Source string

const (
	SourceProduction Source = "Production"
	SourceAssembly   Source = "Assembly"
	SourceEngineer   Source = "Engineer"
)

// ParseSource maps user input to a Source. Empty input yields an empty Source.
func ParseSource(s string) (Source, error) {
	switch s {
	case "":
		return "", nil
	case "production", "Production":
		return SourceProduction, nil
	case "assembly", "Assembly":
		return SourceAssembly, nil
	case "engineer", "Engineer":
		return SourceEngineer, nil
	}
	return "", fmt.Errorf("unknown annotation source %q", s)
}

// Annotation is one red-tag or process-flow entry.
type Annotation struct {
	Timestamp string `json:"timestamp"`
	Source    Source `json:"source,omitempty"`
	Text      string `json:"text"`
}

// UnmarshalJSON accepts the legacy per-kind text keys written by older stations.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp          string `json:"timestamp"`
		Source             Source `json:"source"`
		Text               string `json:"text"`
		RedTagMessage      string `json:"red_tag_message"`
		ProcessFlowMessage string `json:"process_flow_message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Timestamp = raw.Timestamp
	a.Source = raw.Source
	switch {
	case raw.Text != "":
		a.Text = raw.Text
	case raw.RedTagMessage != "":
		a.Text = raw.RedTagMessage
	default:
		a.Text = raw.ProcessFlowMessage
	}
	return nil
}

// ReportFile is the append-only document stored per board identity.
type ReportFile struct {
	TestReports         []TestReport        `json:"test_reports"`
	RedTagMessages      []Annotation        `json:"red_tag_messages"`
	ProcessFlowMessages []Annotation        `json:"process_flow_messages"`
	Images              map[string][]string `json:"images,omitempty"`
}

// Normalize replaces absent arrays with empty ones so the document always
// serializes every section.
func (f ReportFile) Normalize() ReportFile {
	if f.TestReports == nil {
		f.TestReports = []TestReport{}
	}
	if f.RedTagMessages == nil {
		f.RedTagMessages = []Annotation{}
	}
	if f.ProcessFlowMessages == nil {
		f.ProcessFlowMessages = []Annotation{}
	}
	return f
}

// Latest returns the most recently appended test report.
func (f ReportFile) Latest() (TestReport, bool) {
	if len(f.TestReports) == 0 {
		return TestReport{}, false
	}
	return f.TestReports[len(f.TestReports)-1], true
}

// Annotations returns the sublog for kind.
func (f ReportFile) Annotations(kind Kind) ([]Annotation, error) {
	switch kind {
	case RedTag:
		return f.RedTagMessages, nil
	case ProcessFlow:
		return f.ProcessFlowMessages, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// HasReport reports whether a test report with the given timestamp exists.
func (f ReportFile) HasReport(timestamp string) bool {
	for _, r := range f.TestReports {
		if r.Timestamp == timestamp {
			return true
		}
	}
	return false
}

// AppendTestReport returns a copy of f with r appended. Prior entries are untouched.
func AppendTestReport(f ReportFile, r TestReport) ReportFile {
	out := f.clone()
	out.TestReports = append(out.TestReports, r)
	return out
}

// AppendAnnotation returns a copy of f with a appended to the kind sublog.
func AppendAnnotation(f ReportFile, kind Kind, a Annotation) (ReportFile, error) {
	out := f.clone()
	switch kind {
	case RedTag:
		out.RedTagMessages = append(out.RedTagMessages, a)
	case ProcessFlow:
		out.ProcessFlowMessages = append(out.ProcessFlowMessages, a)
	default:
		return f, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return out, nil
}

// UpdateAnnotation returns a copy of f with the text of the annotation at
// row index replaced. Timestamp and source of the row are kept.
// Rows are addressed by position only; content matching is not supported.
func UpdateAnnotation(f ReportFile, kind Kind, index int, text string) (ReportFile, error) {
	rows, err := f.Annotations(kind)
	if err != nil {
		return f, err
	}
	if index < 0 || index >= len(rows) {
		return f, fmt.Errorf("%w: %d (have %d)", ErrAnnotationIndex, index, len(rows))
	}

	out := f.clone()
	switch kind {
	case RedTag:
		out.RedTagMessages[index].Text = text
	case ProcessFlow:
		out.ProcessFlowMessages[index].Text = text
	}
	return out, nil
}

// AttachImage returns a copy of f with filename recorded against the test
// report identified by timestamp.
func AttachImage(f ReportFile, timestamp, filename string) (ReportFile, error) {
	if !f.HasReport(timestamp) {
		return f, fmt.Errorf("%w: %s", ErrUnknownReport, timestamp)
	}
	out := f.clone()
	if out.Images == nil {
		out.Images = make(map[string][]string)
	}
	out.Images[timestamp] = append(out.Images[timestamp], filename)
	return out, nil
}

// PlaceholderDescription marks the result seeded into a skeleton document.
const PlaceholderDescription = "No test report found"

// Skeleton builds the document seeded by the explicit "no report found"
// recovery action: one Fail placeholder and empty annotation sublogs.
func Skeleton(now time.Time, barcode string) ReportFile {
	placeholder := TestResult{
		TestNumber:  0,
		Description: PlaceholderDescription,
		Conclusion:  Fail,
	}
	return ReportFile{
		TestReports:         []TestReport{NewTestReport(now, barcode, []TestResult{placeholder})},
		RedTagMessages:      []Annotation{},
		ProcessFlowMessages: []Annotation{},
	}
}

// clone copies the slices and map so appends never write into a caller's backing array.
func (f ReportFile) clone() ReportFile {
	out := ReportFile{
		TestReports:         slices.Clone(f.TestReports),
		RedTagMessages:      slices.Clone(f.RedTagMessages),
		ProcessFlowMessages: slices.Clone(f.ProcessFlowMessages),
	}
	if f.Images != nil {
		out.Images = make(map[string][]string, len(f.Images))
		for k, v := range f.Images {
			out.Images[k] = slices.Clone(v)
		}
	}
	return out.Normalize()
}
