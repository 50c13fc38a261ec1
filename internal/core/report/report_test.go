package report

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var fixedNow = time.Date(2024, 10, 3, 14, 5, 9, 0, time.UTC)

func result(n int, measured, lo, hi float64, c Status) TestResult {
	return TestResult{
		TestNumber:    n,
		Description:   "rail",
		TargetValue:   (lo + hi) / 2,
		LowerLimit:    lo,
		UpperLimit:    hi,
		MeasuredValue: measured,
		Conclusion:    c,
	}
}

func TestOverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		results []TestResult
		want    Status
	}{
		{"no results", nil, Pass},
		{"all pass", []TestResult{result(1, 0.3, 0.25, 0.4, Pass), result(2, 0.5, 0.4, 0.6, Pass)}, Pass},
		{"one fail", []TestResult{result(1, 0.3, 0.25, 0.4, Pass), result(2, 0.9, 0.4, 0.6, Fail)}, Fail},
		{"all fail", []TestResult{result(1, 0, 0.25, 0.4, Fail)}, Fail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverallStatus(tt.results); got != tt.want {
				t.Errorf("OverallStatus() = %v, want %v", got, tt.want)
			}
			r := NewTestReport(fixedNow, "x", tt.results)
			if r.OverallStatus != tt.want {
				t.Errorf("NewTestReport().OverallStatus = %v, want %v", r.OverallStatus, tt.want)
			}
		})
	}
}

func TestNewTestReport_Timestamp(t *testing.T) {
	r := NewTestReport(fixedNow, "camctrl-0002-a-0005", nil)
	if r.Timestamp != "20241003_140509" {
		t.Errorf("Timestamp = %q, want 20241003_140509", r.Timestamp)
	}
	if r.Barcode != "camctrl-0002-a-0005" {
		t.Errorf("Barcode = %q", r.Barcode)
	}
}

func TestAppendTestReport_AppendOnly(t *testing.T) {
	first := NewTestReport(fixedNow, "b", []TestResult{result(1, 0.3, 0.25, 0.4, Pass)})
	before := AppendTestReport(ReportFile{}, first)
	snapshot, err := json.Marshal(before)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	second := NewTestReport(fixedNow.Add(time.Minute), "b", []TestResult{result(1, 0.9, 0.25, 0.4, Fail)})
	after := AppendTestReport(before, second)

	if len(after.TestReports) != len(before.TestReports)+1 {
		t.Fatalf("expected %d reports, got %d", len(before.TestReports)+1, len(after.TestReports))
	}
	if diff := cmp.Diff(before.TestReports[0], after.TestReports[0]); diff != "" {
		t.Errorf("prior entry changed (-before +after):\n%s", diff)
	}
	again, _ := json.Marshal(before)
	if string(again) != string(snapshot) {
		t.Error("append mutated the input document")
	}
	if after.TestReports[1].OverallStatus != Fail {
		t.Errorf("expected appended report to be Fail")
	}
}

func TestReportFile_RoundTrip(t *testing.T) {
	doc := ReportFile{
		TestReports: []TestReport{
			NewTestReport(fixedNow, "camctrl-0002-a-0005", []TestResult{result(1, 0.312, 0.25, 0.4, Pass)}),
			NewTestReport(fixedNow.Add(time.Hour), "camctrl-0002-a-0005", []TestResult{result(1, 0.412, 0.25, 0.4, Fail)}),
		},
		RedTagMessages: []Annotation{
			{Timestamp: "20241003_150000", Source: SourceAssembly, Text: "Cracked connector"},
		},
		ProcessFlowMessages: []Annotation{
			{Timestamp: "20241003_150100", Text: "Conformal coat"},
			{Timestamp: "20241003_150200", Source: SourceEngineer, Text: "Rework R12"},
		},
		Images: map[string][]string{"20241003_140509": {"camctrl-0002-a-0005_1.png"}},
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got ReportFile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestAnnotation_LegacyKeys(t *testing.T) {
	data := []byte(`{
		"test_reports": [],
		"red_tag_messages": [{"timestamp": "20240101_000000", "red_tag_message": "bent pin"}],
		"process_flow_messages": [{"timestamp": "20240101_000001", "process_flow_message": "wash"}]
	}`)

	var doc ReportFile
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.RedTagMessages[0].Text != "bent pin" {
		t.Errorf("red tag text = %q", doc.RedTagMessages[0].Text)
	}
	if doc.ProcessFlowMessages[0].Text != "wash" {
		t.Errorf("process flow text = %q", doc.ProcessFlowMessages[0].Text)
	}
	if doc.RedTagMessages[0].Source != "" {
		t.Errorf("expected absent source, got %q", doc.RedTagMessages[0].Source)
	}
}

func TestAppendAnnotation(t *testing.T) {
	doc := Skeleton(fixedNow, "b")

	doc, err := AppendAnnotation(doc, RedTag, Annotation{Timestamp: "t1", Text: "short on C4"})
	if err != nil {
		t.Fatalf("AppendAnnotation failed: %v", err)
	}
	doc, err = AppendAnnotation(doc, ProcessFlow, Annotation{Timestamp: "t2", Source: SourceProduction, Text: "reflow"})
	if err != nil {
		t.Fatalf("AppendAnnotation failed: %v", err)
	}

	if len(doc.RedTagMessages) != 1 || len(doc.ProcessFlowMessages) != 1 {
		t.Fatalf("unexpected sublog sizes: %d red tag, %d flow", len(doc.RedTagMessages), len(doc.ProcessFlowMessages))
	}

	if _, err := AppendAnnotation(doc, Kind("bogus"), Annotation{}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestUpdateAnnotation(t *testing.T) {
	doc := Skeleton(fixedNow, "b")
	doc, _ = AppendAnnotation(doc, RedTag, Annotation{Timestamp: "t1", Source: SourceAssembly, Text: "first"})
	doc, _ = AppendAnnotation(doc, RedTag, Annotation{Timestamp: "t2", Text: "first"})

	updated, err := UpdateAnnotation(doc, RedTag, 1, "second")
	if err != nil {
		t.Fatalf("UpdateAnnotation failed: %v", err)
	}
	if updated.RedTagMessages[0].Text != "first" {
		t.Errorf("row 0 changed: %q", updated.RedTagMessages[0].Text)
	}
	if got := updated.RedTagMessages[1]; got.Text != "second" || got.Timestamp != "t2" {
		t.Errorf("row 1 = %+v", got)
	}
	if doc.RedTagMessages[1].Text != "first" {
		t.Error("update mutated the input document")
	}

	for _, idx := range []int{-1, 2} {
		if _, err := UpdateAnnotation(doc, RedTag, idx, "x"); !errors.Is(err, ErrAnnotationIndex) {
			t.Errorf("index %d: expected ErrAnnotationIndex, got %v", idx, err)
		}
	}
	if _, err := UpdateAnnotation(doc, ProcessFlow, 0, "x"); !errors.Is(err, ErrAnnotationIndex) {
		t.Errorf("empty sublog: expected ErrAnnotationIndex, got %v", err)
	}
}

func TestAttachImage(t *testing.T) {
	doc := Skeleton(fixedNow, "b")
	ts := doc.TestReports[0].Timestamp

	doc, err := AttachImage(doc, ts, "b_1.png")
	if err != nil {
		t.Fatalf("AttachImage failed: %v", err)
	}
	doc, _ = AttachImage(doc, ts, "b_2.png")
	if got := doc.Images[ts]; len(got) != 2 || got[1] != "b_2.png" {
		t.Errorf("images = %v", got)
	}

	if _, err := AttachImage(doc, "19990101_000000", "x.png"); !errors.Is(err, ErrUnknownReport) {
		t.Errorf("expected ErrUnknownReport, got %v", err)
	}
}

func TestSkeleton(t *testing.T) {
	doc := Skeleton(fixedNow, "camctrl-0002-a-0005")

	if len(doc.TestReports) != 1 {
		t.Fatalf("expected one placeholder report, got %d", len(doc.TestReports))
	}
	placeholder := doc.TestReports[0]
	if placeholder.OverallStatus != Fail {
		t.Errorf("placeholder status = %v, want Fail", placeholder.OverallStatus)
	}
	if OverallStatus(placeholder.TestResults) != placeholder.OverallStatus {
		t.Error("placeholder violates overall status aggregation")
	}
	if doc.RedTagMessages == nil || doc.ProcessFlowMessages == nil {
		t.Error("expected empty, non-nil annotation sublogs")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"redtag": RedTag, "red_tag": RedTag, "flow": ProcessFlow, "process-flow": ProcessFlow} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("note"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestLatest(t *testing.T) {
	if _, ok := (ReportFile{}).Latest(); ok {
		t.Error("expected no latest report on empty document")
	}
	doc := AppendTestReport(ReportFile{}, NewTestReport(fixedNow, "a", nil))
	doc = AppendTestReport(doc, NewTestReport(fixedNow, "b", []TestResult{result(1, 9, 0, 1, Fail)}))
	latest, ok := doc.Latest()
	if !ok || latest.Barcode != "b" {
		t.Errorf("Latest() = %+v, %v", latest, ok)
	}
}
