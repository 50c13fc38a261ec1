package measurement

import (
	"errors"
	"math"
	"testing"

	"github.com/example/testhub/internal/core/report"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		value  float64
		places int
		want   float64
	}{
		{1.23456, 3, 1.234},
		{-1.23456, 3, -1.234},
		{0.3999, 3, 0.399},
		{-0.0009, 3, 0},
		{2, 3, 2},
		{1.23456, 0, 1},
		{1.001, 3, 1.001},
		{0.29, 3, 0.29},
		{-2.0009, 3, -2},
		{0.6, 5, 0.6},
	}

	for _, tt := range tests {
		if got := Truncate(tt.value, tt.places); got != tt.want {
			t.Errorf("Truncate(%v, %d) = %v, want %v", tt.value, tt.places, got, tt.want)
		}
	}
}

func TestPassFail(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  report.Status
	}{
		{"inside", 0.3, report.Pass},
		{"lower bound inclusive", 0.25, report.Pass},
		{"upper bound inclusive", 0.4, report.Pass},
		{"below", 0.249, report.Fail},
		{"above", 0.401, report.Fail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PassFail(tt.value, 0.25, 0.4); got != tt.want {
				t.Errorf("PassFail(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMean(t *testing.T) {
	if _, ok := Mean(nil); ok {
		t.Error("expected no mean for empty samples")
	}
	got, ok := Mean([]float64{1, 2, 3, 4})
	if !ok || got != 2.5 {
		t.Errorf("Mean() = %v, %v", got, ok)
	}
}

func TestEvaluate(t *testing.T) {
	ch := Channel{Pin: 0, TestNumber: 1, Label: "SCL", Target: 0.35, Lower: 0.25, Upper: 0.4}

	res := Evaluate(ch, []float64{0.4000, 0.4009})
	if res.MeasuredValue != 0.4 {
		t.Errorf("MeasuredValue = %v, want truncated 0.4", res.MeasuredValue)
	}
	if res.Conclusion != report.Pass {
		t.Errorf("Conclusion = %v, want Pass (truncation keeps the mean on the bound)", res.Conclusion)
	}
	if res.TestNumber != 1 || res.Description != "SCL" || res.TargetValue != 0.35 {
		t.Errorf("channel metadata not carried: %+v", res)
	}

	failed := Failed(ch)
	if failed.Conclusion != report.Fail || failed.MeasuredValue != 0 {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestEvaluate_MeanOnDecimalLowerLimit(t *testing.T) {
	ch := Channel{TestNumber: 2, Label: "VDD", Target: 1.2, Lower: 1.001, Upper: 1.4}

	res := Evaluate(ch, []float64{1.001})
	if res.MeasuredValue != 1.001 || res.Conclusion != report.Pass {
		t.Errorf("Evaluate() = %+v, want 1.001 Pass", res)
	}
}

func TestEvaluate_NonFiniteMeanFails(t *testing.T) {
	ch := Channel{TestNumber: 1, Label: "SCL", Target: 0.35, Lower: 0.25, Upper: 0.4}

	for _, samples := range [][]float64{
		{0.35, math.NaN()},
		{math.Inf(1), 0.35},
		{math.Inf(1), math.Inf(-1)},
	} {
		res := Evaluate(ch, samples)
		if res.Conclusion != report.Fail || res.MeasuredValue != 0 {
			t.Errorf("Evaluate(%v) = %+v, want Fail with measured 0", samples, res)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to    State
		wantAllowed bool
	}{
		{StateIdle, StateConnecting, true},
		{StateConnecting, StateReady, true},
		{StateConnecting, StateAborted, true},
		{StateReady, StateInProgress, true},
		{StateInProgress, StatePass, true},
		{StateInProgress, StateFail, true},
		{StateIdle, StateInProgress, false},
		{StateInProgress, StateAborted, false},
		{StatePass, StateIdle, false},
		{StateAborted, StateReady, false},
	}

	for _, tt := range tests {
		result := CanTransition(tt.from, tt.to)
		if result.Allowed != tt.wantAllowed {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, result.Allowed, tt.wantAllowed)
		}
		if !tt.wantAllowed && result.Error() == nil {
			t.Errorf("CanTransition(%s, %s).Error() = nil, want error", tt.from, tt.to)
		}
	}
}

func TestBuiltinPlans(t *testing.T) {
	plans := BuiltinPlans()

	for _, board := range plans.Boards() {
		p, _ := plans.Lookup(board)
		if err := p.Validate(); err != nil {
			t.Errorf("builtin plan %s invalid: %v", board, err)
		}
		if p.SampleCount != DefaultSampleCount || p.SampleRate != DefaultSampleRate {
			t.Errorf("plan %s missing acquisition defaults", board)
		}
	}

	p, err := plans.Lookup("CAM_CTRLG4")
	if err != nil {
		t.Fatalf("Lookup is expected to ignore case: %v", err)
	}
	if len(p.Channels) != 4 || p.Channels[3].Pin != 5 {
		t.Errorf("unexpected cam_ctrlg4 channels: %+v", p.Channels)
	}
	if p.Indicators == nil {
		t.Error("expected cam_ctrlg4 to drive indicators")
	}

	if _, err := plans.Lookup("toaster"); !errors.Is(err, ErrNoPlan) {
		t.Errorf("expected ErrNoPlan, got %v", err)
	}
}

func TestPlanValidate(t *testing.T) {
	bad := Plan{Board: "x", Channels: []Channel{{TestNumber: 1, Lower: 2, Upper: 1, ScopeInput: 2}}}
	if err := bad.Validate(); err == nil {
		t.Error("expected inverted limits to be rejected")
	}
	if err := (Plan{Board: "x"}).Validate(); err == nil {
		t.Error("expected empty plan to be rejected")
	}
	noInput := Plan{Board: "x", Channels: []Channel{{TestNumber: 1}}}
	if err := noInput.WithDefaults().Validate(); err != nil {
		t.Errorf("expected defaults to fill scope input: %v", err)
	}
}

func TestPlanSetMerge(t *testing.T) {
	base := BuiltinPlans()
	override := PlanSet{"IMX2CC": {Board: "imx2cc", Channels: []Channel{{TestNumber: 1}}}}

	merged := base.Merge(override)
	p, err := merged.Lookup("imx2cc")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(p.Channels) != 1 {
		t.Errorf("expected override to replace imx2cc, got %d channels", len(p.Channels))
	}
	if len(base["imx2cc"].Channels) != 10 {
		t.Error("merge mutated the base set")
	}
}
