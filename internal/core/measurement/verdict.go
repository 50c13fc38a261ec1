// Package measurement contains the pure rules of the hardware measurement
// protocol: channel plans, the session state machine and the pass/fail decision.
// This is part of the Functional Core - no I/O, only pure functions.
package measurement

import (
	"math"
	"strconv"
	"strings"

	"github.com/example/testhub/internal/core/report"
)

// MeasuredDecimals is the number of decimal places kept from a channel mean.
const MeasuredDecimals = 3

// Truncate drops digits beyond places decimal places, toward zero.
// Truncate(1.23456, 3) == 1.234 and Truncate(-1.23456, 3) == -1.234.
// It cuts the shortest decimal form of value, so Truncate(1.001, 3) stays
// 1.001 where scaling by 1000 would round down to 1.000.
func Truncate(value float64, places int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > places {
		s = strings.TrimSuffix(s[:dot+1+places], ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		factor := math.Pow(10, float64(places))
		return math.Trunc(value*factor) / factor
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Mean returns the arithmetic mean of samples and false when there are none.
func Mean(samples []float64) (float64, bool) {
	if len(samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples)), true
}

// PassFail returns Pass iff lo <= value <= hi. Both bounds are inclusive.
func PassFail(value, lo, hi float64) report.Status {
	if lo <= value && value <= hi {
		return report.Pass
	}
	return report.Fail
}

// Evaluate turns the samples acquired for a channel into its TestResult.
// A channel with no samples (e.g. an acquisition timeout) or a non-finite
// mean fails with a measured value of zero.
func Evaluate(ch Channel, samples []float64) report.TestResult {
	res := report.TestResult{
		TestNumber:  ch.TestNumber,
		Description: ch.Label,
		TargetValue: ch.Target,
		LowerLimit:  ch.Lower,
		UpperLimit:  ch.Upper,
		Conclusion:  report.Fail,
	}
	mean, ok := Mean(samples)
	if !ok || !Finite(mean) {
		return res
	}
	res.MeasuredValue = Truncate(mean, MeasuredDecimals)
	res.Conclusion = PassFail(res.MeasuredValue, ch.Lower, ch.Upper)
	return res
}

// Failed builds the Fail result recorded for a channel whose acquisition
// produced no samples.
func Failed(ch Channel) report.TestResult {
	return Evaluate(ch, nil)
}
