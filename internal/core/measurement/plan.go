package measurement

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fixed acquisition parameters shared by every board plan.
const (
	DefaultSampleCount = 4000
	DefaultSampleRate  = 1e5 // Hz
	DefaultInputRange  = 5.0 // V
	DefaultScopeInput  = 2

	DefaultSettleDelay    = 1 * time.Second
	DefaultPollInterval   = 100 * time.Millisecond
	DefaultAcquireTimeout = 10 * time.Second
)

// ErrNoPlan is returned when no channel plan exists for a board name.
var ErrNoPlan = errors.New("no channel plan for board")

// Channel is one energize-and-measure step of a plan.
type Channel struct {
	Pin        int     `yaml:"pin"`
	TestNumber int     `yaml:"test_number"`
	Label      string  `yaml:"label"`
	Target     float64 `yaml:"target"`
	Lower      float64 `yaml:"lower"`
	Upper      float64 `yaml:"upper"`
	ScopeInput int     `yaml:"scope_input"`
}

// Supplies is the fixture power configuration applied after open.
type Supplies struct {
	PositiveVolts float64 `yaml:"positive_volts"`
	NegativeVolts float64 `yaml:"negative_volts"`
}

// Indicators maps protocol states to fixture LED pins.
type Indicators struct {
	Ready      int `yaml:"ready"`
	InProgress int `yaml:"in_progress"`
	Pass       int `yaml:"pass"`
	Fail       int `yaml:"fail"`
}

// Pins returns every indicator pin.
func (i Indicators) Pins() []int {
	return []int{i.Ready, i.InProgress, i.Fail, i.Pass}
}

// ForState returns the pin lit for state, and false when state has no indicator.
func (i Indicators) ForState(s State) (int, bool) {
	switch s {
	case StateReady:
		return i.Ready, true
	case StateInProgress:
		return i.InProgress, true
	case StatePass:
		return i.Pass, true
	case StateFail:
		return i.Fail, true
	}
	return 0, false
}

// Plan is the fixed, board-type-specific channel sequence.
type Plan struct {
	Board       string      `yaml:"board"`
	Revisions   []string    `yaml:"revisions,omitempty"`
	Supplies    Supplies    `yaml:"supplies"`
	Indicators  *Indicators `yaml:"indicators,omitempty"`
	SampleCount int         `yaml:"sample_count,omitempty"`
	SampleRate  float64     `yaml:"sample_rate,omitempty"`
	InputRange  float64     `yaml:"input_range,omitempty"`
	Channels    []Channel   `yaml:"channels"`
}

// WithDefaults fills zero acquisition parameters with the fixed defaults.
func (p Plan) WithDefaults() Plan {
	if p.SampleCount == 0 {
		p.SampleCount = DefaultSampleCount
	}
	if p.SampleRate == 0 {
		p.SampleRate = DefaultSampleRate
	}
	if p.InputRange == 0 {
		p.InputRange = DefaultInputRange
	}
	channels := make([]Channel, len(p.Channels))
	for i, ch := range p.Channels {
		if ch.ScopeInput == 0 {
			ch.ScopeInput = DefaultScopeInput
		}
		channels[i] = ch
	}
	p.Channels = channels
	return p
}

// Validate checks the plan is usable.
func (p Plan) Validate() error {
	if p.Board == "" {
		return fmt.Errorf("plan has no board name")
	}
	if len(p.Channels) == 0 {
		return fmt.Errorf("plan %s has no channels", p.Board)
	}
	for _, ch := range p.Channels {
		if ch.Lower > ch.Upper {
			return fmt.Errorf("plan %s test %d: lower limit %.3f above upper limit %.3f", p.Board, ch.TestNumber, ch.Lower, ch.Upper)
		}
		if ch.ScopeInput != 1 && ch.ScopeInput != 2 {
			return fmt.Errorf("plan %s test %d: scope input %d not in {1,2}", p.Board, ch.TestNumber, ch.ScopeInput)
		}
	}
	return nil
}

// Timing holds the protocol delays. Production runs use DefaultTiming.
type Timing struct {
	SettleDelay    time.Duration
	PollInterval   time.Duration
	AcquireTimeout time.Duration
}

// DefaultTiming returns the fixed protocol timing.
func DefaultTiming() Timing {
	return Timing{
		SettleDelay:    DefaultSettleDelay,
		PollInterval:   DefaultPollInterval,
		AcquireTimeout: DefaultAcquireTimeout,
	}
}

// PlanSet indexes plans by lowercased board name.
type PlanSet map[string]Plan

// Lookup returns the plan for a board name.
func (s PlanSet) Lookup(board string) (Plan, error) {
	p, ok := s[strings.ToLower(board)]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrNoPlan, board)
	}
	return p, nil
}

// Boards returns the board names in sorted order.
func (s PlanSet) Boards() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge returns a set with the plans of other replacing same-named plans in s.
func (s PlanSet) Merge(other PlanSet) PlanSet {
	out := make(PlanSet, len(s)+len(other))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range other {
		out[strings.ToLower(k)] = v
	}
	return out
}

var fixtureSupplies = Supplies{PositiveVolts: 5.0, NegativeVolts: 0.0}

// BuiltinPlans returns the plans for the boards the fixtures support.
func BuiltinPlans() PlanSet {
	plans := []Plan{
		{
			Board:      "cam_ctrlg4",
			Revisions:  []string{"0002"},
			Supplies:   fixtureSupplies,
			Indicators: &Indicators{Ready: 15, InProgress: 6, Fail: 3, Pass: 4},
			Channels: []Channel{
				{Pin: 0, TestNumber: 1, Label: "SCL", Target: 0.35, Lower: 0.25, Upper: 0.4},
				{Pin: 1, TestNumber: 2, Label: "CSI_5V", Target: 0.5, Lower: 0.4, Upper: 0.6},
				{Pin: 2, TestNumber: 3, Label: "CSI_3V3", Target: 0.4, Lower: 0.3, Upper: 0.5},
				{Pin: 5, TestNumber: 4, Label: "SDA", Target: 0.6, Lower: 0.5, Upper: 0.7},
			},
		},
		{
			Board:     "imx2cc",
			Revisions: []string{"0020"},
			Supplies:  fixtureSupplies,
			Channels: []Channel{
				{Pin: 0, TestNumber: 1, Label: "VDD_2V9", Target: 0.62, Lower: 0.42, Upper: 0.82},
				{Pin: 1, TestNumber: 2, Label: "EE_1V8", Target: 0.48, Lower: 0.28, Upper: 0.68},
				{Pin: 2, TestNumber: 3, Label: "5V_SCL", Target: 1.10, Lower: 1.00, Upper: 1.20},
				{Pin: 3, TestNumber: 4, Label: "SCL", Target: 0.73, Lower: 0.53, Upper: 0.93},
				{Pin: 4, TestNumber: 5, Label: "VDD_1V8", Target: 0.77, Lower: 0.57, Upper: 0.97},
				{Pin: 5, TestNumber: 6, Label: "VDD_3V3", Target: 0.79, Lower: 0.59, Upper: 0.99},
				{Pin: 6, TestNumber: 7, Label: "DVDD_CAM_IO_1V8", Target: 0.45, Lower: 0.25, Upper: 0.65},
				{Pin: 7, TestNumber: 8, Label: "5V_SDA", Target: 0.87, Lower: 0.67, Upper: 1.07},
				{Pin: 8, TestNumber: 9, Label: "VDD_1V1", Target: 0.92, Lower: 0.72, Upper: 1.02},
				{Pin: 15, TestNumber: 10, Label: "SDA", Target: 0.73, Lower: 0.53, Upper: 0.93},
			},
		},
		{
			Board:     "sens_snimx565",
			Revisions: []string{"0020"},
			Supplies:  fixtureSupplies,
			Channels: []Channel{
				{Pin: 5, TestNumber: 1, Label: "VDD_1V1", Target: 0.35, Lower: 0.25, Upper: 0.4},
				{Pin: 6, TestNumber: 2, Label: "VDD_1V8", Target: 0.5, Lower: 0.4, Upper: 0.6},
				{Pin: 7, TestNumber: 3, Label: "VDD_2V9", Target: 0.4, Lower: 0.3, Upper: 0.5},
				{Pin: 15, TestNumber: 4, Label: "VDD_3V3", Target: 0.6, Lower: 0.5, Upper: 0.7},
			},
		},
	}

	set := make(PlanSet, len(plans))
	for _, p := range plans {
		set[p.Board] = p.WithDefaults()
	}
	return set
}
