package device

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/testhub/internal/core/measurement"
	"github.com/example/testhub/internal/ports/secondary"
)

// Simulator implements secondary.DeviceSession without hardware. Each
// energized pin drives the scope input to a configured level plus noise.
type Simulator struct {
	mu        sync.Mutex
	levels    map[int]float64
	noise     float64
	rng       *rand.Rand
	stalled   map[int]bool
	opened    bool
	active    int
	energized map[int]bool
	supplies  secondary.SupplyConfig

	// OpenErr, when set, is returned by Open.
	OpenErr error
}

var _ secondary.DeviceSession = (*Simulator)(nil)

// NewSimulator creates a simulator. levels maps a pin to the voltage read
// while it is energized; noise is the peak amplitude of uniform noise.
func NewSimulator(levels map[int]float64, noise float64, seed int64) *Simulator {
	return &Simulator{
		levels:    levels,
		noise:     noise,
		rng:       rand.New(rand.NewSource(seed)),
		stalled:   make(map[int]bool),
		active:    -1,
		energized: make(map[int]bool),
	}
}

// LevelsFromPlan returns the channel targets of plan, so every channel passes.
func LevelsFromPlan(plan measurement.Plan) map[int]float64 {
	levels := make(map[int]float64, len(plan.Channels))
	for _, ch := range plan.Channels {
		levels[ch.Pin] = ch.Target
	}
	return levels
}

// Stall makes acquisitions on pin never complete.
func (s *Simulator) Stall(pin int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stalled[pin] = true
}

// Open connects to the simulated instrument.
func (s *Simulator) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return fmt.Errorf("%w: %v", secondary.ErrDeviceConnect, s.OpenErr)
	}
	s.opened = true
	return nil
}

// ConfigureSupplies records the supply configuration.
func (s *Simulator) ConfigureSupplies(ctx context.Context, cfg secondary.SupplyConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return fmt.Errorf("device not open")
	}
	s.supplies = cfg
	return nil
}

// SetChannel drives a digital output pin.
func (s *Simulator) SetChannel(ctx context.Context, pin int, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		return fmt.Errorf("device not open")
	}
	s.energized[pin] = on
	if _, measured := s.levels[pin]; measured {
		switch {
		case on:
			s.active = pin
		case s.active == pin:
			s.active = -1
		}
	}
	return nil
}

// Acquire captures req.SampleCount samples. The capture takes as long as
// the real scope would at req.SampleRate and is polled every req.PollInterval.
func (s *Simulator) Acquire(ctx context.Context, req secondary.AcquireRequest) ([]float64, error) {
	s.mu.Lock()
	if !s.opened {
		s.mu.Unlock()
		return nil, fmt.Errorf("device not open")
	}
	pin := s.active
	stalled := s.stalled[pin]
	s.mu.Unlock()

	capture := time.Duration(0)
	if req.SampleRate > 0 {
		capture = time.Duration(float64(req.SampleCount) / req.SampleRate * float64(time.Second))
	}
	armed := time.Now()
	err := Poll(ctx, req.PollInterval, func() (bool, error) {
		return !stalled && time.Since(armed) >= capture, nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	level := 0.0
	if pin >= 0 && s.energized[pin] {
		level = s.levels[pin]
	}
	samples := make([]float64, req.SampleCount)
	for i := range samples {
		v := level + s.noise*(2*s.rng.Float64()-1)
		if req.InputRange > 0 {
			v = max(-req.InputRange, min(req.InputRange, v))
		}
		samples[i] = v
	}
	return samples, nil
}

// Close releases the simulated instrument and de-energizes every pin.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	s.active = -1
	clear(s.energized)
	return nil
}

// Energized reports whether pin is currently driven on.
func (s *Simulator) Energized(pin int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.energized[pin]
}

// Supplies returns the last supply configuration applied.
func (s *Simulator) Supplies() secondary.SupplyConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.supplies
}
