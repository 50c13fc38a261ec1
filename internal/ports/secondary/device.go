package secondary

import (
	"context"
	"time"
)

// SupplyConfig is the fixture power configuration.
type SupplyConfig struct {
	PositiveVolts float64
	NegativeVolts float64
}

// AcquireRequest describes one bounded scope acquisition.
type AcquireRequest struct {
	Input        int // scope input, 1 or 2
	SampleCount  int
	SampleRate   float64 // Hz
	InputRange   float64 // V
	PollInterval time.Duration
}

// DeviceSession defines the secondary port for the vendor measurement hardware.
// The vendor driver binding lives behind this interface in a thin adapter.
type DeviceSession interface {
	// Open connects to the instrument. Failure is fatal to the session and
	// must wrap ErrDeviceConnect.
	Open(ctx context.Context) error

	// ConfigureSupplies enables the fixture power supplies.
	ConfigureSupplies(ctx context.Context, cfg SupplyConfig) error

	// SetChannel drives a digital output pin on or off.
	SetChannel(ctx context.Context, pin int, on bool) error

	// Acquire arms the scope and polls its status every PollInterval until
	// the capture completes or ctx expires. An expired ctx yields ErrAcquisitionTimeout.
	Acquire(ctx context.Context, req AcquireRequest) ([]float64, error)

	// Close releases the instrument.
	Close() error
}
