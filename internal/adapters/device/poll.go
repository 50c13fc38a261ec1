// Package device contains DeviceSession adapters for the measurement fixture.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/testhub/internal/ports/secondary"
)

// Poll calls done every interval until it reports completion, it fails, or
// ctx expires. Expiry is reported as secondary.ErrAcquisitionTimeout.
func Poll(ctx context.Context, interval time.Duration, done func() (bool, error)) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w after polling every %s", secondary.ErrAcquisitionTimeout, interval)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
