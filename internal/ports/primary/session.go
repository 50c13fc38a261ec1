// Package primary defines the primary ports (driving adapters) for the application.
// Any front end - the CLI here, or a desktop UI - consumes these interfaces.
package primary

import (
	"github.com/example/testhub/internal/core/identity"
	"github.com/example/testhub/internal/core/report"
)

// Session is the explicit operator context threaded through core calls:
// the scanned board and the station working on it.
type Session struct {
	Barcode  string
	Identity identity.BoardIdentity
	Station  string
	Source   report.Source // department entering annotations, may be empty
}

// NewSession parses barcode into a session for station.
func NewSession(barcode, station string) Session {
	return Session{
		Barcode:  barcode,
		Identity: identity.Parse(barcode),
		Station:  station,
	}
}
