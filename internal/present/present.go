// Package present is the overlay boundary: the core writes status to it,
// no logic lives behind it.
package present

import "attendkiosk/internal/kiosk/types"

// Status is one settled scan cycle's on-screen feedback.
type Status struct {
	Kind types.OutcomeKind
	// Text is the line shown on the overlay, already formatted by the core.
	Text string
}

// Sink renders status lines and sticky warnings.  A sticky warning
// survives frames until an operator acknowledgment clears it.
type Sink interface {
	ShowStatus(st Status)
	ShowStickyWarning(lines []string)
	ClearWarning()
}
