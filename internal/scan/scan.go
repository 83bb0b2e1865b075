// Package scan is the decode-adapter boundary.  Image acquisition and QR
// decoding live outside the process; the core only sees, per poll cycle,
// whether a code is in frame and what it decoded to.
package scan

import "context"

// Frame is one poll cycle's observation.
type Frame struct {
	Detected bool
	Payload  string
}

// Source yields decode results, one Frame per poll.  Poll must not block
// on the camera: an empty frame is the answer when nothing new arrived.
type Source interface {
	Poll(ctx context.Context) (Frame, error)
	Close() error
}
