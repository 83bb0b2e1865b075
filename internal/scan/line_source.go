package scan

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// LineSource adapts a newline-delimited stream of decoded payloads — e.g.
// `zbarcam --raw` piped into the process, or a FIFO a decoder daemon
// writes to.  A reader goroutine feeds a channel; Poll drains it without
// blocking, so a stalled camera process can never stall the kiosk loop.
//
// Decoders emit the same payload once per video frame while the code
// stays in view, which is exactly the repeat behavior the reconciler's
// cache is built for.
type LineSource struct {
	lines chan string

	closeOnce sync.Once
	closer    io.Closer
}

// NewLineSource starts reading decoded payloads from r.  If r is also an
// io.Closer it is closed by Close.
func NewLineSource(r io.Reader) *LineSource {
	s := &LineSource{
		lines: make(chan string, 64),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	go func() {
		defer close(s.lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			s.lines <- line
		}
	}()

	return s
}

var _ Source = (*LineSource)(nil)

func (s *LineSource) Poll(ctx context.Context) (Frame, error) {
	select {
	case <-ctx.Done():
		return Frame{}, ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			// Stream ended; report empty frames from here on.
			return Frame{}, nil
		}
		return Frame{Detected: true, Payload: line}, nil
	default:
		return Frame{}, nil
	}
}

func (s *LineSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.closer != nil {
			err = s.closer.Close()
		}
	})
	return err
}
