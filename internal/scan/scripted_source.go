package scan

import "context"

// ScriptedSource replays a fixed sequence of frames, then empty frames
// forever.  Test helper.
type ScriptedSource struct {
	frames []Frame
	pos    int
}

func NewScriptedSource(frames ...Frame) *ScriptedSource {
	return &ScriptedSource{frames: frames}
}

var _ Source = (*ScriptedSource)(nil)

func (s *ScriptedSource) Poll(_ context.Context) (Frame, error) {
	if s.pos >= len(s.frames) {
		return Frame{}, nil
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

func (s *ScriptedSource) Close() error { return nil }

// Exhausted reports whether all scripted frames have been consumed.
func (s *ScriptedSource) Exhausted() bool { return s.pos >= len(s.frames) }
