package clock

import "time"

// MockClock is a Clock whose time only moves when told to.
type MockClock struct {
	CurrentTime time.Time
}

var _ Clock = (*MockClock)(nil)

// NewMock creates a MockClock set to the given time.
func NewMock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the clock forward by the given duration.
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// Set sets the clock to the given time.
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}
