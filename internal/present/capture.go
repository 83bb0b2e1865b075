package present

import "sync"

// Capture records everything shown to it.  Test helper.
type Capture struct {
	mu       sync.Mutex
	Statuses []Status
	Warnings [][]string
	Cleared  int
}

func NewCapture() *Capture { return &Capture{} }

var _ Sink = (*Capture)(nil)

func (c *Capture) ShowStatus(st Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Statuses = append(c.Statuses, st)
}

func (c *Capture) ShowStickyWarning(lines []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Warnings = append(c.Warnings, append([]string(nil), lines...))
}

func (c *Capture) ClearWarning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Cleared++
}

// Last returns the most recent status, or a zero Status if none.
func (c *Capture) Last() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Statuses) == 0 {
		return Status{}
	}
	return c.Statuses[len(c.Statuses)-1]
}
