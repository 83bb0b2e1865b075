package present

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"attendkiosk/internal/kiosk/types"
)

// Terminal renders the overlay as lines on the kiosk's attached console:
// the latest scan status plus, when set, a warning block repeated above it.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	warning []string
	last    string
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

var _ Sink = (*Terminal)(nil)

func (t *Terminal) ShowStatus(st Status) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", tag(st.Kind), st.Text)
	if line == t.last && len(t.warning) == 0 {
		// Same code still in frame; don't scroll the console.
		return
	}
	t.last = line
	t.render(line)
}

func (t *Terminal) ShowStickyWarning(lines []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warning = append([]string(nil), lines...)
	t.render(t.last)
}

func (t *Terminal) ClearWarning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.warning == nil {
		return
	}
	t.warning = nil
	fmt.Fprintln(t.w, "--- warning cleared ---")
}

func (t *Terminal) render(statusLine string) {
	var b strings.Builder
	for _, l := range t.warning {
		b.WriteString("!! " + l + "\n")
	}
	if statusLine != "" {
		b.WriteString(statusLine + "\n")
	}
	_, _ = io.WriteString(t.w, b.String())
}

func tag(k types.OutcomeKind) string {
	switch k {
	case types.OutcomeSuccess:
		return " OK "
	case types.OutcomeUnresolved:
		return " ?? "
	case types.OutcomeError:
		return "ERR!"
	default:
		return "    "
	}
}
