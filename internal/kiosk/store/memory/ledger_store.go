package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

// LedgerStore is an in-memory append-only ledger for tests and dev runs.
// It enforces the same (person, date) uniqueness as the sqlite schema and
// counts reads so cache behavior can be asserted in tests.
type LedgerStore struct {
	mu       sync.Mutex
	nextID   int64
	events   []types.AttendanceEvent
	identity *IdentityStore

	reads int // LatestEventForPerson calls; test-only observability

	// FailWrites makes RecordEvent fail when set.  Test-only.
	FailWrites error
	// FailReads makes LatestEventForPerson fail when set.  Test-only.
	FailReads error
}

// NewLedgerStore creates a ledger backed by the given identity store,
// which it uses to join people into EventsForDate results.
func NewLedgerStore(identity *IdentityStore) *LedgerStore {
	return &LedgerStore{nextID: 1, identity: identity}
}

var _ store.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) LatestEventForPerson(_ context.Context, personID int64) (*types.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.FailReads != nil {
		return nil, s.FailReads
	}

	var latest *types.AttendanceEvent
	for i := range s.events {
		ev := s.events[i]
		if ev.PersonID != personID {
			continue
		}
		if latest == nil ||
			ev.Timestamp.After(latest.Timestamp) ||
			(ev.Timestamp.Equal(latest.Timestamp) && ev.ID > latest.ID) {
			cp := ev
			latest = &cp
		}
	}
	return latest, nil
}

func (s *LedgerStore) RecordEvent(_ context.Context, personID int64, ts time.Time) (types.AttendanceEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites != nil {
		return types.AttendanceEvent{}, s.FailWrites
	}

	date := types.CivilDate(ts)
	for _, ev := range s.events {
		if ev.PersonID == personID && ev.Date == date {
			return types.AttendanceEvent{}, store.ErrDuplicateEvent
		}
	}

	ev := types.AttendanceEvent{
		ID:        s.nextID,
		PersonID:  personID,
		Timestamp: ts,
		Date:      date,
	}
	s.nextID++
	s.events = append(s.events, ev)
	return ev, nil
}

func (s *LedgerStore) EventsForDate(ctx context.Context, date string) ([]types.DayEntry, error) {
	s.mu.Lock()
	events := make([]types.AttendanceEvent, 0, len(s.events))
	for _, ev := range s.events {
		if ev.Date == date {
			events = append(events, ev)
		}
	}
	s.mu.Unlock()

	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].ID < events[j].ID
	})

	out := make([]types.DayEntry, 0, len(events))
	for _, ev := range events {
		p, err := s.identity.GetByID(ctx, ev.PersonID)
		if err != nil {
			return nil, err
		}
		out = append(out, types.DayEntry{Person: p, Event: ev})
	}
	return out, nil
}

// Reads returns how many LatestEventForPerson calls have been made.
// Test-only helper.
func (s *LedgerStore) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Events returns a copy of all recorded events.  Test-only helper.
func (s *LedgerStore) Events() []types.AttendanceEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.AttendanceEvent, len(s.events))
	copy(out, s.events)
	return out
}
