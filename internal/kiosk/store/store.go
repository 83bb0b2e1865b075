package store

import (
	"context"
	"errors"
	"time"

	"attendkiosk/internal/kiosk/types"
)

var (
	// ErrNotFound is returned when a lookup matches no person.  The
	// reconciler treats this as an expected outcome (unrecognized scan),
	// never a failure.
	ErrNotFound = errors.New("person not found")

	// ErrDuplicatePerson is returned when enrollment attempts to reuse an
	// email already registered to someone else.
	ErrDuplicatePerson = errors.New("person with this email already exists")

	// ErrDuplicateEvent is returned when an insert trips the
	// (person_id, event_date) uniqueness constraint.  Callers treat it as
	// "already satisfied for that day", not as an error.
	ErrDuplicateEvent = errors.New("attendance already recorded for this date")
)

// IdentityStore maps QR payloads (emails) to registered people.  The
// scanning core only ever reads it; writes come from enrollment and the
// dev seeder.
type IdentityStore interface {
	LookupByEmail(ctx context.Context, email string) (types.Person, error)
	GetByID(ctx context.Context, id int64) (types.Person, error)
	CreatePerson(ctx context.Context, p types.Person) (types.Person, error)
	ListPeople(ctx context.Context) ([]types.Person, error)
}

// LedgerStore persists attendance events as an append-only log.
//
// RecordEvent does not decide the daily dedup rule — that is the
// reconciler's job, done as a read-decide-write-confirm sequence.  The
// uniqueness constraint underneath is the backstop for future concurrent
// writers (multi-kiosk), surfacing as ErrDuplicateEvent.
type LedgerStore interface {
	// LatestEventForPerson returns the most recent event for the person,
	// or nil if they have never been recorded.  Ties break by insertion
	// order (id descending) so the result is deterministic.
	LatestEventForPerson(ctx context.Context, personID int64) (*types.AttendanceEvent, error)

	RecordEvent(ctx context.Context, personID int64, ts time.Time) (types.AttendanceEvent, error)

	// EventsForDate returns every event on the given calendar date joined
	// with person identity, sorted by timestamp ascending (ties by id).
	EventsForDate(ctx context.Context, date string) ([]types.DayEntry, error)
}
