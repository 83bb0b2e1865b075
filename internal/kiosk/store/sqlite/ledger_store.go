package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dbpkg "attendkiosk/internal/db"
	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

type LedgerStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewLedgerStore(db *sql.DB, writer *dbpkg.Worker) *LedgerStore {
	return &LedgerStore{db: db, writer: writer}
}

var _ store.LedgerStore = (*LedgerStore)(nil)

func (s *LedgerStore) LatestEventForPerson(ctx context.Context, personID int64) (*types.AttendanceEvent, error) {
	var ev types.AttendanceEvent
	var tsMs int64
	err := s.db.QueryRowContext(ctx, `
SELECT id, person_id, ts_ms, event_date
FROM attendance_events
WHERE person_id = ?
ORDER BY ts_ms DESC, id DESC
LIMIT 1;
`, personID).Scan(&ev.ID, &ev.PersonID, &tsMs, &ev.Date)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("LatestEventForPerson query: %w", err)
	}
	ev.Timestamp = time.UnixMilli(tsMs)
	return &ev, nil
}

func (s *LedgerStore) RecordEvent(ctx context.Context, personID int64, ts time.Time) (types.AttendanceEvent, error) {
	if ts.IsZero() {
		ts = time.Now()
	}

	ev := types.AttendanceEvent{
		PersonID:  personID,
		Timestamp: ts,
		Date:      types.CivilDate(ts),
	}

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO attendance_events(person_id, ts_ms, event_date)
VALUES (?, ?, ?);
`, personID, ts.UnixMilli(), ev.Date)
		if err != nil {
			if isUniqueViolation(err) {
				// The (person_id, event_date) constraint is the backstop
				// for the daily dedup rule under concurrent writers.
				return store.ErrDuplicateEvent
			}
			return fmt.Errorf("RecordEvent insert: %w", err)
		}
		ev.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("RecordEvent id: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.AttendanceEvent{}, err
	}
	return ev, nil
}

func (s *LedgerStore) EventsForDate(ctx context.Context, date string) ([]types.DayEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT e.id, e.person_id, e.ts_ms, e.event_date,
       p.id, p.email, p.name, p.enrollment_year
FROM attendance_events e
JOIN people p ON p.id = e.person_id
WHERE e.event_date = ?
ORDER BY e.ts_ms ASC, e.id ASC;
`, date)
	if err != nil {
		return nil, fmt.Errorf("EventsForDate query: %w", err)
	}
	defer rows.Close()

	var out []types.DayEntry
	for rows.Next() {
		var entry types.DayEntry
		var tsMs int64
		var year sql.NullInt64
		if err := rows.Scan(
			&entry.Event.ID, &entry.Event.PersonID, &tsMs, &entry.Event.Date,
			&entry.Person.ID, &entry.Person.Email, &entry.Person.Name, &year,
		); err != nil {
			return nil, fmt.Errorf("EventsForDate scan: %w", err)
		}
		entry.Event.Timestamp = time.UnixMilli(tsMs)
		if year.Valid {
			entry.Person.EnrollmentYear = int(year.Int64)
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
