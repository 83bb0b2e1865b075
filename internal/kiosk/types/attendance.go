package types

import "time"

// DateLayout is the calendar-date form used for daily dedup and exports.
const DateLayout = "2006-01-02"

// AttendanceEvent is one append-only ledger row.  Timestamp keeps full
// precision; Date is the kiosk-local calendar date derived from it, and is
// what the at-most-one-per-day rule compares.
type AttendanceEvent struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
}

// DayEntry is a ledger row joined with the person it belongs to, as
// consumed by the export pipeline and the status API.
type DayEntry struct {
	Person Person          `json:"person"`
	Event  AttendanceEvent `json:"event"`
}

// CivilDate formats t as a calendar date in t's own location.
func CivilDate(t time.Time) string {
	return t.Format(DateLayout)
}
