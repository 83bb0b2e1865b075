package types

// Person is a registered attendee.  Rows are created by the enrollment
// utility (or the dev seeder) and are immutable to the scanning core.
type Person struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	EnrollmentYear int    `json:"enrollment_year,omitempty"`
}
