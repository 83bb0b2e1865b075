package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	dbpkg "attendkiosk/internal/db"
	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

type IdentityStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewIdentityStore(db *sql.DB, writer *dbpkg.Worker) *IdentityStore {
	return &IdentityStore{db: db, writer: writer}
}

var _ store.IdentityStore = (*IdentityStore)(nil)

func (s *IdentityStore) LookupByEmail(ctx context.Context, email string) (types.Person, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return types.Person{}, store.ErrNotFound
	}

	var p types.Person
	var year sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
SELECT id, email, name, enrollment_year
FROM people
WHERE email = ?;
`, email).Scan(&p.ID, &p.Email, &p.Name, &year)

	if err == sql.ErrNoRows {
		return types.Person{}, store.ErrNotFound
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("LookupByEmail query: %w", err)
	}
	if year.Valid {
		p.EnrollmentYear = int(year.Int64)
	}
	return p, nil
}

func (s *IdentityStore) GetByID(ctx context.Context, id int64) (types.Person, error) {
	var p types.Person
	var year sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
SELECT id, email, name, enrollment_year
FROM people
WHERE id = ?;
`, id).Scan(&p.ID, &p.Email, &p.Name, &year)

	if err == sql.ErrNoRows {
		return types.Person{}, store.ErrNotFound
	}
	if err != nil {
		return types.Person{}, fmt.Errorf("GetByID query: %w", err)
	}
	if year.Valid {
		p.EnrollmentYear = int(year.Int64)
	}
	return p, nil
}

func (s *IdentityStore) CreatePerson(ctx context.Context, p types.Person) (types.Person, error) {
	p.Email = strings.TrimSpace(p.Email)
	p.Name = strings.TrimSpace(p.Name)
	if p.Email == "" {
		return types.Person{}, fmt.Errorf("CreatePerson: email is required")
	}

	var year any
	if p.EnrollmentYear != 0 {
		year = p.EnrollmentYear
	}

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
INSERT INTO people(email, name, enrollment_year, created_at_ms)
VALUES (?, ?, ?, ?);
`, p.Email, p.Name, year, time.Now().UTC().UnixMilli())
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicatePerson
			}
			return fmt.Errorf("CreatePerson insert: %w", err)
		}
		p.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("CreatePerson id: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Person{}, err
	}
	return p, nil
}

func (s *IdentityStore) ListPeople(ctx context.Context) ([]types.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, email, name, enrollment_year
FROM people
ORDER BY name, id;
`)
	if err != nil {
		return nil, fmt.Errorf("ListPeople query: %w", err)
	}
	defer rows.Close()

	var out []types.Person
	for rows.Next() {
		var p types.Person
		var year sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Email, &p.Name, &year); err != nil {
			return nil, fmt.Errorf("ListPeople scan: %w", err)
		}
		if year.Valid {
			p.EnrollmentYear = int(year.Int64)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
