package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev inserts a couple of people so a fresh dev kiosk has codes to
// scan before anyone runs a real enrollment.  Idempotent.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	seed := []struct {
		email string
		name  string
		year  int
	}{
		{"ann@example.com", "Ann Example", 2024},
		{"ben@example.com", "Ben Example", 2025},
	}

	for _, p := range seed {
		if _, err := db.ExecContext(ctx, `
INSERT INTO people(email, name, enrollment_year, created_at_ms)
VALUES (?, ?, ?, ?)
ON CONFLICT(email) DO NOTHING;
`, p.email, p.name, p.year, now); err != nil {
			return fmt.Errorf("seed person %s: %w", p.email, err)
		}
	}

	return nil
}
