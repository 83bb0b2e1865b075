// Package csvfile writes daily exports as <dir>/<date>.csv.  Useful on
// its own for air-gapped kiosks and as the fallback when no spreadsheet
// credentials are configured.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"attendkiosk/internal/export"
)

type Sink struct {
	dir string
}

func New(dir string) *Sink {
	return &Sink{dir: dir}
}

var _ export.Sink = (*Sink)(nil)

func (s *Sink) Publish(ctx context.Context, date string, rows []export.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}

	// Write to a temp file and rename so a crash mid-export never leaves
	// a half-written day on disk.
	tmp, err := os.CreateTemp(s.dir, date+".csv.tmp*")
	if err != nil {
		return fmt.Errorf("create temp export: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	for _, r := range rows {
		if err := w.Write([]string{r.Name, r.Email, r.TimeIn}); err != nil {
			tmp.Close()
			return fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}

	final := filepath.Join(s.dir, date+".csv")
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("finalize export: %w", err)
	}
	return nil
}
