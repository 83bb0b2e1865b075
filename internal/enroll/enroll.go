// Package enroll is the one-shot enrollment batch: it reads a roster CSV,
// registers each person, and writes the QR code they will scan at the
// kiosk.  It runs out-of-band; the scanning core never writes identities.
package enroll

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

// Roster rows are (id, email, name[, year]).  The leading id column is
// whatever the upstream registration system uses; we keep our own ids.
const (
	colEmail = 1
	colName  = 2
	colYear  = 3
)

type Enroller struct {
	identity store.IdentityStore
	logger   *zap.Logger

	// QRSize is the PNG edge length in pixels.
	QRSize int
}

func New(identity store.IdentityStore, logger *zap.Logger) *Enroller {
	return &Enroller{identity: identity, logger: logger, QRSize: 256}
}

type Result struct {
	Created    int
	Duplicates int
	Skipped    int
}

// Run parses the roster, creates people, and writes per-person QR
// directories under outDir.  Duplicate emails are counted, not fatal —
// re-running enrollment with a grown roster is the normal workflow.
func (e *Enroller) Run(ctx context.Context, roster io.Reader, outDir string) (Result, error) {
	var res Result

	r := csv.NewReader(roster)
	r.FieldsPerRecord = -1

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read roster: %w", err)
		}
		if len(row) <= colName {
			res.Skipped++
			e.logger.Warn("roster row too short", zap.Strings("row", row))
			continue
		}

		p := types.Person{
			Email: strings.TrimSpace(row[colEmail]),
			Name:  strings.TrimSpace(row[colName]),
		}
		if len(row) > colYear {
			if y, err := strconv.Atoi(strings.TrimSpace(row[colYear])); err == nil {
				p.EnrollmentYear = y
			}
		}
		if p.Email == "" || p.Name == "" {
			res.Skipped++
			continue
		}

		created, err := e.identity.CreatePerson(ctx, p)
		switch {
		case errors.Is(err, store.ErrDuplicatePerson):
			res.Duplicates++
			e.logger.Info("already enrolled", zap.String("email", p.Email))
			// Regenerate their QR anyway so a lost PNG can be recovered.
		case err != nil:
			return res, fmt.Errorf("enroll %s: %w", p.Email, err)
		default:
			res.Created++
			p = created
		}

		if outDir != "" {
			if err := e.writeQR(outDir, p); err != nil {
				return res, err
			}
		}
	}

	return res, nil
}

// writeQR mirrors the layout the kiosk's printed badges come from:
// <outDir>/<NameNoSpaces>/<NameNoSpaces>.png plus an email.txt.
func (e *Enroller) writeQR(outDir string, p types.Person) error {
	dirName := strings.ReplaceAll(p.Name, " ", "")
	dir := filepath.Join(outDir, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	png := filepath.Join(dir, dirName+".png")
	if err := qrcode.WriteFile(p.Email, qrcode.Medium, e.QRSize, png); err != nil {
		return fmt.Errorf("write qr for %s: %w", p.Email, err)
	}

	emailPath := filepath.Join(dir, "email.txt")
	if _, err := os.Stat(emailPath); os.IsNotExist(err) {
		if err := os.WriteFile(emailPath, []byte(p.Email), 0o644); err != nil {
			return fmt.Errorf("write email.txt for %s: %w", p.Email, err)
		}
	}

	e.logger.Info("generated qr", zap.String("email", p.Email), zap.String("path", png))
	return nil
}
