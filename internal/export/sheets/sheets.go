// Package sheets publishes daily exports to a Google spreadsheet: one
// worksheet per date, rows appended in scan order.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"attendkiosk/internal/export"
)

type Config struct {
	CredentialsFile string // service-account JSON
	SpreadsheetID   string
}

type Sink struct {
	cfg Config
	svc *sheetsapi.Service
}

// New authenticates with the service-account credentials file.  Fails fast
// at startup rather than at the first midnight rollover.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets sink: spreadsheet ID is required")
	}
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets sink: auth: %w", err)
	}
	return &Sink{cfg: cfg, svc: svc}, nil
}

var _ export.Sink = (*Sink)(nil)

func (s *Sink) Publish(ctx context.Context, date string, rows []export.Row) error {
	// One worksheet per date.  AddSheet fails if the title exists (e.g. a
	// manual re-export); in that case we still append, so a re-run after
	// a partial failure completes the sheet rather than erroring out.
	addReq := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: date},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.cfg.SpreadsheetID, addReq).Context(ctx).Do(); err != nil {
		if !sheetExists(ctx, s.svc, s.cfg.SpreadsheetID, date) {
			return fmt.Errorf("sheets add worksheet %s: %w", date, err)
		}
	}

	values := make([][]any, 0, len(rows))
	for _, r := range rows {
		values = append(values, []any{r.Name, r.Email, r.TimeIn})
	}

	_, err := s.svc.Spreadsheets.Values.
		Append(s.cfg.SpreadsheetID, fmt.Sprintf("'%s'!A1", date), &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append %d rows to %s: %w", len(rows), date, err)
	}
	return nil
}

func sheetExists(ctx context.Context, svc *sheetsapi.Service, spreadsheetID, title string) bool {
	ss, err := svc.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return false
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return true
		}
	}
	return false
}
