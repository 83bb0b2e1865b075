// Package export is the spreadsheet boundary: the core hands over a day's
// serialized rows and a date tag; transport and authentication live in
// the sink implementations.
package export

import "context"

// Row is one exported attendance entry, in the sheet's column order.
type Row struct {
	Name   string
	Email  string
	TimeIn string // RFC3339, kiosk-local
}

// Sink publishes a day's rows.  date is a calendar date ("2006-01-02").
// Publish must honor ctx cancellation — the kiosk bounds export time so a
// stuck sink cannot hang the scanning loop.
type Sink interface {
	Publish(ctx context.Context, date string, rows []Row) error
}
