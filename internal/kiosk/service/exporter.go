package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"attendkiosk/internal/export"
	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

// Exporter is the daily export pipeline plus its rollover edge detector
// and the sticky warning it raises on failure.
//
// Rollover is detected by comparing the date observed on consecutive loop
// iterations — an edge detector, not a timer.  The first iteration after
// midnight triggers the export regardless of how long the loop was
// blocked, and a kiosk that was off at midnight simply exports on the
// next manual run.
type Exporter struct {
	ledger  store.LedgerStore
	sink    export.Sink
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	prevDate string
	warning  []string
}

func NewExporter(ledger store.LedgerStore, sink export.Sink, timeout time.Duration, logger *zap.Logger) *Exporter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Exporter{
		ledger:  ledger,
		sink:    sink,
		timeout: timeout,
		logger:  logger,
	}
}

// ObserveDate feeds the rollover detector with the date the loop sees this
// iteration.  On a date change it exports the previous day inline — rare
// enough (once per day) that blocking the next frame is acceptable, and
// the sink call is bounded by the configured timeout.
func (e *Exporter) ObserveDate(ctx context.Context, now time.Time) {
	date := types.CivilDate(now)

	e.mu.Lock()
	prev := e.prevDate
	e.prevDate = date
	e.mu.Unlock()

	if prev == "" || prev == date {
		return
	}

	e.logger.Info("day rollover", zap.String("from", prev), zap.String("to", date))
	if err := e.ExportDay(ctx, prev); err != nil {
		// Logged and surfaced by ExportDay; scanning continues.
		return
	}
}

// ExportDay runs the pipeline for one calendar date.  Empty days produce
// no sink call.  Failure raises the sticky warning and is returned so a
// manual re-export can report it; it is never fatal.
func (e *Exporter) ExportDay(ctx context.Context, date string) error {
	entries, err := e.ledger.EventsForDate(ctx, date)
	if err != nil {
		err = fmt.Errorf("read events for %s: %w", date, err)
		e.raiseWarning(date, err)
		return err
	}

	if len(entries) == 0 {
		e.logger.Info("no attendance to export", zap.String("date", date))
		return nil
	}

	rows := make([]export.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, export.Row{
			Name:   entry.Person.Name,
			Email:  entry.Person.Email,
			TimeIn: entry.Event.Timestamp.Format(time.RFC3339),
		})
	}

	pubCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if err := e.sink.Publish(pubCtx, date, rows); err != nil {
		err = fmt.Errorf("publish %d rows for %s: %w", len(rows), date, err)
		e.raiseWarning(date, err)
		return err
	}

	e.logger.Info("exported day", zap.String("date", date), zap.Int("rows", len(rows)))
	return nil
}

func (e *Exporter) raiseWarning(date string, err error) {
	e.logger.Error("export failed", zap.String("date", date), zap.Error(err))
	e.mu.Lock()
	defer e.mu.Unlock()
	e.warning = []string{
		fmt.Sprintf("EXPORT FAILED for %s", date),
		err.Error(),
		"attendance recording continues; acknowledge to clear",
	}
}

// Warning returns the current sticky warning lines, or nil when clear.
func (e *Exporter) Warning() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.warning == nil {
		return nil
	}
	return append([]string(nil), e.warning...)
}

// Acknowledge clears the sticky warning.  Operator action, via keyboard
// or the HTTP API.
func (e *Exporter) Acknowledge() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.warning = nil
}
