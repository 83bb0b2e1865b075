package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"attendkiosk/internal/clock"
	"attendkiosk/internal/kiosk/types"
	"attendkiosk/internal/present"
	"attendkiosk/internal/scan"
)

// Runner is the kiosk's single-threaded polling loop: one iteration is
// one capture frame is one reconciler cycle.  There is no concurrency in
// the core path; the loop owns the stores' call sites.
type Runner struct {
	source    scan.Source
	recon     *Reconciler
	exporter  *Exporter
	presenter present.Sink
	clock     clock.Clock
	interval  time.Duration
	logger    *zap.Logger

	warningShown bool
}

type RunnerDeps struct {
	Source     scan.Source
	Reconciler *Reconciler
	Exporter   *Exporter
	Presenter  present.Sink
	Clock      clock.Clock
	Interval   time.Duration
	Logger     *zap.Logger
}

func NewRunner(d RunnerDeps) *Runner {
	interval := d.Interval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Runner{
		source:    d.Source,
		recon:     d.Reconciler,
		exporter:  d.Exporter,
		presenter: d.Presenter,
		clock:     d.Clock,
		interval:  interval,
		logger:    d.Logger,
	}
}

// Run loops until ctx is cancelled.  Returns nil on a clean quit.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scan loop stopping")
			return nil
		case <-ticker.C:
			if err := r.Step(ctx); err != nil {
				// Only the decode source can error here, and only on
				// cancellation; everything else is absorbed per-cycle.
				if ctx.Err() != nil {
					return nil
				}
				r.logger.Error("poll failed", zap.Error(err))
			}
		}
	}
}

// Step executes exactly one loop iteration.  Exposed so tests can drive
// the loop deterministically.
func (r *Runner) Step(ctx context.Context) error {
	now := r.clock.Now()
	r.exporter.ObserveDate(ctx, now)
	r.presentWarning()

	frame, err := r.source.Poll(ctx)
	if err != nil {
		return err
	}

	if out := r.recon.Cycle(ctx, frame); out != nil {
		r.presenter.ShowStatus(statusFor(*out))
	}
	return nil
}

func (r *Runner) presentWarning() {
	lines := r.exporter.Warning()
	switch {
	case lines != nil && !r.warningShown:
		r.presenter.ShowStickyWarning(lines)
		r.warningShown = true
	case lines == nil && r.warningShown:
		r.presenter.ClearWarning()
		r.warningShown = false
	}
}

func statusFor(out types.Outcome) present.Status {
	switch out.Kind {
	case types.OutcomeSuccess:
		text := fmt.Sprintf("%s — attendance recorded", out.Person.Name)
		if !out.Recorded {
			text = fmt.Sprintf("%s — already checked in today", out.Person.Name)
		}
		return present.Status{Kind: out.Kind, Text: text}
	case types.OutcomeUnresolved:
		return present.Status{Kind: out.Kind, Text: fmt.Sprintf("unrecognized code: %s", out.Payload)}
	default:
		who := out.Payload
		if out.Person != nil {
			who = out.Person.Name
		}
		return present.Status{Kind: out.Kind, Text: fmt.Sprintf("could not record attendance for %s — see log", who)}
	}
}
