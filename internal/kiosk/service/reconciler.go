package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"attendkiosk/internal/clock"
	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
	"attendkiosk/internal/scan"
)

// cycleState tracks where a scan cycle is.  Settlement resets to idle on
// the next empty frame; the cache lives independently of it.
type cycleState int

const (
	stateIdle cycleState = iota
	stateSettled
)

// cacheEntry remembers the last resolved payload so repeated frames of the
// same physical code skip identity and ledger queries.  One entry is
// enough: a kiosk camera sees one code at a time.
type cacheEntry struct {
	payload   string
	person    types.Person
	date      string // calendar date the resolution is valid for
	satisfied bool
}

// Reconciler turns raw decode frames into idempotent ledger writes.
//
// Per detected frame: resolve the payload to a person, check whether
// today's attendance already exists, write it if not, and re-read to
// confirm the write landed before caching success.  Exactly one Outcome
// is produced per detected cycle; storage failures are logged and the
// cycle settles as an error without crashing the loop.
type Reconciler struct {
	identity store.IdentityStore
	ledger   store.LedgerStore
	clock    clock.Clock
	logger   *zap.Logger

	state cycleState
	cache *cacheEntry
}

func NewReconciler(identity store.IdentityStore, ledger store.LedgerStore, clk clock.Clock, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		identity: identity,
		ledger:   ledger,
		clock:    clk,
		logger:   logger,
	}
}

// Cycle runs one scan cycle.  Returns nil when the frame is empty (idle).
func (r *Reconciler) Cycle(ctx context.Context, frame scan.Frame) *types.Outcome {
	if !frame.Detected || frame.Payload == "" {
		r.state = stateIdle
		return nil
	}

	out := r.resolve(ctx, frame.Payload)
	r.state = stateSettled
	return &out
}

func (r *Reconciler) resolve(ctx context.Context, payload string) types.Outcome {
	today := types.CivilDate(r.clock.Now())

	// Cache hit: same code still in frame, already satisfied today.
	if c := r.cache; c != nil && c.payload == payload && c.satisfied && c.date == today {
		return types.Outcome{Kind: types.OutcomeSuccess, Person: &c.person, Payload: payload}
	}

	person, err := r.identity.LookupByEmail(ctx, payload)
	if errors.Is(err, store.ErrNotFound) {
		// Expected for stray codes; never touches the ledger.
		return types.Outcome{Kind: types.OutcomeUnresolved, Payload: payload}
	}
	if err != nil {
		r.logger.Error("identity lookup failed", zap.String("payload", payload), zap.Error(err))
		r.invalidate(payload)
		return types.Outcome{Kind: types.OutcomeError, Payload: payload}
	}

	latest, err := r.ledger.LatestEventForPerson(ctx, person.ID)
	if err != nil {
		r.logger.Error("ledger read failed", zap.Int64("person_id", person.ID), zap.Error(err))
		r.invalidate(payload)
		return types.Outcome{Kind: types.OutcomeError, Person: &person, Payload: payload}
	}

	if latest != nil && latest.Date == today {
		// Already satisfied; no write, just refresh the cache.
		r.cache = &cacheEntry{payload: payload, person: person, date: today, satisfied: true}
		return types.Outcome{Kind: types.OutcomeSuccess, Person: &person, Payload: payload}
	}

	recorded := true
	if _, err := r.ledger.RecordEvent(ctx, person.ID, r.clock.Now()); err != nil {
		if errors.Is(err, store.ErrDuplicateEvent) {
			// Another writer (or a prior crash-recovered write) got there
			// first; the uniqueness constraint says today is satisfied.
			recorded = false
		} else {
			r.logger.Error("ledger write failed", zap.Int64("person_id", person.ID), zap.Error(err))
			r.invalidate(payload)
			return types.Outcome{Kind: types.OutcomeError, Person: &person, Payload: payload}
		}
	}

	// Confirmation read: the freshly-read latest event must carry today's
	// date.  Anything else is a data-integrity problem, and caching it
	// would hide a lost write for the rest of the day.
	confirmed, err := r.ledger.LatestEventForPerson(ctx, person.ID)
	if err != nil || confirmed == nil || confirmed.Date != today {
		if err != nil {
			r.logger.Error("confirmation read failed", zap.Int64("person_id", person.ID), zap.Error(err))
		} else {
			r.logger.Error("ledger write not confirmed",
				zap.Int64("person_id", person.ID),
				zap.String("expected_date", today))
		}
		r.invalidate(payload)
		return types.Outcome{Kind: types.OutcomeError, Person: &person, Payload: payload}
	}

	r.cache = &cacheEntry{payload: payload, person: person, date: today, satisfied: true}
	return types.Outcome{Kind: types.OutcomeSuccess, Person: &person, Payload: payload, Recorded: recorded}
}

// invalidate drops the cache entry for payload so a transient failure is
// never served as a cached success.
func (r *Reconciler) invalidate(payload string) {
	if r.cache != nil && r.cache.payload == payload {
		r.cache = nil
	}
}
