package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"attendkiosk/internal/clock"
	"attendkiosk/internal/kiosk/store/memory"
	"attendkiosk/internal/kiosk/types"
	"attendkiosk/internal/scan"
)

type ReconcilerSuite struct {
	suite.Suite
	identity *memory.IdentityStore
	ledger   *memory.LedgerStore
	clock    *clock.MockClock
	recon    *Reconciler
	ctx      context.Context

	ann types.Person
}

func TestReconcilerSuite(t *testing.T) {
	suite.Run(t, new(ReconcilerSuite))
}

func (s *ReconcilerSuite) SetupTest() {
	s.identity = memory.NewIdentityStore()
	s.ledger = memory.NewLedgerStore(s.identity)
	s.clock = clock.NewMock(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	s.recon = NewReconciler(s.identity, s.ledger, s.clock, zap.NewNop())
	s.ctx = context.Background()

	var err error
	s.ann, err = s.identity.CreatePerson(s.ctx, types.Person{Email: "a@x.com", Name: "Ann"})
	s.Require().NoError(err)
}

func (s *ReconcilerSuite) scan(payload string) *types.Outcome {
	return s.recon.Cycle(s.ctx, scan.Frame{Detected: true, Payload: payload})
}

// Empty frames

func (s *ReconcilerSuite) TestEmptyFrameIsIdle() {
	out := s.recon.Cycle(s.ctx, scan.Frame{})
	s.Nil(out)
	s.Empty(s.ledger.Events())
}

// First scan of the day

func (s *ReconcilerSuite) TestFirstScanRecordsEvent() {
	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.True(out.Recorded)
	s.Require().NotNil(out.Person)
	s.Equal("Ann", out.Person.Name)

	events := s.ledger.Events()
	s.Require().Len(events, 1)
	s.Equal(s.ann.ID, events[0].PersonID)
	s.Equal("2024-01-01", events[0].Date)
}

// Idempotence: any number of same-day scans leaves exactly one event.

func (s *ReconcilerSuite) TestSameDayRescanIsIdempotent() {
	for i := 0; i < 25; i++ {
		out := s.scan("a@x.com")
		s.Require().NotNil(out)
		s.Equal(types.OutcomeSuccess, out.Kind)
		s.clock.Advance(2 * time.Second)
	}
	s.Len(s.ledger.Events(), 1)
}

// Cross-day re-arm

func (s *ReconcilerSuite) TestNextDayProducesSecondEvent() {
	s.scan("a@x.com")
	s.clock.Set(time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC))

	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.True(out.Recorded)

	events := s.ledger.Events()
	s.Require().Len(events, 2)
	s.Equal("2024-01-01", events[0].Date)
	s.Equal("2024-01-02", events[1].Date)
}

// Unknown payload

func (s *ReconcilerSuite) TestUnknownPayloadNeverWrites() {
	out := s.scan("zz@bad.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeUnresolved, out.Kind)
	s.Equal("zz@bad.com", out.Payload)
	s.Nil(out.Person)
	s.Empty(s.ledger.Events())
}

// Cache behavior

func (s *ReconcilerSuite) TestRepeatedFramesHitCache() {
	s.scan("a@x.com")
	readsAfterFirst := s.ledger.Reads()

	// Same code stays in frame for many cycles.
	for i := 0; i < 50; i++ {
		out := s.scan("a@x.com")
		s.Require().NotNil(out)
		s.Equal(types.OutcomeSuccess, out.Kind)
	}
	s.Equal(readsAfterFirst, s.ledger.Reads(), "cache hits must not touch the ledger")
}

func (s *ReconcilerSuite) TestCacheExpiresAtMidnight() {
	s.scan("a@x.com")
	s.clock.Set(time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC))

	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.Len(s.ledger.Events(), 2, "yesterday's cache entry must not satisfy today")
}

func (s *ReconcilerSuite) TestCacheIsPerPayload() {
	ben, err := s.identity.CreatePerson(s.ctx, types.Person{Email: "b@x.com", Name: "Ben"})
	s.Require().NoError(err)

	s.scan("a@x.com")
	out := s.scan("b@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.Equal(ben.ID, out.Person.ID)
	s.Len(s.ledger.Events(), 2)
}

// Failure handling

func (s *ReconcilerSuite) TestStorageReadFailureIsNonFatal() {
	s.ledger.FailReads = errors.New("disk unhappy")

	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeError, out.Kind)
	s.Empty(s.ledger.Events())

	// Storage recovers; the next cycle succeeds.
	s.ledger.FailReads = nil
	out = s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.Len(s.ledger.Events(), 1)
}

func (s *ReconcilerSuite) TestWriteFailureDoesNotCacheFalseSuccess() {
	s.ledger.FailWrites = errors.New("disk full")

	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeError, out.Kind)

	// If the failure had been cached as success, this scan would be a
	// cache hit and no event would ever be written.
	s.ledger.FailWrites = nil
	out = s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.True(out.Recorded)
	s.Len(s.ledger.Events(), 1)
}

func (s *ReconcilerSuite) TestDuplicateConstraintTreatedAsSatisfied() {
	// Simulate another writer (or a pre-crash write) landing first: the
	// ledger already has today's event, but this engine never saw it.
	_, err := s.ledger.RecordEvent(s.ctx, s.ann.ID, s.clock.Now().Add(-time.Hour))
	s.Require().NoError(err)

	out := s.scan("a@x.com")
	s.Require().NotNil(out)
	s.Equal(types.OutcomeSuccess, out.Kind)
	s.False(out.Recorded)
	s.Len(s.ledger.Events(), 1)
}
