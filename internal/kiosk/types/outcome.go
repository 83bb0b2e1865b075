package types

// OutcomeKind classifies how a scan cycle settled.
type OutcomeKind int

const (
	// OutcomeSuccess means the payload resolved to a person whose
	// attendance for today is recorded (freshly or previously).
	OutcomeSuccess OutcomeKind = iota

	// OutcomeUnresolved means the payload matched no registered person.
	// Expected for stray codes; not an error.
	OutcomeUnresolved

	// OutcomeError means the ledger write could not be confirmed, or
	// storage failed mid-cycle.  A data-integrity concern, distinct from
	// a bad scan.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUnresolved:
		return "unresolved"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the single settlement result a scan cycle emits.
type Outcome struct {
	Kind    OutcomeKind
	Person  *Person // set for Success and Error
	Payload string  // raw decoded payload, always set
	// Recorded is true when this cycle wrote a new ledger row (as opposed
	// to re-confirming an existing one or hitting the cache).
	Recorded bool
}
