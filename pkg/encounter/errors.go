package encounter

import "errors"

// Error taxonomy for the encounter engine. All of these are caught at the
// state machine boundary and converted into an error log entry plus a
// rollback to the last stable state.
var (
	// ErrOracleTransport indicates a network or timeout failure talking
	// to the oracle. Retryable by resubmitting the same turn.
	ErrOracleTransport = errors.New("oracle transport failed")

	// ErrOracleParse indicates the oracle reply was malformed or missing
	// required fields. State is unchanged; the user is offered regenerate.
	ErrOracleParse = errors.New("oracle reply could not be parsed")

	// ErrValidation indicates a profile or update failed schema checks.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence indicates a snapshot write or read failed. Surfaced
	// but non-fatal; the encounter continues in memory.
	ErrPersistence = errors.New("persistence failed")

	// ErrBusy is returned when an action is submitted while the engine is
	// waiting on the oracle.
	ErrBusy = errors.New("encounter is awaiting an oracle reply")

	// ErrStaleRevision indicates an oracle reply was built from a session
	// revision that has since been superseded by a manual edit.
	ErrStaleRevision = errors.New("oracle reply targets a superseded revision")
)
