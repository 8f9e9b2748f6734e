package poker

import "errors"

// Sentinel errors. Callers classify failures with errors.Is; every error
// returned by this module wraps exactly one of these.
var (
	// ErrInvalidArgument reports a malformed request: bad seat index,
	// zero blinds, unknown variant parameters and the like.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIllegalAction reports an action the rules forbid in the current
	// state, for example checking while facing a bet.
	ErrIllegalAction = errors.New("illegal action")

	// ErrNotActor reports an action from a seat that is not next to act.
	ErrNotActor = errors.New("not the acting seat")

	// ErrWrongPhase reports an operation attempted in a phase where it
	// does not apply, such as acting on a finished hand.
	ErrWrongPhase = errors.New("wrong phase")

	// ErrInsufficientFunds reports a wager exceeding the seat's stack.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCorrupt reports data that fails checksum, hash chain or replay
	// verification.
	ErrCorrupt = errors.New("corrupt data")

	// ErrVersionMismatch reports an encoded artifact written by an
	// incompatible format version.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrNotFound reports a missing entity: variant, player, saved game.
	ErrNotFound = errors.New("not found")

	// ErrTimeout reports a controller that failed to decide in time. The
	// state machine responds by checking or folding on the seat's behalf.
	ErrTimeout = errors.New("timeout")
)
