package contract

import "fmt"

// ErrKind buckets every rejection into one of the four failure classes.
// All of them abort the call with state untouched; the kind tells the caller
// whether a retry can ever succeed.
type ErrKind uint8

const (
	// KindPolicy: configuration or monetary policy violated. Never
	// retryable, rejected before any mutation.
	KindPolicy ErrKind = iota
	// KindState: the call is legal but the current state blocks it
	// (wrong status, timelock pending, balance short). Retryable once the
	// blocking condition changes.
	KindState
	// KindAuth: caller lacks the required capability. Logged for
	// forensic review.
	KindAuth
	// KindArithmetic: overflow or division against empty reserves.
	KindArithmetic
)

// String names the kind for event lines.
func (k ErrKind) String() string {
	switch k {
	case KindPolicy:
		return "policy"
	case KindState:
		return "state"
	case KindAuth:
		return "auth"
	default:
		return "arithmetic"
	}
}

// Err is the engine's only error type: a stable machine symbol plus a human
// message, in the spirit of the host's revert(msg, symbol) convention.
type Err struct {
	Symbol string
	Kind   ErrKind
	Msg    string
}

func (e *Err) Error() string {
	return e.Symbol + ": " + e.Msg
}

// Stable rejection symbols. Callers match on these, never on Msg.
const (
	SymNotInitialized     = "not_initialized"
	SymAlreadyInitialized = "already_initialized"
	SymInvalidPayload     = "invalid_payload"
	SymUnknownAction      = "unknown_action"

	SymAlreadyMinted   = "already_minted"
	SymSupplyExhausted = "supply_exhausted"

	SymInvalidAllocation  = "invalid_allocation"
	SymInvalidTeamWeights = "invalid_team_weights"

	SymOverflow            = "overflow"
	SymInsufficientBalance = "insufficient_balance"

	SymEmptyPool          = "empty_pool"
	SymZeroAmount         = "zero_amount"
	SymInsufficientShares = "insufficient_shares"
	SymSlippageExceeded   = "slippage_exceeded"
	SymUnauthorized       = "unauthorized"

	SymBelowThreshold     = "below_threshold"
	SymInvalidDuration    = "invalid_duration"
	SymInvalidAction      = "invalid_action"
	SymNotFound           = "not_found"
	SymAlreadyVoted       = "already_voted"
	SymVotingClosed       = "voting_closed"
	SymVotingOpen         = "voting_open"
	SymNotQueued          = "not_queued"
	SymTimelockNotElapsed = "timelock_not_elapsed"
	SymNotProposer        = "not_proposer"
)

// policyErr flags pre-mutation policy violations.
func policyErr(symbol, format string, args ...any) *Err {
	return &Err{Symbol: symbol, Kind: KindPolicy, Msg: fmt.Sprintf(format, args...)}
}

// stateErr flags blocked-but-retryable conditions.
func stateErr(symbol, format string, args ...any) *Err {
	return &Err{Symbol: symbol, Kind: KindState, Msg: fmt.Sprintf(format, args...)}
}

// authErr flags capability failures.
func authErr(symbol, format string, args ...any) *Err {
	return &Err{Symbol: symbol, Kind: KindAuth, Msg: fmt.Sprintf(format, args...)}
}

// arithErr flags overflow and empty-pool math.
func arithErr(symbol, format string, args ...any) *Err {
	return &Err{Symbol: symbol, Kind: KindArithmetic, Msg: fmt.Sprintf(format, args...)}
}
