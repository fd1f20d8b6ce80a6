package contract

import (
	"tokengov/sdk"
)

// AmountScale defines the fixed-point precision: 8 fractional digits,
// so 1.0 token = 100_000_000 raw units.
const AmountScale = 100_000_000

// Amount is an unsigned fixed-point token quantity in raw units.
type Amount uint64

// Bps is an integer basis-point value (1/10000).
type Bps uint64

// BpsDenom is the full scale for basis-point arithmetic.
const BpsDenom Bps = 10_000

// FloatToAmount scales human floats by AmountScale and rounds so config files
// can write 1.5 instead of 150000000.
// Example payload: FloatToAmount(1.5)
func FloatToAmount(v float64) Amount {
	return Amount(v*AmountScale + 0.5)
}

// AmountToFloat converts back to float64 for reporting or events.
// Example payload: AmountToFloat(FloatToAmount(2.5))
func AmountToFloat(v Amount) float64 {
	return float64(v) / AmountScale
}

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Allocation is the per-mint split policy in basis points.
// dex + team + dao must equal BpsDenom.
type Allocation struct {
	DexBps  Bps `json:"dex_bps"`
	TeamBps Bps `json:"team_bps"`
	DaoBps  Bps `json:"dao_bps"`
}

// TeamMember is one contributor entitlement: a weight in basis points of the
// team share. All weights must sum to BpsDenom.
type TeamMember struct {
	Identity sdk.Address `json:"identity"`
	Weight   Bps         `json:"weight"`
}

// Config is the versioned engine configuration. It is written once at genesis
// and mutated only through successful proposal execution; Version bumps on
// every governance update so auditors can pin which rules applied to a call.
type Config struct {
	Version           uint64       `json:"version"`
	TotalSupplyCap    Amount       `json:"total_supply_cap"`
	InitialBlockRwd   Amount       `json:"initial_block_reward"`
	HalvingInterval   uint64       `json:"halving_interval"`
	Alloc             Allocation   `json:"allocation"`
	Team              []TeamMember `json:"team"`
	FeeBps            Bps          `json:"fee_bps"`
	RatioToleranceBps Bps          `json:"ratio_tolerance_bps"`
	ProposalThreshold Amount       `json:"proposal_threshold"`
	QuorumBps         Bps          `json:"quorum_bps"`
	ApprovalBps       Bps          `json:"approval_bps"`
	MinVotingPeriod   int64        `json:"min_voting_period"`
	MaxVotingPeriod   int64        `json:"max_voting_period"`
	TimelockDuration  int64        `json:"timelock_duration"`
	ExecutionWindow   int64        `json:"execution_window"`
	BuybackBurn       bool         `json:"buyback_burn"`
}

// -----------------------------------------------------------------------------
// Issuance
// -----------------------------------------------------------------------------

// IssuanceState is the monetary policy progress singleton.
type IssuanceState struct {
	StartHeight      uint64
	LastMintHeight   uint64
	MintedAny        bool
	CumulativeMinted Amount
	TotalBurned      Amount
}

// Circulating is the supply backing quorum math: minted minus burned.
func (is *IssuanceState) Circulating() Amount {
	return is.CumulativeMinted - is.TotalBurned
}

// -----------------------------------------------------------------------------
// Exchange pool
// -----------------------------------------------------------------------------

// SwapSide selects the input asset of a swap.
type SwapSide uint8

const (
	// SideToken sells the governance token for the base asset.
	SideToken SwapSide = 0
	// SideBase sells the base asset for the governance token.
	SideBase SwapSide = 1
)

// String serializes the side into the short log-friendly codes.
// Example payload: SideBase.String()
func (s SwapSide) String() string {
	if s == SideBase {
		return "b"
	}
	return "a"
}

// LiquidityPool is the AMM reserve singleton. ReserveA holds the governance
// token, ReserveB the base asset.
type LiquidityPool struct {
	ReserveA    Amount
	ReserveB    Amount
	TotalShares Amount
}

// -----------------------------------------------------------------------------
// Governance
// -----------------------------------------------------------------------------

// ProposalStatus captures a proposal's lifecycle.
type ProposalStatus uint8

const (
	ProposalStatusUnspecified ProposalStatus = 0
	ProposalPending           ProposalStatus = 1
	ProposalActive            ProposalStatus = 2
	ProposalSucceeded         ProposalStatus = 3
	ProposalDefeated          ProposalStatus = 4
	ProposalQueued            ProposalStatus = 5
	ProposalExecuted          ProposalStatus = 6
	ProposalExpired           ProposalStatus = 7
	ProposalCancelled         ProposalStatus = 8
)

// String prints the proposal status as lower-case text for events and logs.
// Example payload: ProposalQueued.String()
func (ps ProposalStatus) String() string {
	switch ps {
	case ProposalPending:
		return "pending"
	case ProposalActive:
		return "active"
	case ProposalSucceeded:
		return "succeeded"
	case ProposalDefeated:
		return "defeated"
	case ProposalQueued:
		return "queued"
	case ProposalExecuted:
		return "executed"
	case ProposalExpired:
		return "expired"
	case ProposalCancelled:
		return "cancelled"
	default:
		return "unspecified"
	}
}

// Terminal reports whether the proposal record is immutable from here on.
func (ps ProposalStatus) Terminal() bool {
	switch ps {
	case ProposalExecuted, ProposalExpired, ProposalDefeated, ProposalCancelled:
		return true
	}
	return false
}

// VoteChoice is one member's ballot direction.
type VoteChoice uint8

const (
	VoteFor     VoteChoice = 0
	VoteAgainst VoteChoice = 1
	VoteAbstain VoteChoice = 2
)

// String gives the single-letter code used in vote receipts and events.
// Example payload: VoteAgainst.String()
func (vc VoteChoice) String() string {
	switch vc {
	case VoteFor:
		return "f"
	case VoteAgainst:
		return "g"
	case VoteAbstain:
		return "n"
	default:
		return "?"
	}
}

// Proposal is one governance item. Tallies accumulate on the record as votes
// come in; the per-voter receipt lives under its own key.
type Proposal struct {
	ID            uint64
	Title         string
	Description   string
	Proposer      sdk.Address
	CreatedAt     int64
	VotingEnd     int64
	ExecutionTime int64
	Status        ProposalStatus
	Action        Action
	ForVotes      Amount
	AgainstVotes  Amount
	AbstainVotes  Amount
	VoterCount    uint64
	ConfigVersion uint64
	TxID          string
}

// VoteReceipt records one ballot, weight snapshotted at vote time.
type VoteReceipt struct {
	Voter   sdk.Address
	Choice  VoteChoice
	Weight  Amount
	VotedAt int64
}

// -----------------------------------------------------------------------------
// Audit
// -----------------------------------------------------------------------------

// AuditEntry is one recorded state-changing action.
type AuditEntry struct {
	Seq       uint64
	Actor     sdk.Address
	Kind      string
	Digest    string
	Timestamp int64
}
