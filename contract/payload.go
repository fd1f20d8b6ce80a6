package contract

import (
	"encoding/json"
	"strings"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Call Payloads
// -----------------------------------------------------------------------------
//
// JSON argument structs for every dispatchable action, plus the generic
// codec helpers. Payloads are host-facing, so they stay JSON even though
// records persist in the binary codec.

// FromJSON decodes a payload into the named argument struct.
func FromJSON[T any](data string) (*T, *Err) {
	data = strings.TrimSpace(data)
	if data == "" {
		data = "{}"
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, policyErr(SymInvalidPayload, "malformed payload: %v", err)
	}
	return &v, nil
}

// ToJSON serializes a response value. Marshal failures cannot happen for the
// structs below, so a failure collapses to an empty object.
func ToJSON[T any](v T) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// GenesisArgs seeds the engine: the validated config plus the height the
// issuance schedule counts from.
type GenesisArgs struct {
	Config      Config `json:"config"`
	StartHeight uint64 `json:"start_height"`
}

// MintArgs selects the block height to issue for. Zero means the height the
// host stamped on the call.
type MintArgs struct {
	Height uint64 `json:"height,omitempty"`
}

// TransferArgs covers the admin-gated ledger adjustments (credit, debit)
// and the base-asset settlement entrypoints.
type TransferArgs struct {
	Identity sdk.Address `json:"identity"`
	Asset    sdk.Asset   `json:"asset,omitempty"`
	Amount   Amount      `json:"amount"`
}

// BalanceArgs queries one account. Asset defaults to the governance token.
type BalanceArgs struct {
	Identity sdk.Address `json:"identity"`
	Asset    sdk.Asset   `json:"asset,omitempty"`
}

type AddLiquidityArgs struct {
	AmountA Amount `json:"amount_a"`
	AmountB Amount `json:"amount_b"`
}

type RemoveLiquidityArgs struct {
	Shares Amount `json:"shares"`
}

// SwapArgs sells AmountIn of the side asset ("a" token out of the caller,
// "b" base) with a slippage floor.
type SwapArgs struct {
	Side     string `json:"side"`
	AmountIn Amount `json:"amount_in"`
	MinOut   Amount `json:"min_out,omitempty"`
}

type BuybackArgs struct {
	Amount Amount `json:"amount"`
	MinOut Amount `json:"min_out,omitempty"`
}

type SubmitProposalArgs struct {
	Title        string `json:"title"`
	Description  string `json:"desc"`
	VotingPeriod int64  `json:"voting_period"`
	Action       Action `json:"action"`
}

type VoteArgs struct {
	ProposalID uint64 `json:"proposal_id"`
	Choice     string `json:"choice"`
}

type ProposalRefArgs struct {
	ProposalID uint64 `json:"proposal_id"`
}

// AuditTailArgs bounds the audit view to the most recent entries.
type AuditTailArgs struct {
	Limit uint64 `json:"limit,omitempty"`
}

// parseSide maps the wire code onto the swap side.
func parseSide(s string) (SwapSide, *Err) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "token":
		return SideToken, nil
	case "b", "base":
		return SideBase, nil
	default:
		return 0, policyErr(SymInvalidPayload, "unknown swap side %q", s)
	}
}

// parseChoice maps the wire code onto the ballot direction.
func parseChoice(s string) (VoteChoice, *Err) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "for":
		return VoteFor, nil
	case "g", "against":
		return VoteAgainst, nil
	case "n", "abstain":
		return VoteAbstain, nil
	default:
		return 0, policyErr(SymInvalidPayload, "unknown vote choice %q", s)
	}
}

// -----------------------------------------------------------------------------
// Responses
// -----------------------------------------------------------------------------

// CallResult is the uniform response envelope. Ok mirrors the error return;
// Details carries the action-specific fields.
type CallResult struct {
	Ok      bool           `json:"ok"`
	Symbol  string         `json:"symbol,omitempty"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

func okResult(details map[string]any) string {
	return ToJSON(CallResult{Ok: true, Details: details})
}

func errResult(e *Err) string {
	return ToJSON(CallResult{Ok: false, Symbol: e.Symbol, Error: e.Msg})
}

// ProposalView is the JSON projection of a proposal record.
type ProposalView struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Proposer      string `json:"proposer"`
	Status        string `json:"status"`
	CreatedAt     int64  `json:"created_at"`
	VotingEnd     int64  `json:"voting_end"`
	ExecutionTime int64  `json:"execution_time,omitempty"`
	ForVotes      Amount `json:"for_votes"`
	AgainstVotes  Amount `json:"against_votes"`
	AbstainVotes  Amount `json:"abstain_votes"`
	VoterCount    uint64 `json:"voter_count"`
	ActionKind    string `json:"action_kind"`
	ConfigVersion uint64 `json:"config_version"`
}

func viewProposal(p *Proposal) ProposalView {
	return ProposalView{
		ID:            p.ID,
		Title:         p.Title,
		Proposer:      p.Proposer.String(),
		Status:        p.Status.String(),
		CreatedAt:     p.CreatedAt,
		VotingEnd:     p.VotingEnd,
		ExecutionTime: p.ExecutionTime,
		ForVotes:      p.ForVotes,
		AgainstVotes:  p.AgainstVotes,
		AbstainVotes:  p.AbstainVotes,
		VoterCount:    p.VoterCount,
		ActionKind:    p.Action.Kind.String(),
		ConfigVersion: p.ConfigVersion,
	}
}

// AuditEntryView is the JSON projection of one audit record.
type AuditEntryView struct {
	Seq       uint64 `json:"seq"`
	Actor     string `json:"actor"`
	Kind      string `json:"kind"`
	Digest    string `json:"digest"`
	Timestamp int64  `json:"ts"`
}

func viewAuditEntry(e *AuditEntry) AuditEntryView {
	return AuditEntryView{
		Seq:       e.Seq,
		Actor:     e.Actor.String(),
		Kind:      e.Kind,
		Digest:    e.Digest,
		Timestamp: e.Timestamp,
	}
}
