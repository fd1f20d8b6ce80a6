package contract

import (
	"fmt"
	"strconv"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Governance Actions
// -----------------------------------------------------------------------------
//
// The closed set of things a successful proposal may do. Anything outside
// this set is rejected at submission, so the voting body always knows the
// exact blast radius of a ballot.

type ActionKind uint8

const (
	// ActionNone marks a signalling proposal with no on-chain effect.
	ActionNone ActionKind = 0
	// ActionParamUpdate changes one named config parameter.
	ActionParamUpdate ActionKind = 1
	// ActionTeamUpdate replaces the contributor weight table.
	ActionTeamUpdate ActionKind = 2
	// ActionBuyback swaps treasury base funds for the token.
	ActionBuyback ActionKind = 3
	// ActionAdminAdd grants the admin capability.
	ActionAdminAdd ActionKind = 4
	// ActionAdminRemove revokes the admin capability.
	ActionAdminRemove ActionKind = 5
)

// String names the kind for audit payloads and events.
func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionParamUpdate:
		return "param_update"
	case ActionTeamUpdate:
		return "team_update"
	case ActionBuyback:
		return "buyback"
	case ActionAdminAdd:
		return "admin_add"
	case ActionAdminRemove:
		return "admin_remove"
	default:
		return "unknown"
	}
}

// Action is the tagged payload carried by a proposal. Only the fields for
// the tagged kind are meaningful.
type Action struct {
	Kind   ActionKind   `json:"kind"`
	Param  string       `json:"param,omitempty"`
	Value  uint64       `json:"value,omitempty"`
	Team   []TeamMember `json:"team,omitempty"`
	Amount Amount       `json:"amount,omitempty"`
	MinOut Amount       `json:"min_out,omitempty"`
	Admin  sdk.Address  `json:"admin,omitempty"`
}

// Updatable parameters. The allocation travels as one packed value
// (dex*10^8 + team*10^4 + dao) so its sum invariant can never be broken by
// a partial update.
const (
	ParamFeeBps            = "fee_bps"
	ParamRatioToleranceBps = "ratio_tolerance_bps"
	ParamProposalThreshold = "proposal_threshold"
	ParamQuorumBps         = "quorum_bps"
	ParamApprovalBps       = "approval_bps"
	ParamMinVotingPeriod   = "min_voting_period"
	ParamMaxVotingPeriod   = "max_voting_period"
	ParamTimelockDuration  = "timelock_duration"
	ParamExecutionWindow   = "execution_window"
	ParamBuybackBurn       = "buyback_burn"
	ParamAllocation        = "allocation_bps"
)

// validateAction checks a proposal action at submission time, before anyone
// votes on it.
func validateAction(a *Action) *Err {
	switch a.Kind {
	case ActionNone:
		return nil
	case ActionParamUpdate:
		return validateParam(a.Param, a.Value)
	case ActionTeamUpdate:
		if len(a.Team) == 0 {
			return policyErr(SymInvalidAction, "team update with no members")
		}
		return validateTeamWeights(a.Team)
	case ActionBuyback:
		if a.Amount == 0 {
			return policyErr(SymInvalidAction, "buyback amount must be positive")
		}
		return nil
	case ActionAdminAdd, ActionAdminRemove:
		if !a.Admin.IsValid() || a.Admin.IsInternal() {
			return policyErr(SymInvalidAction, "invalid admin identity %q", a.Admin)
		}
		return nil
	default:
		return policyErr(SymInvalidAction, "unknown action kind %d", a.Kind)
	}
}

func validateParam(param string, value uint64) *Err {
	switch param {
	case ParamFeeBps, ParamRatioToleranceBps, ParamQuorumBps, ParamApprovalBps:
		if Bps(value) > BpsDenom {
			return policyErr(SymInvalidAction, "%s %d exceeds %d bps", param, value, BpsDenom)
		}
	case ParamProposalThreshold:
	case ParamMinVotingPeriod, ParamMaxVotingPeriod, ParamTimelockDuration, ParamExecutionWindow:
		if int64(value) < 0 {
			return policyErr(SymInvalidAction, "%s out of range", param)
		}
	case ParamBuybackBurn:
		if value > 1 {
			return policyErr(SymInvalidAction, "%s must be 0 or 1", param)
		}
	case ParamAllocation:
		alloc, err := unpackAllocation(value)
		if err != nil {
			return err
		}
		return validateAllocation(alloc)
	default:
		return policyErr(SymInvalidAction, "unknown parameter %q", param)
	}
	return nil
}

// unpackAllocation splits the packed decimal dex*10^8 + team*10^4 + dao.
func unpackAllocation(value uint64) (Allocation, *Err) {
	alloc := Allocation{
		DexBps:  Bps(value / 1_0000_0000),
		TeamBps: Bps(value / 1_0000 % 1_0000),
		DaoBps:  Bps(value % 1_0000),
	}
	if alloc.DexBps > BpsDenom {
		return Allocation{}, policyErr(SymInvalidAction, "packed allocation %d out of range", value)
	}
	return alloc, nil
}

// applyAction performs an approved proposal's effect. Config mutations bump
// the version so the splitter and governance always see which rules applied.
func applyAction(ctx *txContext, cfg *Config, p *Proposal) *Err {
	a := &p.Action
	switch a.Kind {
	case ActionNone:
		return nil
	case ActionParamUpdate:
		return applyParam(ctx, cfg, p.ID, a.Param, a.Value)
	case ActionTeamUpdate:
		if err := validateTeamWeights(a.Team); err != nil {
			return err
		}
		cfg.Team = append([]TeamMember(nil), a.Team...)
		cfg.Version++
		saveConfig(ctx, cfg)
		emitConfigUpdatedEvent(ctx, p.ID, "team", "", fmt.Sprintf("%d members", len(a.Team)))
		return nil
	case ActionBuyback:
		_, err := buyback(ctx, cfg, a.Amount, a.MinOut)
		return err
	case ActionAdminAdd:
		grantAdmin(ctx, a.Admin)
		emitConfigUpdatedEvent(ctx, p.ID, "admin", "", a.Admin.String())
		return nil
	case ActionAdminRemove:
		revokeAdmin(ctx, a.Admin)
		emitConfigUpdatedEvent(ctx, p.ID, "admin", a.Admin.String(), "")
		return nil
	default:
		return policyErr(SymInvalidAction, "unknown action kind %d", a.Kind)
	}
}

func applyParam(ctx *txContext, cfg *Config, proposalID uint64, param string, value uint64) *Err {
	if err := validateParam(param, value); err != nil {
		return err
	}
	var oldVal uint64
	switch param {
	case ParamFeeBps:
		oldVal, cfg.FeeBps = uint64(cfg.FeeBps), Bps(value)
	case ParamRatioToleranceBps:
		oldVal, cfg.RatioToleranceBps = uint64(cfg.RatioToleranceBps), Bps(value)
	case ParamProposalThreshold:
		oldVal, cfg.ProposalThreshold = uint64(cfg.ProposalThreshold), Amount(value)
	case ParamQuorumBps:
		oldVal, cfg.QuorumBps = uint64(cfg.QuorumBps), Bps(value)
	case ParamApprovalBps:
		oldVal, cfg.ApprovalBps = uint64(cfg.ApprovalBps), Bps(value)
	case ParamMinVotingPeriod:
		oldVal, cfg.MinVotingPeriod = uint64(cfg.MinVotingPeriod), int64(value)
	case ParamMaxVotingPeriod:
		oldVal, cfg.MaxVotingPeriod = uint64(cfg.MaxVotingPeriod), int64(value)
	case ParamTimelockDuration:
		oldVal, cfg.TimelockDuration = uint64(cfg.TimelockDuration), int64(value)
	case ParamExecutionWindow:
		oldVal, cfg.ExecutionWindow = uint64(cfg.ExecutionWindow), int64(value)
	case ParamBuybackBurn:
		if cfg.BuybackBurn {
			oldVal = 1
		}
		cfg.BuybackBurn = value == 1
	case ParamAllocation:
		alloc, err := unpackAllocation(value)
		if err != nil {
			return err
		}
		oldVal = uint64(cfg.Alloc.DexBps)*1_0000_0000 +
			uint64(cfg.Alloc.TeamBps)*1_0000 + uint64(cfg.Alloc.DaoBps)
		cfg.Alloc = alloc
	}
	cfg.Version++
	saveConfig(ctx, cfg)
	emitConfigUpdatedEvent(ctx, proposalID, param,
		strconv.FormatUint(oldVal, 10), strconv.FormatUint(value, 10))
	return nil
}
