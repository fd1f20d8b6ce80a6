package contract

import (
	"fmt"
	"strings"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Governance Engine
// -----------------------------------------------------------------------------
//
// Lifecycle: Active → {Succeeded|Defeated}; Succeeded proposals are queued
// behind the timelock in the same finalize step; Queued → {Executed|Expired}.
// Cancelled is reachable from Pending/Active by the proposer only. There is
// no path from Active to Executed that skips the queue.

// submitProposal opens voting immediately. The proposer must hold at least
// the configured threshold of the governance token.
func submitProposal(ctx *txContext, cfg *Config, title, description string, votingPeriod int64, action Action) (uint64, *Err) {
	caller := ctx.caller()
	if bal := getBalance(ctx, caller, sdk.AssetToken); bal < cfg.ProposalThreshold {
		return 0, stateErr(SymBelowThreshold, "proposer holds %d, threshold %d", bal, cfg.ProposalThreshold)
	}
	if votingPeriod < cfg.MinVotingPeriod || votingPeriod > cfg.MaxVotingPeriod {
		return 0, policyErr(SymInvalidDuration,
			"voting period %d outside [%d, %d]", votingPeriod, cfg.MinVotingPeriod, cfg.MaxVotingPeriod)
	}
	title = strings.TrimSpace(title)
	if title == "" || len(title) > MaxTitleLength {
		return 0, policyErr(SymInvalidPayload, "title empty or longer than %d", MaxTitleLength)
	}
	if len(description) > MaxDescriptionLength {
		return 0, policyErr(SymInvalidPayload, "description longer than %d", MaxDescriptionLength)
	}
	if err := validateAction(&action); err != nil {
		return 0, err
	}

	id := getCount(ctx, ProposalsCount) + 1
	setCount(ctx, ProposalsCount, id)
	now := ctx.now()
	p := &Proposal{
		ID:            id,
		Title:         title,
		Description:   description,
		Proposer:      caller,
		CreatedAt:     now,
		VotingEnd:     now + votingPeriod,
		Status:        ProposalActive,
		Action:        action,
		ConfigVersion: cfg.Version,
		TxID:          ctx.txID(),
	}
	saveProposal(ctx, p)

	appendAudit(ctx, "submit_proposal", fmt.Sprintf("%d|%s|%s", id, action.Kind, title))
	emitProposalCreatedEvent(ctx, id, caller)
	emitProposalStatusEvent(ctx, id, ProposalActive)
	return id, nil
}

// castVote records one ballot with the voter's weight snapshotted from their
// current token balance. The receipt keyed by (proposal, voter) makes a
// second ballot structurally impossible.
func castVote(ctx *txContext, cfg *Config, proposalID uint64, choice VoteChoice) (Amount, *Err) {
	p, err := loadProposal(ctx, proposalID)
	if err != nil {
		return 0, err
	}
	now := ctx.now()
	if p.Status != ProposalActive && p.Status != ProposalPending {
		return 0, stateErr(SymVotingClosed, "proposal %d is %s", proposalID, p.Status)
	}
	if now >= p.VotingEnd {
		return 0, stateErr(SymVotingClosed, "voting on proposal %d ended", proposalID)
	}

	voter := ctx.caller()
	existing, err := loadVoteReceipt(ctx, proposalID, voter)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, stateErr(SymAlreadyVoted, "%s already voted on proposal %d", voter, proposalID)
	}

	weight := getBalance(ctx, voter, sdk.AssetToken)
	if weight == 0 {
		return 0, stateErr(SymBelowThreshold, "%s has no voting weight", voter)
	}

	switch choice {
	case VoteFor:
		p.ForVotes += weight
	case VoteAgainst:
		p.AgainstVotes += weight
	case VoteAbstain:
		p.AbstainVotes += weight
	default:
		return 0, policyErr(SymInvalidPayload, "unknown vote choice %d", choice)
	}
	p.VoterCount++
	saveProposal(ctx, p)
	saveVoteReceipt(ctx, proposalID, &VoteReceipt{
		Voter:   voter,
		Choice:  choice,
		Weight:  weight,
		VotedAt: now,
	})

	appendAudit(ctx, "cast_vote", fmt.Sprintf("%d|%s|%d", proposalID, choice, weight))
	emitVoteCastEvent(ctx, proposalID, voter, choice, weight)
	return weight, nil
}

// finalize tallies a proposal once voting has ended. Callable by anyone.
// Quorum is measured against circulating supply; approval against the
// decided (non-abstain) votes. A pass queues the proposal behind the
// timelock in the same step.
func finalize(ctx *txContext, cfg *Config, proposalID uint64) (ProposalStatus, *Err) {
	p, err := loadProposal(ctx, proposalID)
	if err != nil {
		return ProposalStatusUnspecified, err
	}
	if p.Status != ProposalActive && p.Status != ProposalPending {
		return ProposalStatusUnspecified, stateErr(SymVotingClosed, "proposal %d is %s", proposalID, p.Status)
	}
	now := ctx.now()
	if now < p.VotingEnd {
		return ProposalStatusUnspecified, stateErr(SymVotingOpen,
			"voting on proposal %d runs until %d", proposalID, p.VotingEnd)
	}

	is, err := loadIssuance(ctx)
	if err != nil {
		return ProposalStatusUnspecified, err
	}
	passed := tallyPasses(p, is.Circulating(), cfg.QuorumBps, cfg.ApprovalBps)

	if passed {
		p.Status = ProposalQueued
		p.ExecutionTime = now + cfg.TimelockDuration
	} else {
		p.Status = ProposalDefeated
	}
	saveProposal(ctx, p)

	appendAudit(ctx, "finalize", fmt.Sprintf("%d|%s", proposalID, p.Status))
	if passed {
		emitProposalStatusEvent(ctx, proposalID, ProposalSucceeded)
	}
	emitProposalStatusEvent(ctx, proposalID, p.Status)
	return p.Status, nil
}

// tallyPasses applies the quorum and approval thresholds. Abstain ballots
// count toward participation but not approval. Both checks compare cross
// products in 256-bit math, so no ratio is ever truncated.
func tallyPasses(p *Proposal, circulating Amount, quorumBps, approvalBps Bps) bool {
	total := p.ForVotes + p.AgainstVotes + p.AbstainVotes
	if circulating == 0 || total == 0 {
		return false
	}
	// participation >= quorum  <=>  total * 10000 >= quorum * circulating
	if !mulGE(total, Amount(BpsDenom), circulating, Amount(quorumBps)) {
		return false
	}
	decided := p.ForVotes + p.AgainstVotes
	if decided == 0 {
		return false
	}
	return mulGE(p.ForVotes, Amount(BpsDenom), decided, Amount(approvalBps))
}

// execute applies a queued proposal once the timelock has elapsed. Callable
// by anyone. Status flips to Executed before the action runs, so nothing the
// action touches can re-enter this proposal. Past the execution window the
// call succeeds by recording Expired instead.
func execute(ctx *txContext, cfg *Config, proposalID uint64) (ProposalStatus, *Err) {
	p, err := loadProposal(ctx, proposalID)
	if err != nil {
		return ProposalStatusUnspecified, err
	}
	if p.Status != ProposalQueued {
		return ProposalStatusUnspecified, stateErr(SymNotQueued, "proposal %d is %s", proposalID, p.Status)
	}
	now := ctx.now()
	if now < p.ExecutionTime {
		return ProposalStatusUnspecified, stateErr(SymTimelockNotElapsed,
			"proposal %d executable at %d", proposalID, p.ExecutionTime)
	}
	if cfg.ExecutionWindow > 0 && now > p.ExecutionTime+cfg.ExecutionWindow {
		p.Status = ProposalExpired
		saveProposal(ctx, p)
		appendAudit(ctx, "expire", fmt.Sprintf("%d", proposalID))
		emitProposalStatusEvent(ctx, proposalID, ProposalExpired)
		return ProposalExpired, nil
	}

	p.Status = ProposalExecuted
	saveProposal(ctx, p)
	if err := applyAction(ctx, cfg, p); err != nil {
		return ProposalStatusUnspecified, err
	}

	appendAudit(ctx, "execute", fmt.Sprintf("%d|%s", proposalID, p.Action.Kind))
	emitProposalStatusEvent(ctx, proposalID, ProposalExecuted)
	return ProposalExecuted, nil
}

// cancelProposal withdraws a proposal before voting ends. Proposer only.
func cancelProposal(ctx *txContext, proposalID uint64) *Err {
	p, err := loadProposal(ctx, proposalID)
	if err != nil {
		return err
	}
	if ctx.caller() != p.Proposer {
		return authErr(SymNotProposer, "only the proposer may cancel proposal %d", proposalID)
	}
	if p.Status != ProposalActive && p.Status != ProposalPending {
		return stateErr(SymVotingClosed, "proposal %d is %s", proposalID, p.Status)
	}
	if ctx.now() >= p.VotingEnd {
		return stateErr(SymVotingClosed, "voting on proposal %d already ended", proposalID)
	}

	p.Status = ProposalCancelled
	saveProposal(ctx, p)
	appendAudit(ctx, "cancel", fmt.Sprintf("%d", proposalID))
	emitProposalStatusEvent(ctx, proposalID, ProposalCancelled)
	return nil
}
