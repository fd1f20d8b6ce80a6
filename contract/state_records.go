package contract

import "tokengov/sdk"

// -----------------------------------------------------------------------------
// Record Persistence
// -----------------------------------------------------------------------------
//
// Load/save pairs for the singleton and keyed records. Decode failures mean a
// corrupted store underneath the engine, which nothing in a deterministic
// call can repair; they surface as policy errors so the host aborts loudly.

func loadConfig(ctx *txContext) (*Config, *Err) {
	ptr := ctx.st.Get(keyConfig)
	if ptr == nil {
		return nil, stateErr(SymNotInitialized, "genesis has not run")
	}
	cfg, err := decodeConfig(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt config record")
	}
	return cfg, nil
}

func saveConfig(ctx *txContext, cfg *Config) {
	ctx.st.Set(keyConfig, encodeConfig(cfg))
}

func loadIssuance(ctx *txContext) (*IssuanceState, *Err) {
	ptr := ctx.st.Get(keyIssuance)
	if ptr == nil {
		return nil, stateErr(SymNotInitialized, "genesis has not run")
	}
	is, err := decodeIssuance(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt issuance record")
	}
	return is, nil
}

func saveIssuance(ctx *txContext, is *IssuanceState) {
	ctx.st.Set(keyIssuance, encodeIssuance(is))
}

// loadPool returns nil (no error) before the first liquidity deposit; the
// pool singleton only exists once funded.
func loadPool(ctx *txContext) (*LiquidityPool, *Err) {
	ptr := ctx.st.Get(keyPool)
	if ptr == nil {
		return nil, nil
	}
	p, err := decodePool(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt pool record")
	}
	return p, nil
}

func savePool(ctx *txContext, p *LiquidityPool) {
	ctx.st.Set(keyPool, encodePool(p))
}

func loadProposal(ctx *txContext, id uint64) (*Proposal, *Err) {
	ptr := ctx.st.Get(proposalKey(id))
	if ptr == nil {
		return nil, stateErr(SymNotFound, "proposal %d not found", id)
	}
	p, err := decodeProposal(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt proposal record %d", id)
	}
	return p, nil
}

func saveProposal(ctx *txContext, p *Proposal) {
	ctx.st.Set(proposalKey(p.ID), encodeProposal(p))
}

// loadVoteReceipt returns nil when the voter has not voted on the proposal.
func loadVoteReceipt(ctx *txContext, proposalID uint64, voter sdk.Address) (*VoteReceipt, *Err) {
	ptr := ctx.st.Get(voteKey(proposalID, voter))
	if ptr == nil {
		return nil, nil
	}
	v, err := decodeVoteReceipt(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt vote receipt %d/%s", proposalID, voter)
	}
	return v, nil
}

func saveVoteReceipt(ctx *txContext, proposalID uint64, v *VoteReceipt) {
	ctx.st.Set(voteKey(proposalID, v.Voter), encodeVoteReceipt(v))
}
