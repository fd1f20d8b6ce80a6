package contract

import (
	"fmt"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Issuance Scheduler
// -----------------------------------------------------------------------------

// rewardAt computes the per-block reward as a pure function of height:
// the initial reward halved once per elapsed interval. After MaxHalvings
// shifts the reward is pinned to zero, so supply is asymptotically capped.
func rewardAt(cfg *Config, startHeight, height uint64) Amount {
	if height < startHeight {
		height = startHeight
	}
	epoch := (height - startHeight) / cfg.HalvingInterval
	if epoch >= MaxHalvings {
		return 0
	}
	return cfg.InitialBlockRwd >> epoch
}

// mint issues the reward for one block height and distributes it: the dex
// share to the pool account, the team share across members by weight, the
// dao share to the treasury. Heights arrive in the host's total order, so a
// height at or below the last processed one means this block was already
// minted.
func mint(ctx *txContext, cfg *Config, height uint64) (Amount, *Err) {
	is, err := loadIssuance(ctx)
	if err != nil {
		return 0, err
	}
	if height < is.StartHeight {
		return 0, stateErr(SymAlreadyMinted, "height %d precedes start height %d", height, is.StartHeight)
	}
	if is.MintedAny && height <= is.LastMintHeight {
		return 0, stateErr(SymAlreadyMinted, "height %d already processed (last %d)", height, is.LastMintHeight)
	}

	reward := rewardAt(cfg, is.StartHeight, height)
	// The schedule alone cannot bound supply for arbitrary genesis
	// parameters, so the tail reward is clamped to what the cap leaves.
	if remaining := cfg.TotalSupplyCap - is.CumulativeMinted; reward > remaining {
		reward = remaining
	}
	if reward == 0 {
		return 0, stateErr(SymSupplyExhausted, "no reward at height %d", height)
	}

	dex, team, dao, splitErr := Split(reward, cfg.Alloc)
	if splitErr != nil {
		return 0, splitErr
	}
	teamShares, splitErr := SplitTeam(team, cfg.Team)
	if splitErr != nil {
		return 0, splitErr
	}

	if e := credit(ctx, cfg, sdk.PoolAddress, sdk.AssetToken, dex); e != nil {
		return 0, e
	}
	for _, ts := range teamShares {
		if e := credit(ctx, cfg, ts.Identity, sdk.AssetToken, ts.Amount); e != nil {
			return 0, e
		}
	}
	if e := credit(ctx, cfg, sdk.TreasuryAddress, sdk.AssetToken, dao); e != nil {
		return 0, e
	}

	is.LastMintHeight = height
	is.MintedAny = true
	is.CumulativeMinted += reward
	saveIssuance(ctx, is)

	appendAudit(ctx, "mint", fmt.Sprintf("%d|%d", height, reward))
	emitMintEvent(ctx, height, reward, dex, team, dao)
	return reward, nil
}

// burn destroys tokens held by an internal account (buyback proceeds) and
// books them against circulating supply.
func burn(ctx *txContext, holder sdk.Address, amount Amount) *Err {
	if err := debit(ctx, holder, sdk.AssetToken, amount); err != nil {
		return err
	}
	is, err := loadIssuance(ctx)
	if err != nil {
		return err
	}
	is.TotalBurned += amount
	saveIssuance(ctx, is)
	return nil
}
