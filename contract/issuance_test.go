package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/sdk"
)

func TestRewardHalvingSchedule(t *testing.T) {
	cfg := testConfig()
	cases := []struct {
		height uint64
		want   Amount
	}{
		{0, 5_000},
		{209_999, 5_000},
		{210_000, 2_500},
		{419_999, 2_500},
		{420_000, 1_250},
		{630_000, 625},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, rewardAt(cfg, 0, c.height), "height %d", c.height)
	}
}

func TestRewardBeforeStartClampsToStart(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, Amount(5_000), rewardAt(cfg, 1_000, 500))
}

func TestRewardZeroAfterMaxHalvings(t *testing.T) {
	cfg := testConfig()
	height := uint64(MaxHalvings) * cfg.HalvingInterval
	assert.Zero(t, rewardAt(cfg, 0, height))
	assert.NotZero(t, rewardAt(cfg, 0, height-1))
}

func TestMintDistributesReward(t *testing.T) {
	h := newHarness(t)
	var reward Amount
	h.run(testAdmin, 100, 0, func(ctx *txContext) *Err {
		var err *Err
		reward, err = mint(ctx, h.cfg, 100)
		return err
	})
	require.Equal(t, Amount(5_000), reward)

	assert.Equal(t, Amount(1_500), h.balanceOf(sdk.PoolAddress, sdk.AssetToken))
	assert.Equal(t, Amount(450), h.balanceOf(testAlice, sdk.AssetToken))
	assert.Equal(t, Amount(300), h.balanceOf(testBob, sdk.AssetToken))
	assert.Equal(t, Amount(2_750), h.balanceOf(sdk.TreasuryAddress, sdk.AssetToken))

	ctx := h.begin(testAdmin, 0, 0)
	is, err := loadIssuance(ctx)
	require.Nil(t, err)
	assert.Equal(t, uint64(100), is.LastMintHeight)
	assert.True(t, is.MintedAny)
	assert.Equal(t, Amount(5_000), is.CumulativeMinted)
	assert.EqualValues(t, 1, auditLen(ctx))
}

func TestMintRejectsReplayedHeight(t *testing.T) {
	h := newHarness(t)
	h.run(testAdmin, 100, 0, func(ctx *txContext) *Err {
		_, err := mint(ctx, h.cfg, 100)
		return err
	})
	for _, height := range []uint64{100, 99} {
		err := h.runErr(testAdmin, height, 0, func(ctx *txContext) *Err {
			_, err := mint(ctx, h.cfg, height)
			return err
		})
		assert.Equal(t, SymAlreadyMinted, err.Symbol, "height %d", height)
	}
}

func TestMintHeightZeroAtStartIsValidOnce(t *testing.T) {
	h := newHarness(t)
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		_, err := mint(ctx, h.cfg, 0)
		return err
	})
	err := h.runErr(testAdmin, 0, 0, func(ctx *txContext) *Err {
		_, err := mint(ctx, h.cfg, 0)
		return err
	})
	assert.Equal(t, SymAlreadyMinted, err.Symbol)
}

// The tail reward is clamped to whatever the cap still allows; the mint
// after that reports the supply as exhausted.
func TestMintClampsAtSupplyCap(t *testing.T) {
	cfg := testConfig()
	cfg.TotalSupplyCap = 12_000
	h := newHarnessWith(t, cfg)

	for _, height := range []uint64{1, 2} {
		h.run(testAdmin, height, 0, func(ctx *txContext) *Err {
			_, err := mint(ctx, cfg, height)
			return err
		})
	}
	var reward Amount
	h.run(testAdmin, 3, 0, func(ctx *txContext) *Err {
		var err *Err
		reward, err = mint(ctx, cfg, 3)
		return err
	})
	assert.Equal(t, Amount(2_000), reward)

	err := h.runErr(testAdmin, 4, 0, func(ctx *txContext) *Err {
		_, err := mint(ctx, cfg, 4)
		return err
	})
	assert.Equal(t, SymSupplyExhausted, err.Symbol)
}

func TestBurnReducesCirculating(t *testing.T) {
	h := newHarness(t)
	h.run(testAdmin, 1, 0, func(ctx *txContext) *Err {
		_, err := mint(ctx, h.cfg, 1)
		return err
	})
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		return burn(ctx, sdk.TreasuryAddress, 750)
	})
	ctx := h.begin(testAdmin, 0, 0)
	is, err := loadIssuance(ctx)
	require.Nil(t, err)
	assert.Equal(t, Amount(750), is.TotalBurned)
	assert.Equal(t, Amount(4_250), is.Circulating())
	assert.Equal(t, Amount(2_000), h.balanceOf(sdk.TreasuryAddress, sdk.AssetToken))
}
