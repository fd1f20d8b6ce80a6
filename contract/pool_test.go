package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/sdk"
)

func poolState(t *testing.T, h *harness) *LiquidityPool {
	t.Helper()
	ctx := h.begin(testAdmin, 0, 0)
	pool, err := loadPool(ctx)
	require.Nil(t, err)
	require.NotNil(t, pool)
	return pool
}

func TestFirstDepositSharesAreGeometricMean(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 400, 100)

	pool := poolState(t, h)
	assert.Equal(t, Amount(400), pool.ReserveA)
	assert.Equal(t, Amount(100), pool.ReserveB)
	assert.Equal(t, Amount(200), pool.TotalShares) // sqrt(400*100)

	ctx := h.begin(testAdmin, 0, 0)
	assert.Equal(t, Amount(200), getLPShares(ctx, testCarol))
}

func TestAddLiquidityTrimsOffRatioDeposit(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 100_000, 100_000)

	h.fund(testBob, sdk.AssetToken, 10_000)
	h.fund(testBob, sdk.AssetBase, 50_000)
	var usedA, usedB Amount
	h.run(testBob, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		usedA, usedB, _, err = addLiquidity(ctx, h.cfg, 10_000, 50_000)
		return err
	})
	assert.Equal(t, Amount(10_000), usedA)
	assert.Equal(t, Amount(10_000), usedB)
	// The untaken base stays on Bob's account.
	assert.Equal(t, Amount(40_000), h.balanceOf(testBob, sdk.AssetBase))
}

func TestAddLiquidityRejectsZero(t *testing.T) {
	h := newHarness(t)
	err := h.runErr(testCarol, 0, 0, func(ctx *txContext) *Err {
		_, _, _, err := addLiquidity(ctx, h.cfg, 0, 100)
		return err
	})
	assert.Equal(t, SymZeroAmount, err.Symbol)
}

func TestRemoveLiquidityProportional(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 400, 100)

	var outA, outB Amount
	h.run(testCarol, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		outA, outB, err = removeLiquidity(ctx, h.cfg, 50)
		return err
	})
	assert.Equal(t, Amount(100), outA)
	assert.Equal(t, Amount(25), outB)

	pool := poolState(t, h)
	assert.Equal(t, Amount(300), pool.ReserveA)
	assert.Equal(t, Amount(75), pool.ReserveB)
	assert.Equal(t, Amount(150), pool.TotalShares)
}

func TestRemoveLiquidityOverHolding(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 400, 100)
	err := h.runErr(testBob, 0, 0, func(ctx *txContext) *Err {
		_, _, err := removeLiquidity(ctx, h.cfg, 10)
		return err
	})
	assert.Equal(t, SymInsufficientShares, err.Symbol)
}

// Reference numbers: reserves 100000/100000, fee 30 bps, input 1000.
// Net input 997, output 987.
func TestSwapFeeExample(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 100_000, 100_000)

	h.fund(testBob, sdk.AssetToken, 1_000)
	var out Amount
	h.run(testBob, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		out, err = poolSwap(ctx, h.cfg, testBob, SideToken, 1_000, 0)
		return err
	})
	assert.Equal(t, Amount(987), out)
	assert.Equal(t, Amount(987), h.balanceOf(testBob, sdk.AssetBase))
	assert.Zero(t, h.balanceOf(testBob, sdk.AssetToken))

	pool := poolState(t, h)
	assert.Equal(t, Amount(101_000), pool.ReserveA)
	assert.Equal(t, Amount(99_013), pool.ReserveB)
}

func TestSwapProductNeverDecreases(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 100_000, 100_000)
	h.fund(testBob, sdk.AssetToken, 50_000)
	h.fund(testBob, sdk.AssetBase, 50_000)

	last := poolState(t, h).product()
	swaps := []struct {
		side SwapSide
		in   Amount
	}{
		{SideToken, 1}, {SideBase, 1}, {SideToken, 999}, {SideBase, 12_345},
		{SideToken, 7}, {SideBase, 3}, {SideToken, 20_000},
	}
	for _, s := range swaps {
		h.run(testBob, 0, 0, func(ctx *txContext) *Err {
			_, err := poolSwap(ctx, h.cfg, testBob, s.side, s.in, 0)
			return err
		})
		product := poolState(t, h).product()
		assert.False(t, product.Lt(last), "product decreased after swap %+v", s)
		last = product
	}
}

func TestSwapSlippageFloor(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 100_000, 100_000)
	h.fund(testBob, sdk.AssetToken, 1_000)
	err := h.runErr(testBob, 0, 0, func(ctx *txContext) *Err {
		_, err := poolSwap(ctx, h.cfg, testBob, SideToken, 1_000, 988)
		return err
	})
	assert.Equal(t, SymSlippageExceeded, err.Symbol)
}

func TestSwapEmptyPool(t *testing.T) {
	h := newHarness(t)
	h.fund(testBob, sdk.AssetToken, 1_000)
	err := h.runErr(testBob, 0, 0, func(ctx *txContext) *Err {
		_, err := poolSwap(ctx, h.cfg, testBob, SideToken, 1_000, 0)
		return err
	})
	assert.Equal(t, SymEmptyPool, err.Symbol)
}

func TestBuybackBurnsProceeds(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 100_000, 100_000)
	h.fund(sdk.TreasuryAddress, sdk.AssetBase, 10_000)
	h.setCirculating(200_000)

	circulatingBefore := func() Amount {
		ctx := h.begin(testAdmin, 0, 0)
		is, err := loadIssuance(ctx)
		require.Nil(t, err)
		return is.Circulating()
	}()

	var got Amount
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		got, err = buyback(ctx, h.cfg, 1_000, 0)
		return err
	})
	require.NotZero(t, got)
	// Proceeds burned, none kept on the treasury token account.
	assert.Zero(t, h.balanceOf(sdk.TreasuryAddress, sdk.AssetToken))

	ctx := h.begin(testAdmin, 0, 0)
	is, err := loadIssuance(ctx)
	require.Nil(t, err)
	assert.Equal(t, got, is.TotalBurned)
	assert.Equal(t, circulatingBefore-got, is.Circulating())
}

func TestBuybackKeepsProceedsWhenBurnDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.BuybackBurn = false
	h := newHarnessWith(t, cfg)
	h.seedPool(testCarol, 100_000, 100_000)
	h.fund(sdk.TreasuryAddress, sdk.AssetBase, 10_000)

	var got Amount
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		got, err = buyback(ctx, cfg, 1_000, 0)
		return err
	})
	assert.Equal(t, got, h.balanceOf(sdk.TreasuryAddress, sdk.AssetToken))
}

// A fixed-point price past 64 bits aborts instead of wrapping. The base
// reserve has no supply cap, so extreme ratios are reachable.
func TestQuoteOverflowingPriceRejected(t *testing.T) {
	h := newHarness(t)
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		savePool(ctx, &LiquidityPool{ReserveA: 100, ReserveB: 100_000_000_000_000, TotalShares: 1})
		return nil
	})
	err := h.runErr(testAdmin, 0, 0, func(ctx *txContext) *Err {
		_, err := quote(ctx)
		return err
	})
	assert.Equal(t, SymOverflow, err.Symbol)
}

func TestAddLiquidityOverflowingRatioRejected(t *testing.T) {
	h := newHarness(t)
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		savePool(ctx, &LiquidityPool{ReserveA: 1, ReserveB: 1 << 62, TotalShares: 1 << 31})
		return nil
	})
	err := h.runErr(testBob, 0, 0, func(ctx *txContext) *Err {
		_, _, _, err := addLiquidity(ctx, h.cfg, 1<<40, 1<<40)
		return err
	})
	assert.Equal(t, SymOverflow, err.Symbol)
}

func TestQuotePrice(t *testing.T) {
	h := newHarness(t)
	h.seedPool(testCarol, 400, 100)
	var price Amount
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		var err *Err
		price, err = quote(ctx)
		return err
	})
	assert.Equal(t, Amount(AmountScale/4), price)
}
