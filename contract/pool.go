package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Exchange Pool (constant-product AMM)
// -----------------------------------------------------------------------------
//
// ReserveA is the governance token, ReserveB the base asset. All product and
// share math runs in 256-bit integers; the 64-bit reserve range can never
// overflow an intermediate. The product reserve_a * reserve_b must not
// decrease across any swap, so the output division rounds in the pool's
// favor.

func u256(v Amount) *uint256.Int {
	return uint256.NewInt(uint64(v))
}

// mulDiv computes a*b/c rounded down, in 256-bit intermediates. A quotient
// past 64 bits aborts instead of wrapping.
func mulDiv(a, b, c Amount) (Amount, *Err) {
	n := new(uint256.Int).Mul(u256(a), u256(b))
	n.Div(n, u256(c))
	v, overflow := n.Uint64WithOverflow()
	if overflow {
		return 0, arithErr(SymOverflow, "quotient %d*%d/%d exceeds 64 bits", a, b, c)
	}
	return Amount(v), nil
}

// mulDivUp computes a*b/c rounded up.
func mulDivUp(a, b, c Amount) (Amount, *Err) {
	n := new(uint256.Int).Mul(u256(a), u256(b))
	rem := new(uint256.Int)
	n.DivMod(n, u256(c), rem)
	if !rem.IsZero() {
		n.AddUint64(n, 1)
	}
	v, overflow := n.Uint64WithOverflow()
	if overflow {
		return 0, arithErr(SymOverflow, "quotient %d*%d/%d exceeds 64 bits", a, b, c)
	}
	return Amount(v), nil
}

// mulGE reports a*b >= c*d exactly, without any division or truncation.
func mulGE(a, b, c, d Amount) bool {
	lhs := new(uint256.Int).Mul(u256(a), u256(b))
	rhs := new(uint256.Int).Mul(u256(c), u256(d))
	return !lhs.Lt(rhs)
}

// product returns reserve_a * reserve_b as a 256-bit integer.
func (p *LiquidityPool) product() *uint256.Int {
	return new(uint256.Int).Mul(u256(p.ReserveA), u256(p.ReserveB))
}

// sideAssets maps a swap side to its (input, output) assets.
func sideAssets(side SwapSide) (sdk.Asset, sdk.Asset) {
	if side == SideBase {
		return sdk.AssetBase, sdk.AssetToken
	}
	return sdk.AssetToken, sdk.AssetBase
}

// addLiquidity deposits both assets and mints pool shares. The first deposit
// sets shares = sqrt(a*b); later deposits must match the pool ratio within
// the configured tolerance or are trimmed to the smaller proportional amount,
// with the untaken remainder simply left in the caller's account.
func addLiquidity(ctx *txContext, cfg *Config, amountA, amountB Amount) (usedA, usedB, shares Amount, errOut *Err) {
	if amountA == 0 || amountB == 0 {
		return 0, 0, 0, arithErr(SymZeroAmount, "liquidity amounts must be positive")
	}
	pool, err := loadPool(ctx)
	if err != nil {
		return 0, 0, 0, err
	}
	if pool == nil {
		pool = &LiquidityPool{}
	}

	usedA, usedB = amountA, amountB
	if pool.TotalShares == 0 {
		sq := new(uint256.Int).Mul(u256(amountA), u256(amountB))
		sq.Sqrt(sq)
		shares = Amount(sq.Uint64())
	} else {
		// Optimal B for the offered A at the current ratio.
		bOpt, e := mulDiv(amountA, pool.ReserveB, pool.ReserveA)
		if e != nil {
			return 0, 0, 0, e
		}
		if !withinTolerance(amountB, bOpt, cfg.RatioToleranceBps) {
			if amountB > bOpt {
				usedB = bOpt
			} else {
				if usedA, e = mulDiv(amountB, pool.ReserveA, pool.ReserveB); e != nil {
					return 0, 0, 0, e
				}
			}
		}
		sharesA, e := mulDiv(usedA, pool.TotalShares, pool.ReserveA)
		if e != nil {
			return 0, 0, 0, e
		}
		sharesB, e := mulDiv(usedB, pool.TotalShares, pool.ReserveB)
		if e != nil {
			return 0, 0, 0, e
		}
		shares = sharesA
		if sharesB < shares {
			shares = sharesB
		}
	}
	if shares == 0 || usedA == 0 || usedB == 0 {
		return 0, 0, 0, arithErr(SymZeroAmount, "deposit too small to mint shares")
	}

	caller := ctx.caller()
	if e := move(ctx, cfg, caller, sdk.PoolAddress, sdk.AssetToken, usedA); e != nil {
		return 0, 0, 0, e
	}
	if e := move(ctx, cfg, caller, sdk.PoolAddress, sdk.AssetBase, usedB); e != nil {
		return 0, 0, 0, e
	}

	pool.ReserveA += usedA
	pool.ReserveB += usedB
	pool.TotalShares += shares
	savePool(ctx, pool)
	setLPShares(ctx, caller, getLPShares(ctx, caller)+shares)

	appendAudit(ctx, "add_liquidity", fmt.Sprintf("%d|%d|%d", usedA, usedB, shares))
	emitLiquidityEvent(ctx, "add", caller, usedA, usedB, shares)
	return usedA, usedB, shares, nil
}

// withinTolerance checks |got - want| <= want * tolBps / 10000.
func withinTolerance(got, want Amount, tolBps Bps) bool {
	var diff Amount
	if got > want {
		diff = got - want
	} else {
		diff = want - got
	}
	limit, _ := mulBps(want, tolBps)
	return diff <= limit
}

// removeLiquidity burns shares and pays out the proportional reserves,
// rounded down; rounding dust stays in the pool.
func removeLiquidity(ctx *txContext, cfg *Config, shares Amount) (outA, outB Amount, errOut *Err) {
	if shares == 0 {
		return 0, 0, arithErr(SymZeroAmount, "shares must be positive")
	}
	pool, err := loadPool(ctx)
	if err != nil {
		return 0, 0, err
	}
	if pool == nil || pool.TotalShares == 0 {
		return 0, 0, arithErr(SymEmptyPool, "no liquidity outstanding")
	}
	caller := ctx.caller()
	held := getLPShares(ctx, caller)
	if shares > held {
		return 0, 0, stateErr(SymInsufficientShares, "%s holds %d shares, needs %d", caller, held, shares)
	}

	if outA, err = mulDiv(pool.ReserveA, shares, pool.TotalShares); err != nil {
		return 0, 0, err
	}
	if outB, err = mulDiv(pool.ReserveB, shares, pool.TotalShares); err != nil {
		return 0, 0, err
	}

	if e := move(ctx, cfg, sdk.PoolAddress, caller, sdk.AssetToken, outA); e != nil {
		return 0, 0, e
	}
	if e := move(ctx, cfg, sdk.PoolAddress, caller, sdk.AssetBase, outB); e != nil {
		return 0, 0, e
	}

	pool.ReserveA -= outA
	pool.ReserveB -= outB
	pool.TotalShares -= shares
	savePool(ctx, pool)
	setLPShares(ctx, caller, held-shares)

	appendAudit(ctx, "remove_liquidity", fmt.Sprintf("%d|%d|%d", shares, outA, outB))
	emitLiquidityEvent(ctx, "remove", caller, outA, outB, shares)
	return outA, outB, nil
}

// poolSwap executes one trade for the given account. The fee is deducted
// from the input before the curve math, but the full gross input lands in the
// reserve, which is exactly how the product grows by the retained fee.
func poolSwap(ctx *txContext, cfg *Config, trader sdk.Address, side SwapSide, amountIn, minOut Amount) (Amount, *Err) {
	if amountIn == 0 {
		return 0, arithErr(SymZeroAmount, "swap input must be positive")
	}
	pool, err := loadPool(ctx)
	if err != nil {
		return 0, err
	}
	if pool == nil || pool.ReserveA == 0 || pool.ReserveB == 0 {
		return 0, arithErr(SymEmptyPool, "swap against empty reserves")
	}

	reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
	if side == SideBase {
		reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
	}

	inNet, _ := mulBps(amountIn, BpsDenom-cfg.FeeBps)
	// amount_out = reserve_out - k/(reserve_in + in_net), with the
	// division rounded up so the product can only grow.
	kept, err := mulDivUp(reserveIn, reserveOut, reserveIn+inNet)
	if err != nil {
		return 0, err
	}
	if kept >= reserveOut {
		return 0, arithErr(SymZeroAmount, "swap input too small for current reserves")
	}
	amountOut := reserveOut - kept
	if amountOut < minOut {
		return 0, stateErr(SymSlippageExceeded, "out %d below minimum %d", amountOut, minOut)
	}

	assetIn, assetOut := sideAssets(side)
	if e := move(ctx, cfg, trader, sdk.PoolAddress, assetIn, amountIn); e != nil {
		return 0, e
	}
	if e := move(ctx, cfg, sdk.PoolAddress, trader, assetOut, amountOut); e != nil {
		return 0, e
	}

	before := pool.product()
	if side == SideBase {
		pool.ReserveB += amountIn
		pool.ReserveA -= amountOut
	} else {
		pool.ReserveA += amountIn
		pool.ReserveB -= amountOut
	}
	if pool.product().Lt(before) {
		return 0, arithErr(SymOverflow, "product invariant violated")
	}
	savePool(ctx, pool)

	appendAudit(ctx, "swap", fmt.Sprintf("%s|%d|%d", side, amountIn, amountOut))
	emitSwapEvent(ctx, trader, side, amountIn, amountOut, pool.ReserveA, pool.ReserveB)
	return amountOut, nil
}

// buyback swaps treasury base funds for the token and either burns the
// proceeds or returns them to the treasury, per configured policy. The
// authorization check lives with the callers (admin entrypoint or proposal
// execution); by the time we are here the capability is settled.
func buyback(ctx *txContext, cfg *Config, amount, minOut Amount) (Amount, *Err) {
	got, err := poolSwap(ctx, cfg, sdk.TreasuryAddress, SideBase, amount, minOut)
	if err != nil {
		return 0, err
	}
	if cfg.BuybackBurn {
		if e := burn(ctx, sdk.TreasuryAddress, got); e != nil {
			return 0, e
		}
	}
	appendAudit(ctx, "buyback", fmt.Sprintf("%d|%d|%t", amount, got, cfg.BuybackBurn))
	return got, nil
}

// quote returns the pool price reserve_b/reserve_a at fixed-point precision.
// Pure read, no side effects.
func quote(ctx *txContext) (Amount, *Err) {
	pool, err := loadPool(ctx)
	if err != nil {
		return 0, err
	}
	if pool == nil || pool.ReserveA == 0 {
		return 0, arithErr(SymEmptyPool, "no reserves to quote")
	}
	return mulDiv(pool.ReserveB, AmountScale, pool.ReserveA)
}
