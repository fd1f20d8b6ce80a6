package contract

import (
	"math/bits"
	"strconv"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Ledger Account Store
// -----------------------------------------------------------------------------
//
// Balances are stored as decimal strings, one key per (identity, asset).
// Accounts appear on first credit and are never deleted. A running total of
// all governance-token balances backs the supply-cap invariant without
// scanning the whole table.

// tokenTotalKey tracks the sum of all AssetToken balances.
const tokenTotalKey = "total:" + string(sdk.AssetToken)

// getBalance reads one balance and defaults to zero for unknown accounts.
func getBalance(ctx *txContext, id sdk.Address, asset sdk.Asset) Amount {
	ptr := ctx.st.Get(accountKey(id, asset))
	if ptr == nil {
		return 0
	}
	v, err := strconv.ParseUint(*ptr, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

func setBalance(ctx *txContext, id sdk.Address, asset sdk.Asset, amount Amount) {
	ctx.st.Set(accountKey(id, asset), strconv.FormatUint(uint64(amount), 10))
}

func getTokenTotal(ctx *txContext) Amount {
	ptr := ctx.st.Get(tokenTotalKey)
	if ptr == nil {
		return 0
	}
	v, _ := strconv.ParseUint(*ptr, 10, 64)
	return Amount(v)
}

func setTokenTotal(ctx *txContext, total Amount) {
	ctx.st.Set(tokenTotalKey, strconv.FormatUint(uint64(total), 10))
}

// credit adds funds to an account. For the governance token the global
// supply-cap invariant is enforced here, so no mint or swap path can ever
// push the ledger past the cap.
func credit(ctx *txContext, cfg *Config, id sdk.Address, asset sdk.Asset, amount Amount) *Err {
	bal := getBalance(ctx, id, asset)
	sum, carry := bits.Add64(uint64(bal), uint64(amount), 0)
	if carry != 0 {
		return arithErr(SymOverflow, "balance overflow for %s", id)
	}
	if asset == sdk.AssetToken {
		total, carry := bits.Add64(uint64(getTokenTotal(ctx)), uint64(amount), 0)
		if carry != 0 || Amount(total) > cfg.TotalSupplyCap {
			return arithErr(SymOverflow, "credit of %d would exceed supply cap", amount)
		}
		setTokenTotal(ctx, Amount(total))
	}
	setBalance(ctx, id, asset, Amount(sum))
	return nil
}

// debit removes funds; fails with insufficient_balance when amount > balance.
func debit(ctx *txContext, id sdk.Address, asset sdk.Asset, amount Amount) *Err {
	bal := getBalance(ctx, id, asset)
	if amount > bal {
		return stateErr(SymInsufficientBalance, "%s holds %d, needs %d", id, bal, amount)
	}
	if asset == sdk.AssetToken {
		setTokenTotal(ctx, getTokenTotal(ctx)-amount)
	}
	setBalance(ctx, id, asset, bal-amount)
	return nil
}

// move shifts funds between two accounts in one step. The token total is
// unchanged, so this can never trip the cap.
func move(ctx *txContext, cfg *Config, from, to sdk.Address, asset sdk.Asset, amount Amount) *Err {
	if err := debit(ctx, from, asset, amount); err != nil {
		return err
	}
	return credit(ctx, cfg, to, asset, amount)
}

// -----------------------------------------------------------------------------
// LP Shares
// -----------------------------------------------------------------------------

func getLPShares(ctx *txContext, holder sdk.Address) Amount {
	ptr := ctx.st.Get(lpShareKey(holder))
	if ptr == nil {
		return 0
	}
	v, _ := strconv.ParseUint(*ptr, 10, 64)
	return Amount(v)
}

func setLPShares(ctx *txContext, holder sdk.Address, shares Amount) {
	ctx.st.Set(lpShareKey(holder), strconv.FormatUint(uint64(shares), 10))
}

// -----------------------------------------------------------------------------
// Admin Capability Set
// -----------------------------------------------------------------------------

// isAdmin checks the capability flag. The set is mutated only by genesis and
// by executed proposals, never by a direct call.
func isAdmin(ctx *txContext, id sdk.Address) bool {
	return ctx.st.Get(adminKey(id)) != nil
}

func grantAdmin(ctx *txContext, id sdk.Address) {
	ctx.st.Set(adminKey(id), "1")
}

func revokeAdmin(ctx *txContext, id sdk.Address) {
	ctx.st.Delete(adminKey(id))
}

// -----------------------------------------------------------------------------
// Counter Operations
// -----------------------------------------------------------------------------

// getCount reads the string counter under the key and defaults to zero.
func getCount(ctx *txContext, key string) uint64 {
	ptr := ctx.st.Get(key)
	if ptr == nil || *ptr == "" {
		return 0
	}
	n, _ := strconv.ParseUint(*ptr, 10, 64)
	return n
}

// setCount stores uint64 counters back as decimal strings.
func setCount(ctx *txContext, key string, n uint64) {
	ctx.st.Set(key, strconv.FormatUint(n, 10))
}
