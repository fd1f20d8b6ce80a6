package contract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tokengov/sdk"
)

// Shared fixtures for the contract tests. Every test runs against a fresh
// in-memory store seeded with the stock config below; individual tests
// override fields before seeding when they need different policy.

const (
	testAdmin = "user:root"
	testAlice = "user:alice"
	testBob   = "user:bob"
	testCarol = "user:carol"
)

func testConfig() *Config {
	return &Config{
		Version:         1,
		TotalSupplyCap:  21_000_000_000,
		InitialBlockRwd: 5_000,
		HalvingInterval: 210_000,
		Alloc:           Allocation{DexBps: 3000, TeamBps: 1500, DaoBps: 5500},
		Team: []TeamMember{
			{Identity: testAlice, Weight: 6000},
			{Identity: testBob, Weight: 4000},
		},
		FeeBps:            30,
		RatioToleranceBps: 100,
		ProposalThreshold: 100,
		QuorumBps:         3000,
		ApprovalBps:       6000,
		MinVotingPeriod:   3_600,
		MaxVotingPeriod:   1_209_600,
		TimelockDuration:  7_200,
		ExecutionWindow:   86_400,
		BuybackBurn:       true,
	}
}

// harness owns one store and replays committed transactions against it, the
// way the host would.
type harness struct {
	t   *testing.T
	st  *sdk.MemState
	cfg *Config
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, testConfig())
}

func newHarnessWith(t *testing.T, cfg *Config) *harness {
	t.Helper()
	h := &harness{t: t, st: sdk.NewMemState(), cfg: cfg}
	ctx := h.begin(testAdmin, 0, 0)
	saveConfig(ctx, cfg)
	saveIssuance(ctx, &IssuanceState{})
	grantAdmin(ctx, testAdmin)
	ctx.st.commit()
	return h
}

func (h *harness) begin(caller sdk.Address, height uint64, ts int64) *txContext {
	return newTxContext(sdk.Env{
		Caller:    caller,
		Height:    height,
		Timestamp: ts,
		TxID:      "tx-test",
	}, h.st)
}

// run executes one committed transaction and fails the test on rejection.
func (h *harness) run(caller sdk.Address, height uint64, ts int64, fn func(ctx *txContext) *Err) {
	h.t.Helper()
	ctx := h.begin(caller, height, ts)
	require.Nil(h.t, fn(ctx))
	ctx.st.commit()
}

// runErr executes one transaction expected to fail and discards the journal.
func (h *harness) runErr(caller sdk.Address, height uint64, ts int64, fn func(ctx *txContext) *Err) *Err {
	h.t.Helper()
	ctx := h.begin(caller, height, ts)
	err := fn(ctx)
	require.NotNil(h.t, err)
	return err
}

// fund credits tokens outside the issuance path, for voting-weight setups.
func (h *harness) fund(id sdk.Address, asset sdk.Asset, amount Amount) {
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		return credit(ctx, h.cfg, id, asset, amount)
	})
}

// setCirculating pins the minted counter so quorum math has a known base.
func (h *harness) setCirculating(minted Amount) {
	h.run(testAdmin, 0, 0, func(ctx *txContext) *Err {
		is, err := loadIssuance(ctx)
		if err != nil {
			return err
		}
		is.CumulativeMinted = minted
		saveIssuance(ctx, is)
		return nil
	})
}

func (h *harness) balanceOf(id sdk.Address, asset sdk.Asset) Amount {
	ctx := h.begin(testAdmin, 0, 0)
	return getBalance(ctx, id, asset)
}

func (h *harness) proposal(id uint64) *Proposal {
	h.t.Helper()
	ctx := h.begin(testAdmin, 0, 0)
	p, err := loadProposal(ctx, id)
	require.Nil(h.t, err)
	return p
}

// seedPool funds a provider and makes the first liquidity deposit.
func (h *harness) seedPool(provider sdk.Address, amountA, amountB Amount) {
	h.fund(provider, sdk.AssetToken, amountA)
	h.fund(provider, sdk.AssetBase, amountB)
	h.run(provider, 0, 0, func(ctx *txContext) *Err {
		_, _, _, err := addLiquidity(ctx, h.cfg, amountA, amountB)
		return err
	})
}
