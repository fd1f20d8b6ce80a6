package contract

import (
	"fmt"
	"strconv"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Engine
// -----------------------------------------------------------------------------
//
// Engine is the single entry surface of the contract: the host hands it one
// (env, action, payload) triple at a time, already ordered. Each call runs
// against a journal and either commits whole or leaves the store untouched.

type Engine struct {
	state sdk.State
	sink  sdk.EventSink
}

// New wraps a host state. The sink may be nil when nobody listens.
func New(state sdk.State, sink sdk.EventSink) *Engine {
	return &Engine{state: state, sink: sink}
}

// Dispatch applies one named action. On success the returned string is the
// JSON result envelope and the journaled writes are committed; on error the
// envelope carries the rejection symbol and nothing is written, except that
// a denied capability check is recorded through its own one-entry
// transaction so the refusal itself survives.
func (e *Engine) Dispatch(env sdk.Env, action, payload string) (string, error) {
	ctx := newTxContext(env, e.state)
	details, err := e.call(ctx, action, payload)
	if err != nil {
		if err.Kind == KindAuth {
			e.recordDenied(env, action)
		}
		return errResult(err), err
	}
	ctx.st.commit()
	e.flush(ctx.events)
	return okResult(details), nil
}

// recordDenied writes the auth-failure audit entry in a fresh transaction,
// after the failed call's journal is already gone.
func (e *Engine) recordDenied(env sdk.Env, action string) {
	ctx := newTxContext(env, e.state)
	appendAudit(ctx, "auth_denied", action+"|"+env.Caller.String())
	emitAuthDeniedEvent(ctx, action, env.Caller)
	ctx.st.commit()
	e.flush(ctx.events)
}

func (e *Engine) flush(events []string) {
	if e.sink == nil {
		return
	}
	for _, line := range events {
		e.sink(line)
	}
}

func (e *Engine) call(ctx *txContext, action, payload string) (map[string]any, *Err) {
	if action == "genesis" {
		return e.genesis(ctx, payload)
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	switch action {
	case "mint":
		return e.mint(ctx, cfg, payload)
	case "credit":
		return e.adjust(ctx, cfg, payload, true)
	case "debit":
		return e.adjust(ctx, cfg, payload, false)
	case "deposit_base":
		return e.settleBase(ctx, cfg, payload, true)
	case "withdraw_base":
		return e.settleBase(ctx, cfg, payload, false)
	case "balance":
		return e.balance(ctx, payload)
	case "add_liquidity":
		return e.addLiquidity(ctx, cfg, payload)
	case "remove_liquidity":
		return e.removeLiquidity(ctx, cfg, payload)
	case "swap":
		return e.swap(ctx, cfg, payload)
	case "buyback":
		return e.buyback(ctx, cfg, payload)
	case "quote":
		return e.quote(ctx)
	case "submit_proposal":
		return e.submitProposal(ctx, cfg, payload)
	case "cast_vote":
		return e.castVote(ctx, cfg, payload)
	case "finalize":
		return e.finalize(ctx, cfg, payload)
	case "execute":
		return e.execute(ctx, cfg, payload)
	case "cancel_proposal":
		return e.cancelProposal(ctx, payload)
	case "config":
		return e.configView(cfg)
	case "proposal":
		return e.proposalView(ctx, payload)
	case "audit_tail":
		return e.auditTail(ctx, payload)
	default:
		return nil, policyErr(SymUnknownAction, "no action %q", action)
	}
}

// genesis validates and seeds the engine. The caller becomes the bootstrap
// admin; everything after goes through governance or admin capability.
func (e *Engine) genesis(ctx *txContext, payload string) (map[string]any, *Err) {
	if ptr := ctx.st.Get(keyConfig); ptr != nil {
		return nil, stateErr(SymAlreadyInitialized, "genesis already ran")
	}
	args, err := FromJSON[GenesisArgs](payload)
	if err != nil {
		return nil, err
	}
	cfg := args.Config
	if cfg.TotalSupplyCap == 0 {
		return nil, policyErr(SymInvalidPayload, "total supply cap must be positive")
	}
	if cfg.HalvingInterval == 0 {
		return nil, policyErr(SymInvalidPayload, "halving interval must be positive")
	}
	if cfg.InitialBlockRwd == 0 {
		return nil, policyErr(SymInvalidPayload, "initial block reward must be positive")
	}
	if cfg.MinVotingPeriod <= 0 || cfg.MaxVotingPeriod < cfg.MinVotingPeriod {
		return nil, policyErr(SymInvalidPayload, "voting period bounds out of order")
	}
	if cfg.TimelockDuration < 0 || cfg.ExecutionWindow < 0 {
		return nil, policyErr(SymInvalidPayload, "timelock and execution window must be non-negative")
	}
	if cfg.QuorumBps > BpsDenom || cfg.ApprovalBps > BpsDenom || cfg.FeeBps > BpsDenom {
		return nil, policyErr(SymInvalidPayload, "bps parameter exceeds %d", BpsDenom)
	}
	if err := validateAllocation(cfg.Alloc); err != nil {
		return nil, err
	}
	if err := validateTeamWeights(cfg.Team); err != nil {
		return nil, err
	}
	caller := ctx.caller()
	if !caller.IsValid() || caller.IsInternal() {
		return nil, policyErr(SymInvalidPayload, "invalid genesis caller %q", caller)
	}

	cfg.Version = 1
	saveConfig(ctx, &cfg)
	saveIssuance(ctx, &IssuanceState{StartHeight: args.StartHeight})
	grantAdmin(ctx, caller)
	appendAudit(ctx, "genesis", payload)
	emitGenesisEvent(ctx, caller.String(), uint64(cfg.TotalSupplyCap))
	return map[string]any{
		"admin":        caller.String(),
		"start_height": args.StartHeight,
	}, nil
}

func (e *Engine) mint(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	if err := requireAdmin(ctx, "mint"); err != nil {
		return nil, err
	}
	args, err := FromJSON[MintArgs](payload)
	if err != nil {
		return nil, err
	}
	height := args.Height
	if height == 0 {
		height = ctx.height()
	}
	reward, err := mint(ctx, cfg, height)
	if err != nil {
		return nil, err
	}
	return map[string]any{"height": height, "reward": reward}, nil
}

// adjust is the admin ledger entrypoint shared by credit and debit.
func (e *Engine) adjust(ctx *txContext, cfg *Config, payload string, isCredit bool) (map[string]any, *Err) {
	kind, code := "debit", "db"
	if isCredit {
		kind, code = "credit", "cr"
	}
	if err := requireAdmin(ctx, kind); err != nil {
		return nil, err
	}
	args, err := FromJSON[TransferArgs](payload)
	if err != nil {
		return nil, err
	}
	asset, err := resolveAsset(args.Asset)
	if err != nil {
		return nil, err
	}
	if !args.Identity.IsValid() {
		return nil, policyErr(SymInvalidPayload, "invalid identity %q", args.Identity)
	}
	if args.Amount == 0 {
		return nil, policyErr(SymZeroAmount, "amount must be positive")
	}
	if isCredit {
		err = credit(ctx, cfg, args.Identity, asset, args.Amount)
	} else {
		err = debit(ctx, args.Identity, asset, args.Amount)
	}
	if err != nil {
		return nil, err
	}
	appendAudit(ctx, kind, fmt.Sprintf("%s|%s|%d", args.Identity, asset, args.Amount))
	emitTransferEvent(ctx, code, args.Identity, asset, args.Amount)
	return map[string]any{
		"identity": args.Identity.String(),
		"asset":    string(asset),
		"balance":  getBalance(ctx, args.Identity, asset),
	}, nil
}

// settleBase books base-asset movement confirmed off-engine by the host.
func (e *Engine) settleBase(ctx *txContext, cfg *Config, payload string, deposit bool) (map[string]any, *Err) {
	kind, code := "withdraw_base", "wd"
	if deposit {
		kind, code = "deposit_base", "dp"
	}
	if err := requireAdmin(ctx, kind); err != nil {
		return nil, err
	}
	args, err := FromJSON[TransferArgs](payload)
	if err != nil {
		return nil, err
	}
	if !args.Identity.IsValid() {
		return nil, policyErr(SymInvalidPayload, "invalid identity %q", args.Identity)
	}
	if args.Amount == 0 {
		return nil, policyErr(SymZeroAmount, "amount must be positive")
	}
	if deposit {
		err = credit(ctx, cfg, args.Identity, sdk.AssetBase, args.Amount)
	} else {
		err = debit(ctx, args.Identity, sdk.AssetBase, args.Amount)
	}
	if err != nil {
		return nil, err
	}
	appendAudit(ctx, kind, fmt.Sprintf("%s|%d", args.Identity, args.Amount))
	emitTransferEvent(ctx, code, args.Identity, sdk.AssetBase, args.Amount)
	return map[string]any{
		"identity": args.Identity.String(),
		"balance":  getBalance(ctx, args.Identity, sdk.AssetBase),
	}, nil
}

func (e *Engine) balance(ctx *txContext, payload string) (map[string]any, *Err) {
	args, err := FromJSON[BalanceArgs](payload)
	if err != nil {
		return nil, err
	}
	asset, err := resolveAsset(args.Asset)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"identity": args.Identity.String(),
		"asset":    string(asset),
		"balance":  getBalance(ctx, args.Identity, asset),
	}, nil
}

func (e *Engine) addLiquidity(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[AddLiquidityArgs](payload)
	if err != nil {
		return nil, err
	}
	usedA, usedB, shares, err := addLiquidity(ctx, cfg, args.AmountA, args.AmountB)
	if err != nil {
		return nil, err
	}
	return map[string]any{"used_a": usedA, "used_b": usedB, "shares": shares}, nil
}

func (e *Engine) removeLiquidity(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[RemoveLiquidityArgs](payload)
	if err != nil {
		return nil, err
	}
	outA, outB, err := removeLiquidity(ctx, cfg, args.Shares)
	if err != nil {
		return nil, err
	}
	return map[string]any{"amount_a": outA, "amount_b": outB}, nil
}

func (e *Engine) swap(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[SwapArgs](payload)
	if err != nil {
		return nil, err
	}
	side, err := parseSide(args.Side)
	if err != nil {
		return nil, err
	}
	out, err := poolSwap(ctx, cfg, ctx.caller(), side, args.AmountIn, args.MinOut)
	if err != nil {
		return nil, err
	}
	return map[string]any{"amount_out": out}, nil
}

// buyback spends treasury base funds on the pool. Admin capability gates the
// direct entrypoint; governance reaches the same code through a proposal.
func (e *Engine) buyback(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	if err := requireAdmin(ctx, "buyback"); err != nil {
		return nil, err
	}
	args, err := FromJSON[BuybackArgs](payload)
	if err != nil {
		return nil, err
	}
	got, err := buyback(ctx, cfg, args.Amount, args.MinOut)
	if err != nil {
		return nil, err
	}
	return map[string]any{"amount_out": got, "burned": cfg.BuybackBurn}, nil
}

func (e *Engine) quote(ctx *txContext) (map[string]any, *Err) {
	price, err := quote(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"price": price, "scale": AmountScale}, nil
}

func (e *Engine) submitProposal(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[SubmitProposalArgs](payload)
	if err != nil {
		return nil, err
	}
	id, err := submitProposal(ctx, cfg, args.Title, args.Description, args.VotingPeriod, args.Action)
	if err != nil {
		return nil, err
	}
	return map[string]any{"proposal_id": id}, nil
}

func (e *Engine) castVote(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[VoteArgs](payload)
	if err != nil {
		return nil, err
	}
	choice, err := parseChoice(args.Choice)
	if err != nil {
		return nil, err
	}
	weight, err := castVote(ctx, cfg, args.ProposalID, choice)
	if err != nil {
		return nil, err
	}
	return map[string]any{"proposal_id": args.ProposalID, "weight": weight}, nil
}

func (e *Engine) finalize(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[ProposalRefArgs](payload)
	if err != nil {
		return nil, err
	}
	status, err := finalize(ctx, cfg, args.ProposalID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"proposal_id": args.ProposalID, "status": status.String()}, nil
}

func (e *Engine) execute(ctx *txContext, cfg *Config, payload string) (map[string]any, *Err) {
	args, err := FromJSON[ProposalRefArgs](payload)
	if err != nil {
		return nil, err
	}
	status, err := execute(ctx, cfg, args.ProposalID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"proposal_id": args.ProposalID, "status": status.String()}, nil
}

func (e *Engine) cancelProposal(ctx *txContext, payload string) (map[string]any, *Err) {
	args, err := FromJSON[ProposalRefArgs](payload)
	if err != nil {
		return nil, err
	}
	if err := cancelProposal(ctx, args.ProposalID); err != nil {
		return nil, err
	}
	return map[string]any{"proposal_id": args.ProposalID, "status": ProposalCancelled.String()}, nil
}

func (e *Engine) configView(cfg *Config) (map[string]any, *Err) {
	return map[string]any{"config": cfg}, nil
}

func (e *Engine) proposalView(ctx *txContext, payload string) (map[string]any, *Err) {
	args, err := FromJSON[ProposalRefArgs](payload)
	if err != nil {
		return nil, err
	}
	p, err := loadProposal(ctx, args.ProposalID)
	if err != nil {
		return nil, err
	}
	return map[string]any{"proposal": viewProposal(p)}, nil
}

// auditTail returns the newest entries, newest first.
func (e *Engine) auditTail(ctx *txContext, payload string) (map[string]any, *Err) {
	args, err := FromJSON[AuditTailArgs](payload)
	if err != nil {
		return nil, err
	}
	limit := args.Limit
	if limit == 0 {
		limit = 20
	}
	total := auditLen(ctx)
	entries := make([]AuditEntryView, 0, limit)
	for seq := total; seq > 0 && uint64(len(entries)) < limit; seq-- {
		entry, err := loadAuditEntry(ctx, seq-1)
		if err != nil {
			return nil, err
		}
		entries = append(entries, viewAuditEntry(entry))
	}
	return map[string]any{"total": strconv.FormatUint(total, 10), "entries": entries}, nil
}

// requireAdmin gates the host-settlement entrypoints.
func requireAdmin(ctx *txContext, action string) *Err {
	if !isAdmin(ctx, ctx.caller()) {
		return authErr(SymUnauthorized, "%s requires admin capability, caller %s", action, ctx.caller())
	}
	return nil
}

// resolveAsset defaults undeclared assets to the governance token and rejects
// anything outside the two-asset ledger.
func resolveAsset(a sdk.Asset) (sdk.Asset, *Err) {
	switch a {
	case "":
		return sdk.AssetToken, nil
	case sdk.AssetToken, sdk.AssetBase:
		return a, nil
	default:
		return "", policyErr(SymInvalidPayload, "unknown asset %q", a)
	}
}
