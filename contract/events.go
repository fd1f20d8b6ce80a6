package contract

import (
	"fmt"

	"tokengov/sdk"
)

// Event lines are terse pipe-delimited strings so indexers can replay engine
// activity from logs alone without decoding storage.

// emitGenesisEvent announces the engine going live with its bootstrap admin.
func emitGenesisEvent(ctx *txContext, admin string, capRaw uint64) {
	ctx.emit(fmt.Sprintf("gen|adm:%s|cap:%d", admin, capRaw))
}

// emitMintEvent carries height, reward and the three split shares so supply
// accounting can be replayed from logs only.
func emitMintEvent(ctx *txContext, height uint64, reward, dex, team, dao Amount) {
	ctx.emit(fmt.Sprintf("mt|h:%d|r:%d|dx:%d|tm:%d|da:%d", height, reward, dex, team, dao))
}

// emitTransferEvent covers credit/debit/deposit/withdraw ledger movements.
func emitTransferEvent(ctx *txContext, kind string, id sdk.Address, asset sdk.Asset, amount Amount) {
	ctx.emit(fmt.Sprintf("tf|k:%s|id:%s|as:%s|am:%d", kind, id, asset, amount))
}

// emitLiquidityEvent logs deposits and withdrawals against the pool.
func emitLiquidityEvent(ctx *txContext, kind string, provider sdk.Address, amountA, amountB, shares Amount) {
	ctx.emit(fmt.Sprintf("lq|k:%s|by:%s|a:%d|b:%d|sh:%d", kind, provider, amountA, amountB, shares))
}

// emitSwapEvent includes both reserve values after the trade so the product
// invariant is checkable from the log stream.
func emitSwapEvent(ctx *txContext, trader sdk.Address, side SwapSide, in, out, reserveA, reserveB Amount) {
	ctx.emit(fmt.Sprintf("sw|by:%s|sd:%s|in:%d|out:%d|ra:%d|rb:%d", trader, side, in, out, reserveA, reserveB))
}

// emitProposalCreatedEvent pings observers for every new proposal.
func emitProposalCreatedEvent(ctx *txContext, id uint64, proposer sdk.Address) {
	ctx.emit(fmt.Sprintf("pc|id:%d|by:%s", id, proposer))
}

// emitProposalStatusEvent is the swiss army knife line for any status flip.
func emitProposalStatusEvent(ctx *txContext, id uint64, status ProposalStatus) {
	ctx.emit(fmt.Sprintf("ps|id:%d|s:%s", id, status))
}

// emitVoteCastEvent includes the snapshotted weight so tallies can be
// replayed from logs.
func emitVoteCastEvent(ctx *txContext, id uint64, voter sdk.Address, choice VoteChoice, weight Amount) {
	ctx.emit(fmt.Sprintf("v|id:%d|by:%s|c:%s|w:%d", id, voter, choice, weight))
}

// emitConfigUpdatedEvent spells out the field diff so auditors can track
// sensitive flips.
func emitConfigUpdatedEvent(ctx *txContext, proposalID uint64, field, oldVal, newVal string) {
	ctx.emit(fmt.Sprintf("cu|id:%d|f:%s|old:%s|new:%s", proposalID, field, oldVal, newVal))
}

// emitAuthDeniedEvent marks rejected privileged calls for forensic review.
func emitAuthDeniedEvent(ctx *txContext, action string, caller sdk.Address) {
	ctx.emit(fmt.Sprintf("ad|a:%s|by:%s", action, caller))
}
