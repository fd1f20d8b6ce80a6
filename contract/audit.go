package contract

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// -----------------------------------------------------------------------------
// Audit Log
// -----------------------------------------------------------------------------
//
// Every state-changing action appends one entry: strictly increasing sequence
// number, acting identity, action kind, and a digest of the action payload.
// Entries are immutable once written; the sequence counter is the only thing
// that moves.

// payloadDigest hashes the raw action payload and renders it base58 so the
// digest survives any transport that mangles binary.
func payloadDigest(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return base58.Encode(sum[:])
}

// appendAudit writes the next entry inside the current transaction. The
// entry commits or aborts together with the action it records.
func appendAudit(ctx *txContext, kind, payload string) {
	seq := getCount(ctx, AuditCount)
	e := &AuditEntry{
		Seq:       seq,
		Actor:     ctx.caller(),
		Kind:      kind,
		Digest:    payloadDigest(payload),
		Timestamp: ctx.now(),
	}
	ctx.st.Set(auditKey(seq), encodeAuditEntry(e))
	setCount(ctx, AuditCount, seq+1)
}

// loadAuditEntry reads one entry back, mainly for views and tests.
func loadAuditEntry(ctx *txContext, seq uint64) (*AuditEntry, *Err) {
	ptr := ctx.st.Get(auditKey(seq))
	if ptr == nil {
		return nil, stateErr(SymNotFound, "audit entry %d not found", seq)
	}
	e, err := decodeAuditEntry(*ptr)
	if err != nil {
		return nil, policyErr(SymInvalidPayload, "corrupt audit entry %d", seq)
	}
	return e, nil
}

// auditLen returns the number of entries written so far.
func auditLen(ctx *txContext) uint64 {
	return getCount(ctx, AuditCount)
}
