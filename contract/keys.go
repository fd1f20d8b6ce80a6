package contract

import (
	"strconv"

	"tokengov/sdk"
)

// accountKey builds the storage key for one (identity, asset) balance.
func accountKey(id sdk.Address, asset sdk.Asset) string {
	return prefixAccount + asset.String() + "|" + id.String()
}

// lpShareKey stores a provider's pool-share balance.
func lpShareKey(holder sdk.Address) string {
	return prefixLPShare + holder.String()
}

// proposalKey builds a storage key for a proposal by ID.
func proposalKey(id uint64) string {
	return prefixProposal + strconv.FormatUint(id, 10)
}

// voteKey keys one receipt per (proposal, voter), which is what makes double
// voting structurally impossible.
func voteKey(proposalID uint64, voter sdk.Address) string {
	return prefixVote + strconv.FormatUint(proposalID, 10) + "|" + voter.String()
}

// adminKey flags an identity as holding the admin capability.
func adminKey(id sdk.Address) string {
	return prefixAdmin + id.String()
}

// auditKey addresses one audit entry by sequence number.
func auditKey(seq uint64) string {
	return prefixAudit + strconv.FormatUint(seq, 10)
}
