package contract

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------
//
// All keys are printable: prefix, colon, decimal ids, pipe separators. The
// host KV, the JSON snapshot and the SQLite store all round-trip them as-is.

const (
	// keyConfig stores the versioned Config record.
	keyConfig = "cfg"
	// keyIssuance stores the IssuanceState singleton.
	keyIssuance = "iss"
	// keyPool stores the LiquidityPool singleton.
	keyPool = "pool"
	// prefixAccount stores one balance per (identity, asset).
	prefixAccount = "acct:"
	// prefixLPShare stores one LP share balance per holder.
	prefixLPShare = "lp:"
	// prefixProposal stores encoded Proposal records by id.
	prefixProposal = "prpsl:"
	// prefixVote stores VoteReceipt records by (proposal, voter).
	prefixVote = "vote:"
	// prefixAdmin flags identities holding the admin capability.
	prefixAdmin = "adm:"
	// prefixAudit stores AuditEntry records by sequence number.
	prefixAudit = "audit:"
)

// -----------------------------------------------------------------------------
// Counter Keys
// -----------------------------------------------------------------------------

const (
	// ProposalsCount holds an integer counter for proposals (used for
	// generating IDs).
	ProposalsCount = "count:props"
	// AuditCount holds the next audit sequence number.
	AuditCount = "count:audit"
)

// -----------------------------------------------------------------------------
// Validation Limits
// -----------------------------------------------------------------------------

const (
	// MaxTitleLength limits the size of proposal titles.
	MaxTitleLength = 200
	// MaxDescriptionLength limits the size of proposal descriptions.
	MaxDescriptionLength = 5000
	// MaxHalvings before the reward is pinned to zero; matches the
	// 64-bit shift limit.
	MaxHalvings = 64
)
