package sdk

import "strings"

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainPool     AddressDomain = "pool"
	AddressDomainTreasury AddressDomain = "treasury"
	AddressDomainSystem   AddressDomain = "system"
)

type Address string

// Well-known engine-internal identities. User addresses never carry these
// prefixes, so the split shares cannot collide with a caller.
const (
	PoolAddress     Address = "pool:dex"
	TreasuryAddress Address = "treasury:dao"
)

// String returns the literal representation of the address.
// Example payload: sdk.Address("user:alice").String()
func (a Address) String() string {
	return string(a)
}

// Domain checks the prefix to tell user identities from engine-internal ones.
// Example payload: sdk.PoolAddress.Domain()
func (a Address) Domain() AddressDomain {
	switch {
	case strings.HasPrefix(a.String(), "pool:"):
		return AddressDomainPool
	case strings.HasPrefix(a.String(), "treasury:"):
		return AddressDomainTreasury
	case strings.HasPrefix(a.String(), "system:"):
		return AddressDomainSystem
	default:
		return AddressDomainUser
	}
}

// IsInternal reports whether the address belongs to the engine rather than a
// caller. Internal balances move only through mint, swap and governance paths.
func (a Address) IsInternal() bool {
	return a.Domain() != AddressDomainUser
}

// IsValid is a light sanity check: non-empty and free of the key separator.
// Example payload: sdk.Address("user:bob").IsValid()
func (a Address) IsValid() bool {
	return a != "" && !strings.ContainsRune(a.String(), '|')
}
