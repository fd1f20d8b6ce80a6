package contract

import (
	"math/bits"
	"sort"

	"tokengov/sdk"
)

// -----------------------------------------------------------------------------
// Distribution Splitter
// -----------------------------------------------------------------------------
//
// Pure integer basis-point arithmetic. Both splits are exact: the three-way
// split assigns the rounding remainder to the dao share, the team split uses
// largest-remainder rounding, so shares always sum back to the input amount.

// TeamShare is one member's computed cut of the team share.
type TeamShare struct {
	Identity sdk.Address
	Amount   Amount
}

// validateAllocation rejects allocations whose shares do not cover exactly
// the whole basis-point scale.
func validateAllocation(a Allocation) *Err {
	if a.DexBps+a.TeamBps+a.DaoBps != BpsDenom {
		return policyErr(SymInvalidAllocation,
			"allocation %d+%d+%d != %d", a.DexBps, a.TeamBps, a.DaoBps, BpsDenom)
	}
	return nil
}

// validateTeamWeights rejects member sets whose weights do not sum to the
// full scale. An empty team is valid only when the team share is zero, which
// SplitTeam handles by returning no shares.
func validateTeamWeights(team []TeamMember) *Err {
	var sum Bps
	for _, m := range team {
		if !m.Identity.IsValid() {
			return policyErr(SymInvalidTeamWeights, "invalid member identity %q", m.Identity)
		}
		sum += m.Weight
	}
	if sum != BpsDenom {
		return policyErr(SymInvalidTeamWeights, "team weights sum to %d, want %d", sum, BpsDenom)
	}
	return nil
}

// mulBps computes amount * bps / 10000 in 128-bit intermediate precision and
// also returns the remainder, which the team split needs for its tie-break.
func mulBps(amount Amount, share Bps) (Amount, uint64) {
	hi, lo := bits.Mul64(uint64(amount), uint64(share))
	q, r := bits.Div64(hi, lo, uint64(BpsDenom))
	return Amount(q), r
}

// Split divides a minted amount into dex, team and dao shares. The dao share
// absorbs the rounding remainder so dex+team+dao == amount exactly.
func Split(amount Amount, alloc Allocation) (dex, team, dao Amount, err *Err) {
	if err := validateAllocation(alloc); err != nil {
		return 0, 0, 0, err
	}
	dex, _ = mulBps(amount, alloc.DexBps)
	team, _ = mulBps(amount, alloc.TeamBps)
	dao = amount - dex - team
	return dex, team, dao, nil
}

// SplitTeam allocates the team share across members proportionally by weight
// with largest-remainder-first rounding: every member gets the floor of their
// proportional cut, then the leftover units go one each to the largest
// remainders (ties broken by member order). The result sums to teamAmount
// exactly.
func SplitTeam(teamAmount Amount, team []TeamMember) ([]TeamShare, *Err) {
	if len(team) == 0 {
		if teamAmount != 0 {
			return nil, policyErr(SymInvalidTeamWeights, "team share %d with no members", teamAmount)
		}
		return nil, nil
	}
	if err := validateTeamWeights(team); err != nil {
		return nil, err
	}

	shares := make([]TeamShare, len(team))
	remainders := make([]struct {
		idx int
		rem uint64
	}, len(team))
	var assigned Amount
	for i, m := range team {
		cut, rem := mulBps(teamAmount, m.Weight)
		shares[i] = TeamShare{Identity: m.Identity, Amount: cut}
		remainders[i].idx = i
		remainders[i].rem = rem
		assigned += cut
	}

	leftover := teamAmount - assigned
	sort.SliceStable(remainders, func(a, b int) bool {
		return remainders[a].rem > remainders[b].rem
	})
	for i := Amount(0); i < leftover; i++ {
		shares[remainders[i].idx].Amount++
	}
	return shares, nil
}
