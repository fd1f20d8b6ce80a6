package contract

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokengov/sdk"
)

func TestSplitExact(t *testing.T) {
	dex, team, dao, err := Split(5_000, Allocation{DexBps: 3000, TeamBps: 1500, DaoBps: 5500})
	require.Nil(t, err)
	assert.Equal(t, Amount(1_500), dex)
	assert.Equal(t, Amount(750), team)
	assert.Equal(t, Amount(2_750), dao)
}

// The dao share picks up whatever flooring leaves behind, so the three parts
// always sum back to the input.
func TestSplitConserves(t *testing.T) {
	alloc := Allocation{DexBps: 3333, TeamBps: 3333, DaoBps: 3334}
	for _, amount := range []Amount{1, 2, 3, 7, 999, 10_001, 123_456_789} {
		dex, team, dao, err := Split(amount, alloc)
		require.Nil(t, err)
		assert.Equal(t, amount, dex+team+dao, "amount %d", amount)
	}
}

func TestSplitZeroAmount(t *testing.T) {
	dex, team, dao, err := Split(0, Allocation{DexBps: 3000, TeamBps: 1500, DaoBps: 5500})
	require.Nil(t, err)
	assert.Zero(t, dex+team+dao)
}

func TestSplitRejectsBadAllocation(t *testing.T) {
	_, _, _, err := Split(100, Allocation{DexBps: 3000, TeamBps: 1500, DaoBps: 5000})
	require.NotNil(t, err)
	assert.Equal(t, SymInvalidAllocation, err.Symbol)
}

func TestSplitTeamExact(t *testing.T) {
	shares, err := SplitTeam(750, []TeamMember{
		{Identity: testAlice, Weight: 6000},
		{Identity: testBob, Weight: 4000},
	})
	require.Nil(t, err)
	require.Len(t, shares, 2)
	assert.Equal(t, Amount(450), shares[0].Amount)
	assert.Equal(t, Amount(300), shares[1].Amount)
}

// Remainder units go to the largest fractional parts first, and the member
// order in the result matches the config order.
func TestSplitTeamLargestRemainder(t *testing.T) {
	team := []TeamMember{
		{Identity: testAlice, Weight: 3333},
		{Identity: testBob, Weight: 3333},
		{Identity: testCarol, Weight: 3334},
	}
	shares, err := SplitTeam(100, team)
	require.Nil(t, err)
	var total Amount
	for i, s := range shares {
		assert.Equal(t, team[i].Identity, s.Identity)
		total += s.Amount
	}
	assert.Equal(t, Amount(100), total)
}

func TestSplitTeamConservesSmallAmounts(t *testing.T) {
	team := []TeamMember{
		{Identity: testAlice, Weight: 1},
		{Identity: testBob, Weight: 1},
		{Identity: testCarol, Weight: 9998},
	}
	for _, amount := range []Amount{1, 2, 3, 10, 9_999} {
		shares, err := SplitTeam(amount, team)
		require.Nil(t, err)
		var total Amount
		for _, s := range shares {
			total += s.Amount
		}
		assert.Equal(t, amount, total, "amount %d", amount)
	}
}

// Exactness holds for arbitrary allocations, team rosters and amounts, not
// just the hand-picked tables above.
func TestSplitExactRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2_000; i++ {
		dexBps := Bps(rng.Intn(int(BpsDenom) + 1))
		teamBps := Bps(rng.Intn(int(BpsDenom-dexBps) + 1))
		alloc := Allocation{DexBps: dexBps, TeamBps: teamBps, DaoBps: BpsDenom - dexBps - teamBps}

		team := make([]TeamMember, 2+rng.Intn(7))
		left := BpsDenom
		for j := range team {
			w := Bps(0)
			if j == len(team)-1 {
				w = left
			} else if left > 0 {
				w = Bps(rng.Intn(int(left) + 1))
			}
			left -= w
			team[j] = TeamMember{Identity: sdk.Address(fmt.Sprintf("user:m%d", j)), Weight: w}
		}

		amount := Amount(rng.Uint64())
		dex, teamAmt, dao, err := Split(amount, alloc)
		require.Nil(t, err, "iteration %d", i)
		require.Equal(t, amount, dex+teamAmt+dao, "iteration %d alloc %+v", i, alloc)

		shares, err := SplitTeam(teamAmt, team)
		require.Nil(t, err, "iteration %d", i)
		var total Amount
		for _, s := range shares {
			total += s.Amount
		}
		require.Equal(t, teamAmt, total, "iteration %d team %+v", i, team)
	}
}

func TestValidateTeamWeights(t *testing.T) {
	err := validateTeamWeights([]TeamMember{
		{Identity: testAlice, Weight: 6000},
		{Identity: testBob, Weight: 4001},
	})
	require.NotNil(t, err)
	assert.Equal(t, SymInvalidTeamWeights, err.Symbol)
}
