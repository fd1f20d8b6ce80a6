package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpackAllocation(t *testing.T) {
	alloc, err := unpackAllocation(3000_1500_5500)
	require.Nil(t, err)
	assert.Equal(t, Allocation{DexBps: 3000, TeamBps: 1500, DaoBps: 5500}, alloc)

	// All of the scale on one share still packs cleanly.
	alloc, err = unpackAllocation(10000_0000_0000)
	require.Nil(t, err)
	assert.Equal(t, Allocation{DexBps: 10_000}, alloc)

	_, err = unpackAllocation(10001_0000_0000)
	require.NotNil(t, err)
}

func TestValidateParamBounds(t *testing.T) {
	assert.Nil(t, validateParam(ParamFeeBps, 10_000))
	assert.NotNil(t, validateParam(ParamFeeBps, 10_001))
	assert.NotNil(t, validateParam(ParamBuybackBurn, 2))
	assert.NotNil(t, validateParam("no_such_param", 1))

	// A packed allocation that does not sum to the full scale is rejected
	// before it ever reaches a ballot.
	assert.NotNil(t, validateParam(ParamAllocation, 3000_1500_5400))
}
