package sdk

type Asset string

const (
	// AssetToken is the capped-supply governance token minted on the
	// halving schedule.
	AssetToken Asset = "gov"
	// AssetBase is the counter-asset the exchange pool trades against.
	AssetBase Asset = "base"
)

// String returns the raw ticker string for logging or key building.
// Example payload: sdk.AssetToken.String()
func (a Asset) String() string {
	return string(a)
}
