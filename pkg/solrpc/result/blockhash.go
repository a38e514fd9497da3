// Package result contains typed fragments of Solana RPC results that the
// client needs to decode for its own operation. The public client surface
// returns raw responses, so only the handful of shapes inspected internally
// live here.
package result

type (
	// Context is the slot-stamped context Solana attaches to account-scan
	// style results.
	Context struct {
		Slot uint64 `json:"slot"`
	}

	// FeeCalculator contains the fee schedule reported alongside a
	// blockhash.
	FeeCalculator struct {
		LamportsPerSignature uint64 `json:"lamportsPerSignature"`
	}

	// BlockhashValue is the inner value of a getRecentBlockhash result.
	BlockhashValue struct {
		Blockhash     string        `json:"blockhash"`
		FeeCalculator FeeCalculator `json:"feeCalculator"`
	}

	// RecentBlockhash maps the result of the getRecentBlockhash call.
	RecentBlockhash struct {
		Context Context        `json:"context"`
		Value   BlockhashValue `json:"value"`
	}
)
