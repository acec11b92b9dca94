package tx

import "github.com/ethereum/go-ethereum/common"

// Asset identifies what is being transferred: the chain's native coin or an
// ERC-20 token settled through its contract.
type Asset struct {
	Symbol   string
	Contract common.Address
	Native   bool
}

// NativeAsset returns the native-coin asset for the given symbol
func NativeAsset(symbol string) Asset {
	return Asset{Symbol: symbol, Native: true}
}

// TokenAsset returns an ERC-20 asset backed by the given contract
func TokenAsset(symbol string, contract common.Address) Asset {
	return Asset{Symbol: symbol, Contract: contract}
}
