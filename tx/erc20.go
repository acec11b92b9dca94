package tx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// The only two ERC-20 entry points the service calls. Selectors are the
// first four bytes of the Keccak-256 of the canonical signature.
var (
	transferSelector  = methodSelector("transfer(address,uint256)")
	balanceOfSelector = methodSelector("balanceOf(address)")
)

func methodSelector(signature string) []byte {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(signature))
	return hash.Sum(nil)[:4]
}

// PackTransfer encodes a transfer(to, amount) call
func PackTransfer(to common.Address, amount *big.Int) []byte {
	data := make([]byte, 0, 4+32+32)
	data = append(data, transferSelector...)
	data = append(data, common.LeftPadBytes(to.Bytes(), 32)...)
	data = append(data, common.LeftPadBytes(amount.Bytes(), 32)...)
	return data
}

// PackBalanceOf encodes a balanceOf(owner) call
func PackBalanceOf(owner common.Address) []byte {
	data := make([]byte, 0, 4+32)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), 32)...)
	return data
}

// UnpackUint256 decodes a single uint256 return word
func UnpackUint256(ret []byte) *big.Int {
	return new(big.Int).SetBytes(ret)
}
