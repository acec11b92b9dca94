package tx

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// NetworkParams carries the network-sourced inputs of an unsigned
// transaction. Gas limit and gas price are distinct values with distinct
// sources; they must never be swapped or conflated.
type NetworkParams struct {
	Nonce       uint64
	GasLimit    uint64
	GasPriceWei *big.Int
	ChainID     *big.Int
}

// Unsigned is a fully assembled transaction awaiting a signature
type Unsigned struct {
	To       common.Address
	ValueWei *big.Int
	Data     []byte
	Params   NetworkParams
}

// BuildNative assembles a plain value transfer. Zero amounts are accepted
// here because faucet funding is configured and may legitimately be zero;
// callers enforce positivity for user transfers.
func BuildNative(to common.Address, amountWei *big.Int, params NetworkParams) (*Unsigned, error) {
	if amountWei == nil || amountWei.Sign() < 0 {
		return nil, fmt.Errorf("%w: native transfer of %v", ErrInvalidAmount, amountWei)
	}
	return &Unsigned{
		To:       to,
		ValueWei: new(big.Int).Set(amountWei),
		Params:   params,
	}, nil
}

// BuildToken assembles an ERC-20 transfer: zero native value, call data
// encoding transfer(to, amount) against the token contract.
func BuildToken(token, to common.Address, amount *big.Int, params NetworkParams) (*Unsigned, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: token transfer of %v", ErrInvalidAmount, amount)
	}
	return &Unsigned{
		To:       token,
		ValueWei: big.NewInt(0),
		Data:     PackTransfer(to, amount),
		Params:   params,
	}, nil
}

// Tx converts the unsigned transaction into its wire representation
func (u *Unsigned) Tx() *types.Transaction {
	return types.NewTransaction(
		u.Params.Nonce,
		u.To,
		u.ValueWei,
		u.Params.GasLimit,
		u.Params.GasPriceWei,
		u.Data,
	)
}

// CallMsg returns the transaction as a gas-estimation message
func (u *Unsigned) CallMsg(from common.Address) ethereum.CallMsg {
	to := u.To
	return ethereum.CallMsg{
		From:     from,
		To:       &to,
		Value:    u.ValueWei,
		GasPrice: u.Params.GasPriceWei,
		Data:     u.Data,
	}
}
