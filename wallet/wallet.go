package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Account is a generated ledger identity. The private key is hex encoded
// and must never be logged; durable persistence is the caller's job.
type Account struct {
	Address    common.Address
	PrivateKey string
}

// Generate creates a fresh secp256k1 key pair and its derived address
func Generate() (Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Account{}, fmt.Errorf("key generation: %v", err)
	}
	return Account{
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, nil
}

// DeriveAddress recovers the address belonging to a private key
func DeriveAddress(privHex string) (common.Address, error) {
	key, err := parseKey(privHex)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Sign produces an EIP-155 signed transaction. Deterministic for a given
// key and payload, no I/O.
func Sign(unsigned *types.Transaction, privHex string, chainID *big.Int) (*types.Transaction, error) {
	key, err := parseKey(privHex)
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(unsigned, types.NewEIP155Signer(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("%w: signing: %v", ErrInvalidKey, err)
	}
	return signed, nil
}

func parseKey(privHex string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, nil
}
