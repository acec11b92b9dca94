package wallet

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestGenerateDerivesMatchingAddress(t *testing.T) {
	t.Parallel()

	acct, err := Generate()
	require.Nil(t, err)
	require.NotEqual(t, common.Address{}, acct.Address)

	derived, err := DeriveAddress(acct.PrivateKey)
	require.Nil(t, err)
	require.Equal(t, acct.Address, derived)
}

func TestGenerateUniqueAccounts(t *testing.T) {
	t.Parallel()

	a, err := Generate()
	require.Nil(t, err)
	b, err := Generate()
	require.Nil(t, err)
	require.NotEqual(t, a.Address, b.Address)
}

func TestDeriveAddressRejectsMalformedKey(t *testing.T) {
	t.Parallel()

	_, err := DeriveAddress("not-a-key")
	require.ErrorIs(t, err, ErrInvalidKey)

	_, err = DeriveAddress("0xabcd")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignRecoversSender(t *testing.T) {
	t.Parallel()

	acct, err := Generate()
	require.Nil(t, err)

	chainID := big.NewInt(1000)
	unsigned := types.NewTransaction(3,
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(42), 21000, big.NewInt(1), nil)

	signed, err := Sign(unsigned, acct.PrivateKey, chainID)
	require.Nil(t, err)

	sender, err := types.Sender(types.NewEIP155Signer(chainID), signed)
	require.Nil(t, err)
	require.Equal(t, acct.Address, sender)
}

func TestSignIsDeterministic(t *testing.T) {
	t.Parallel()

	acct, err := Generate()
	require.Nil(t, err)

	chainID := big.NewInt(1000)
	build := func() *types.Transaction {
		return types.NewTransaction(9,
			common.HexToAddress("0x2222222222222222222222222222222222222222"),
			big.NewInt(7), 21000, big.NewInt(1), nil)
	}

	first, err := Sign(build(), acct.PrivateKey, chainID)
	require.Nil(t, err)
	second, err := Sign(build(), acct.PrivateKey, chainID)
	require.Nil(t, err)
	require.Equal(t, first.Hash(), second.Hash())
}

func TestSignRejectsMalformedKey(t *testing.T) {
	t.Parallel()

	unsigned := types.NewTransaction(0,
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		big.NewInt(1), 21000, big.NewInt(1), nil)

	_, err := Sign(unsigned, "zz", big.NewInt(1000))
	require.ErrorIs(t, err, ErrInvalidKey)
}
