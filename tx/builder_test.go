package tx

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	testTo    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testToken = common.HexToAddress("0x7a816c115b8aed1fee7029dd490613f20063b9c3")
)

func testParams() NetworkParams {
	return NetworkParams{
		Nonce:       7,
		GasLimit:    100000,
		GasPriceWei: big.NewInt(100000000),
		ChainID:     big.NewInt(1000),
	}
}

func TestPackTransfer(t *testing.T) {
	t.Parallel()

	data := PackTransfer(testTo, big.NewInt(1500))

	require.Len(t, data, 4+32+32)
	require.Equal(t, "a9059cbb", hex.EncodeToString(data[:4]))
	require.Equal(t, testTo.Bytes(), data[4+12:4+32])
	require.Equal(t, big.NewInt(1500), new(big.Int).SetBytes(data[36:]))
}

func TestPackBalanceOf(t *testing.T) {
	t.Parallel()

	data := PackBalanceOf(testTo)

	require.Len(t, data, 4+32)
	require.Equal(t, "70a08231", hex.EncodeToString(data[:4]))
	require.Equal(t, testTo.Bytes(), data[4+12:])
}

func TestBuildNative(t *testing.T) {
	t.Parallel()

	unsigned, err := BuildNative(testTo, big.NewInt(12345), testParams())
	require.Nil(t, err)
	require.Equal(t, testTo, unsigned.To)
	require.Equal(t, big.NewInt(12345), unsigned.ValueWei)
	require.Empty(t, unsigned.Data)

	wire := unsigned.Tx()
	require.Equal(t, uint64(7), wire.Nonce())
	require.Equal(t, uint64(100000), wire.Gas())
	require.Equal(t, big.NewInt(100000000), wire.GasPrice())
	require.Equal(t, big.NewInt(12345), wire.Value())
}

func TestBuildNativePermitsZero(t *testing.T) {
	t.Parallel()

	// Faucet funding is configured and may legitimately be zero
	unsigned, err := BuildNative(testTo, big.NewInt(0), testParams())
	require.Nil(t, err)
	require.Equal(t, int64(0), unsigned.ValueWei.Int64())
}

func TestBuildNativeRejectsNegativeAndNil(t *testing.T) {
	t.Parallel()

	_, err := BuildNative(testTo, big.NewInt(-1), testParams())
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = BuildNative(testTo, nil, testParams())
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestBuildToken(t *testing.T) {
	t.Parallel()

	unsigned, err := BuildToken(testToken, testTo, big.NewInt(500), testParams())
	require.Nil(t, err)

	// Token transfers are sent to the contract with zero native value
	require.Equal(t, testToken, unsigned.To)
	require.Equal(t, int64(0), unsigned.ValueWei.Int64())
	require.Equal(t, PackTransfer(testTo, big.NewInt(500)), unsigned.Data)
}

func TestBuildTokenRejectsNonPositive(t *testing.T) {
	t.Parallel()

	_, err := BuildToken(testToken, testTo, big.NewInt(0), testParams())
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = BuildToken(testToken, testTo, big.NewInt(-5), testParams())
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestGasLimitAndPriceStayDistinct(t *testing.T) {
	t.Parallel()

	params := NetworkParams{
		Nonce:       1,
		GasLimit:    21000,
		GasPriceWei: big.NewInt(999),
		ChainID:     big.NewInt(1000),
	}
	unsigned, err := BuildToken(testToken, testTo, big.NewInt(1), params)
	require.Nil(t, err)

	wire := unsigned.Tx()
	require.Equal(t, uint64(21000), wire.Gas())
	require.Equal(t, big.NewInt(999), wire.GasPrice())
}

func TestCallMsgCarriesBuilderFields(t *testing.T) {
	t.Parallel()

	from := common.HexToAddress("0x2222222222222222222222222222222222222222")
	unsigned, err := BuildToken(testToken, testTo, big.NewInt(10), testParams())
	require.Nil(t, err)

	msg := unsigned.CallMsg(from)
	require.Equal(t, from, msg.From)
	require.Equal(t, testToken, *msg.To)
	require.Equal(t, unsigned.Data, msg.Data)
}

func TestUnpackUint256(t *testing.T) {
	t.Parallel()

	word := common.LeftPadBytes(big.NewInt(123456789).Bytes(), 32)
	require.Equal(t, big.NewInt(123456789), UnpackUint256(word))
	require.Equal(t, int64(0), UnpackUint256(nil).Int64())
}
