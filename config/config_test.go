package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg := DefaultConfig(home)
	cfg.Chain.RPCURL = "http://geth:8545"
	cfg.Chain.ChainID = 31337
	cfg.Keystore.EncryptionKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"
	cfg.Tokens.Registry["DAI"] = "0x6b175474e89094c44da98b954eedeac495271d0f"

	path := filepath.Join(home, ".custodian", "config.toml")
	require.Nil(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.Nil(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NotNil(t, err)
}

func TestDefaultConfigValues(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig("/home/user")
	require.Equal(t, 3, cfg.Engine.MaxAttempts)
	require.Equal(t, 2, cfg.Engine.RetryDelaySeconds)
	require.Equal(t, uint64(100000), cfg.Chain.GasLimit)
	require.Equal(t, "ETH", cfg.Tokens.NativeSymbol)
	require.Equal(t, "/home/user/.custodian/accounts", cfg.Database.AccountDBPath)
}
