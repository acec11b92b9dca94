package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// Config holds the application configuration
type Config struct {
	Chain    ChainConfig    `toml:"chain"`
	Engine   EngineConfig   `toml:"engine"`
	Faucet   FaucetConfig   `toml:"faucet"`
	Tokens   TokensConfig   `toml:"tokens"`
	Database DatabaseConfig `toml:"database"`
	Keystore KeystoreConfig `toml:"keystore"`
	API      APIConfig      `toml:"api"`
}

// ChainConfig holds ledger network settings
type ChainConfig struct {
	RPCURL      string `toml:"rpc_url"`
	ChainID     int64  `toml:"chain_id"`
	GasLimit    uint64 `toml:"gas_limit"`
	GasPriceWei int64  `toml:"gas_price_wei"` // 0 means ask the node for a price
}

// EngineConfig holds submission engine settings
type EngineConfig struct {
	MaxAttempts           int   `toml:"max_attempts"`
	RetryDelaySeconds     int   `toml:"retry_delay_seconds"`
	ConfirmTimeoutSeconds int   `toml:"confirm_timeout_seconds"`
	PollIntervalMillis    int64 `toml:"poll_interval_millis"`
}

// FaucetConfig holds the funding account for newly created wallets
type FaucetConfig struct {
	PrivateKey string `toml:"private_key"`
	FundWei    int64  `toml:"fund_wei"`
}

// TokensConfig maps token symbols to contract addresses. The native symbol
// has no registry entry and is settled as a plain value transfer.
type TokensConfig struct {
	NativeSymbol string            `toml:"native_symbol"`
	Registry     map[string]string `toml:"registry"`
}

// DatabaseConfig holds database paths
type DatabaseConfig struct {
	AccountDBPath string `toml:"account_db_path"`
}

// KeystoreConfig holds the key used to encrypt private keys at rest
type KeystoreConfig struct {
	EncryptionKey string `toml:"encryption_key"` // 32 bytes, hex encoded
}

// APIConfig holds HTTP server settings
type APIConfig struct {
	ListenAddr string `toml:"listen_addr"`
}

// LoadConfig reads from config.toml and returns Config struct
func LoadConfig(path string) (Config, error) {
	var cfg Config
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}

	err = toml.Unmarshal(file, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	return cfg, nil
}

// DefaultConfig returns the configuration written by the init command
func DefaultConfig(home string) Config {
	return Config{
		Chain: ChainConfig{
			RPCURL:      "http://localhost:8545",
			ChainID:     1000,
			GasLimit:    100000,
			GasPriceWei: 100000000, // 0.1 gwei
		},
		Engine: EngineConfig{
			MaxAttempts:           3,
			RetryDelaySeconds:     2,
			ConfirmTimeoutSeconds: 120,
			PollIntervalMillis:    500,
		},
		Faucet: FaucetConfig{
			FundWei: 10000000000, // 10 gwei
		},
		Tokens: TokensConfig{
			NativeSymbol: "ETH",
			Registry: map[string]string{
				"USDT": "0x7a816c115b8aed1fee7029dd490613f20063b9c3",
			},
		},
		Database: DatabaseConfig{
			AccountDBPath: filepath.Join(home, ".custodian", "accounts"),
		},
		API: APIConfig{
			ListenAddr: ":8000",
		},
	}
}

// SaveConfig writes the configuration as TOML to the given path
func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}
	return nil
}
