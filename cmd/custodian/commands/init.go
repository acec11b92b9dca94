package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chainvault-network/custodian/config"
)

// InitCmd represents the init command
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the custodian service",
	Long: `Initialize the custodian service configuration.
This command creates the data directories, a fresh key-at-rest encryption key
and a default config.toml under ~/.custodian.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd)
	},
}

func init() {
	InitCmd.Flags().String("chain.rpc-url", "http://localhost:8545", "Ledger RPC URL")
	InitCmd.Flags().Int64("chain.id", 1000, "Chain ID")
	InitCmd.Flags().String("faucet.private-key", "", "Faucet private key (hex)")
	InitCmd.Flags().String("api.listen-addr", ":8000", "API listen address")
}

func initCommand(cmd *cobra.Command) error {
	rpcURL, _ := cmd.Flags().GetString("chain.rpc-url")
	chainID, _ := cmd.Flags().GetInt64("chain.id")
	faucetKey, _ := cmd.Flags().GetString("faucet.private-key")
	listenAddr, _ := cmd.Flags().GetString("api.listen-addr")

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     true,
	})
	log.SetLevel(logrus.InfoLevel)

	// Get user's home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %v", err)
	}

	custodianDir := filepath.Join(home, ".custodian")
	if err := os.MkdirAll(filepath.Join(custodianDir, "accounts"), 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Fresh 32-byte key for encrypting private keys at rest
	rawKey := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, rawKey); err != nil {
		return fmt.Errorf("failed to generate encryption key: %v", err)
	}

	cfg := config.DefaultConfig(home)
	cfg.Chain.RPCURL = rpcURL
	cfg.Chain.ChainID = chainID
	cfg.Faucet.PrivateKey = faucetKey
	cfg.Keystore.EncryptionKey = hex.EncodeToString(rawKey)
	cfg.API.ListenAddr = listenAddr

	configPath := filepath.Join(custodianDir, "config.toml")
	if err := config.SaveConfig(configPath, cfg); err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	log.Infof("Created config file at: %s", configPath)

	fmt.Println("\n=== Configuration Summary ===")
	fmt.Printf("Ledger RPC URL: %s\n", cfg.Chain.RPCURL)
	fmt.Printf("Chain ID: %d\n", cfg.Chain.ChainID)
	fmt.Printf("Account DB: %s\n", cfg.Database.AccountDBPath)
	fmt.Printf("API Listen Addr: %s\n", cfg.API.ListenAddr)
	fmt.Printf("Config File: %s\n", configPath)

	log.Info("Initialization completed successfully!")
	log.Info("Set faucet.private_key in config.toml to enable funding of new accounts")
	log.Info("Start the service using: ./custodian start")

	return nil
}
