package commands

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chainvault-network/custodian/api"
	"github.com/chainvault-network/custodian/config"
	"github.com/chainvault-network/custodian/engine"
	"github.com/chainvault-network/custodian/eth"
	"github.com/chainvault-network/custodian/store"
	"github.com/chainvault-network/custodian/wallet"
)

// StartCmd represents the start command
var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the custodian service",
	Long: `Start the custodian service with the configuration from ~/.custodian/config.toml.
The service exposes account creation, balance lookup and transfer endpoints and
relays transactions to the configured ledger network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startCommand()
	},
}

func startCommand() error {
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

	// Load configuration
	configPath := filepath.Join(home, ".custodian", "config.toml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	cipher, err := wallet.NewKeycipher(cfg.Keystore.EncryptionKey)
	if err != nil {
		return fmt.Errorf("keystore encryption key: %v", err)
	}

	// Initialize account database
	accounts, err := store.Open(cfg.Database.AccountDBPath, cipher)
	if err != nil {
		log.Fatalf("Failed to open account database: %v", err)
	}
	defer accounts.Close()

	// Initialize ledger client
	client, err := eth.NewClient(cfg.Chain.RPCURL)
	if err != nil {
		log.Fatalf("Failed to connect to ledger RPC at %s: %v", cfg.Chain.RPCURL, err)
	}
	defer client.Close()
	log.Infof("Connected to ledger RPC at %s", cfg.Chain.RPCURL)

	gateway := eth.NewGateway(client, cfg.Chain.GasLimit, log)

	// Event hub for the websocket feed
	hub := api.NewHub(log)
	go hub.Run()

	var gasPrice *big.Int
	if cfg.Chain.GasPriceWei > 0 {
		gasPrice = big.NewInt(cfg.Chain.GasPriceWei)
	}

	submitter := engine.New(gateway, engine.Config{
		ChainID:         big.NewInt(cfg.Chain.ChainID),
		DefaultGasLimit: cfg.Chain.GasLimit,
		GasPriceWei:     gasPrice,
		MaxAttempts:     cfg.Engine.MaxAttempts,
		RetryDelay:      time.Duration(cfg.Engine.RetryDelaySeconds) * time.Second,
		ConfirmTimeout:  time.Duration(cfg.Engine.ConfirmTimeoutSeconds) * time.Second,
		PollInterval:    time.Duration(cfg.Engine.PollIntervalMillis) * time.Millisecond,
	}, log, engine.WithEvents(hub.Publish))

	server, err := api.NewServer(accounts, gateway, submitter, hub, cfg, log)
	if err != nil {
		log.Fatalf("Failed to build API server: %v", err)
	}

	log.Infof("Starting custodian API on %s...", cfg.API.ListenAddr)
	if err := server.Start(cfg.API.ListenAddr); err != nil {
		log.Fatalf("API server failed: %v", err)
	}

	return nil
}
