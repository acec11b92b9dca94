package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chainvault-network/custodian/config"
	"github.com/chainvault-network/custodian/store"
	"github.com/chainvault-network/custodian/wallet"
)

// CreateAccountCmd represents the create-account command
var CreateAccountCmd = &cobra.Command{
	Use:   "create-account [name]",
	Short: "Create a new custodial account",
	Long:  `Create a new custodial account with the specified name, offline. The key is generated locally, encrypted and stored in the account database; no faucet funding is performed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %v", err)
		}

		configPath := filepath.Join(home, ".custodian", "config.toml")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config (run init first): %v", err)
		}

		cipher, err := wallet.NewKeycipher(cfg.Keystore.EncryptionKey)
		if err != nil {
			return fmt.Errorf("keystore encryption key: %v", err)
		}

		accounts, err := store.Open(cfg.Database.AccountDBPath, cipher)
		if err != nil {
			return fmt.Errorf("failed to open account database: %v", err)
		}
		defer accounts.Close()

		acct, err := wallet.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate account: %v", err)
		}

		if err := accounts.Create(name, acct); err != nil {
			return fmt.Errorf("failed to store account: %v", err)
		}

		fmt.Printf("Account created successfully!\n")
		fmt.Printf("Name: %s\n", name)
		fmt.Printf("Address: %s\n", acct.Address.Hex())
		fmt.Println("\nThe private key is stored encrypted in the account database.")

		return nil
	},
}
