package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chainvault-network/custodian/cmd/custodian/commands"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "custodian",
		Short: "A custodial account service for EVM ledgers",
		Long: `A custodial account service that generates and stores key pairs and relays
native and token transfers to a remote ledger network, with gas estimation,
retry on transient failure and receipt-based confirmation.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.StartCmd)
	rootCmd.AddCommand(commands.CreateAccountCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
