package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var depositCmd = &cobra.Command{
	Use:   "deposit <account>",
	Short: "Fund an account on a paper-mode instance (authority only)",
	Long: `Credits an account on an instance running the in-memory paper
bank. Instances settling against a real ledger do not expose this
route; fund accounts there instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeposit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(depositCmd)
	clientFlags(depositCmd)
	depositCmd.Flags().Uint64("amount", 0, "Amount in base units (required)")
	_ = depositCmd.MarkFlagRequired("amount")
}

func runDeposit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	amount, _ := cmd.Flags().GetUint64("amount")
	client := newAPIClient(cmd)

	var account struct {
		Balance uint64 `json:"balance"`
	}
	err := client.post(ctx, "/api/accounts/"+args[0]+"/deposit", map[string]any{
		"amount": amount,
	}, &account)
	if err != nil {
		return err
	}

	fmt.Printf("Deposited %d; balance now %d\n", amount, account.Balance)

	return nil
}
