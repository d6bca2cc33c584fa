package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var claimCmd = &cobra.Command{
	Use:   "claim <market-id>",
	Short: "Claim a payout from a resolved market",
	Long: `Pays out the caller's position. Winners receive their proportional
share of the combined pot; on a void market the net stake is refunded.
A position can be claimed once.`,
	Args: cobra.ExactArgs(1),
	RunE: runClaim,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(claimCmd)
	clientFlags(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client := newAPIClient(cmd)

	var payout struct {
		Amount uint64 `json:"amount"`
	}
	err := client.post(ctx, "/api/markets/"+args[0]+"/claim", nil, &payout)
	if err != nil {
		return err
	}

	fmt.Printf("Paid out %d\n", payout.Amount)

	return nil
}
