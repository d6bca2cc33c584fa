package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var sweepFeesCmd = &cobra.Command{
	Use:   "sweep-fees <market-id>",
	Short: "Drain accrued fees from a market's escrow (authority only)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSweepFees,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(sweepFeesCmd)
	clientFlags(sweepFeesCmd)
}

func runSweepFees(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client := newAPIClient(cmd)

	var swept struct {
		Amount uint64 `json:"amount"`
	}
	err := client.post(ctx, "/api/markets/"+args[0]+"/sweep", nil, &swept)
	if err != nil {
		return err
	}

	fmt.Printf("Swept %d in fees\n", swept.Amount)

	return nil
}
