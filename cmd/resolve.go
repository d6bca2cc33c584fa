package cmd

import (
	"context"
	"fmt"

	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resolveCmd = &cobra.Command{
	Use:   "resolve <market-id>",
	Short: "Resolve a market after its deadline (authority only)",
	Long: `Fixes the market's winning outcome. If either pool is empty the
proposed outcome is ignored and the market voids, refunding net stakes
on claim.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resolveCmd)
	clientFlags(resolveCmd)
	resolveCmd.Flags().String("outcome", "", "Winning outcome: yes or no (required)")
	_ = resolveCmd.MarkFlagRequired("outcome")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rawOutcome, _ := cmd.Flags().GetString("outcome")
	outcome, err := types.ParseOutcome(rawOutcome)
	if err != nil {
		return fmt.Errorf("parse outcome: %w", err)
	}

	client := newAPIClient(cmd)

	var market types.Market
	err = client.post(ctx, "/api/markets/"+args[0]+"/resolve", map[string]any{
		"outcome": outcome,
	}, &market)
	if err != nil {
		return err
	}

	fmt.Printf("Market %s resolved: %s\n", market.ID, market.WinningOutcome)
	fmt.Printf("  Pool YES: %d\n", market.PoolYes)
	fmt.Printf("  Pool NO:  %d\n", market.PoolNo)
	fmt.Printf("  Fees:     %d\n", market.FeesAccrued)

	return nil
}
