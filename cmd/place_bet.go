package cmd

import (
	"context"
	"fmt"

	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var placeBetCmd = &cobra.Command{
	Use:   "place-bet <market-id>",
	Short: "Stake an amount on YES or NO",
	Long: `Deposits the gross amount into the market's escrow. A 3% fee is
carved off and the rest joins the chosen side's pool. Repeat bets must
stay on the same side and the cumulative net stake is capped at 100
whole tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlaceBet,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(placeBetCmd)
	clientFlags(placeBetCmd)
	placeBetCmd.Flags().String("outcome", "", "Side to stake on: yes or no (required)")
	placeBetCmd.Flags().Uint64("amount", 0, "Gross amount in base units (required)")
	placeBetCmd.Flags().String("asset-kind", "usd-token", "Asset being deposited")
	_ = placeBetCmd.MarkFlagRequired("outcome")
	_ = placeBetCmd.MarkFlagRequired("amount")
}

func runPlaceBet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rawOutcome, _ := cmd.Flags().GetString("outcome")
	amount, _ := cmd.Flags().GetUint64("amount")
	assetKind, _ := cmd.Flags().GetString("asset-kind")

	outcome, err := types.ParseOutcome(rawOutcome)
	if err != nil {
		return fmt.Errorf("parse outcome: %w", err)
	}

	client := newAPIClient(cmd)

	var position types.Position
	err = client.post(ctx, "/api/markets/"+args[0]+"/bets", map[string]any{
		"asset_kind": assetKind,
		"outcome":    outcome,
		"amount":     amount,
	}, &position)
	if err != nil {
		return err
	}

	fmt.Printf("Bet placed on %s\n", position.Outcome)
	fmt.Printf("  Cumulative net stake: %d\n", position.Amount)

	return nil
}
