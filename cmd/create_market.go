package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var createMarketCmd = &cobra.Command{
	Use:   "create-market",
	Short: "Create a new betting market (authority only)",
	Long: `Creates a new two-outcome market with empty pools. The deadline is
taken as given: a deadline already in the past yields a market that
never accepts bets and can only resolve to void.`,
	RunE: runCreateMarket,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(createMarketCmd)
	clientFlags(createMarketCmd)
	createMarketCmd.Flags().String("asset-kind", "usd-token", "Asset accepted by the market")
	createMarketCmd.Flags().Uint8("asset-decimals", 6, "Decimal places of the asset")
	createMarketCmd.Flags().String("deadline", "", "Betting deadline, RFC 3339 (required)")
	_ = createMarketCmd.MarkFlagRequired("deadline")
}

func runCreateMarket(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	assetKind, _ := cmd.Flags().GetString("asset-kind")
	assetDecimals, _ := cmd.Flags().GetUint8("asset-decimals")
	rawDeadline, _ := cmd.Flags().GetString("deadline")

	deadline, err := time.Parse(time.RFC3339, rawDeadline)
	if err != nil {
		return fmt.Errorf("parse deadline: %w", err)
	}

	client := newAPIClient(cmd)

	var market types.Market
	err = client.post(ctx, "/api/markets", map[string]any{
		"asset_kind":     assetKind,
		"asset_decimals": assetDecimals,
		"deadline":       deadline,
	}, &market)
	if err != nil {
		return err
	}

	fmt.Printf("Created market %s\n", market.ID)
	fmt.Printf("  Asset:    %s (%d decimals)\n", market.AssetKind, market.AssetDecimals)
	fmt.Printf("  Deadline: %s\n", market.Deadline.Format(time.RFC3339))
	fmt.Printf("  Escrow:   %s\n", market.EscrowAccount.Hex())

	return nil
}
