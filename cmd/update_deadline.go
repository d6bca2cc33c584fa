package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var updateDeadlineCmd = &cobra.Command{
	Use:   "update-deadline <market-id>",
	Short: "Move a market's betting deadline (authority only)",
	Long: `Moves an unresolved market's betting deadline. The current deadline
must not have passed yet and the new one must lie in the future.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdateDeadline,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(updateDeadlineCmd)
	clientFlags(updateDeadlineCmd)
	updateDeadlineCmd.Flags().String("deadline", "", "New betting deadline, RFC 3339 (required)")
	_ = updateDeadlineCmd.MarkFlagRequired("deadline")
}

func runUpdateDeadline(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	rawDeadline, _ := cmd.Flags().GetString("deadline")
	deadline, err := time.Parse(time.RFC3339, rawDeadline)
	if err != nil {
		return fmt.Errorf("parse deadline: %w", err)
	}

	client := newAPIClient(cmd)

	var market types.Market
	err = client.patch(ctx, "/api/markets/"+args[0]+"/deadline", map[string]any{
		"deadline": deadline,
	}, &market)
	if err != nil {
		return err
	}

	fmt.Printf("Market %s deadline now %s\n", market.ID, market.Deadline.Format(time.RFC3339))

	return nil
}
