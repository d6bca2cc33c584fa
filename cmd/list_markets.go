package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mselser95/parimutuel-engine/pkg/types"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listMarketsCmd = &cobra.Command{
	Use:   "list-markets",
	Short: "List markets on a running engine instance",
	RunE:  runListMarkets,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(listMarketsCmd)
	clientFlags(listMarketsCmd)
	listMarketsCmd.Flags().BoolP("verbose", "v", false, "Show pools and escrow accounts")
}

func runListMarkets(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	verbose, _ := cmd.Flags().GetBool("verbose")
	client := newAPIClient(cmd)

	var markets []types.Market
	err := client.get(ctx, "/api/markets", &markets)
	if err != nil {
		return err
	}

	if len(markets) == 0 {
		fmt.Println("No markets found.")
		return nil
	}

	now := time.Now()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tSTATE\tDEADLINE\tOUTCOME\n")
	fmt.Fprintf(w, "--\t-----\t--------\t-------\n")

	for i := range markets {
		m := &markets[i]

		outcome := "-"
		if m.Resolved {
			outcome = m.WinningOutcome.String()
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			m.ID, m.State(now), m.Deadline.Format(time.RFC3339), outcome)

		if verbose {
			fmt.Fprintf(w, "\tPool YES: %d, Pool NO: %d, Fees: %d\n",
				m.PoolYes, m.PoolNo, m.FeesAccrued)
			fmt.Fprintf(w, "\tEscrow: %s\n", m.EscrowAccount.Hex())
			fmt.Fprintf(w, "\n")
		}
	}

	w.Flush()

	fmt.Printf("\nTotal: %d markets\n", len(markets))

	return nil
}
