package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "parimutuel-engine",
	Short: "Two-outcome pari-mutuel betting market engine",
	Long: `Engine for two-outcome pari-mutuel betting markets.

Bettors stake a fungible asset on YES or NO before a per-market deadline.
A 3% fee is carved off every deposit; the rest fills the chosen side's
pool. After the deadline the authority resolves the market and winners
split the combined pot in proportion to their stake. One-sided markets
void and refund net stakes.

The serve command runs the HTTP service; the other commands are thin
clients for a running instance.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
