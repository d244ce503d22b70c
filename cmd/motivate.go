package cmd

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/karolswdev/campuscare/internal/resources"
)

var motivateCmd = &cobra.Command{
	Use:   "motivate",
	Short: "Print a motivational quote",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetUint64("seed")
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		return motivateRunE(resources.NewQuotes(rand.New(rand.NewPCG(seed, seed>>1))), cmd.OutOrStdout())
	},
}

func init() {
	motivateCmd.Flags().Uint64("seed", 0, "Seed for quote selection (0 picks one at random)")
	rootCmd.AddCommand(motivateCmd)
}

func motivateRunE(quotes *resources.Quotes, out io.Writer) error {
	fmt.Fprintln(out, quotes.Pick())
	return nil
}
