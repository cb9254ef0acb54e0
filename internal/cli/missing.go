package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvka-141/petl/internal/sequence"
	"github.com/vvka-141/petl/pkg/petl"
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "Find the missing number in a 1..N-1 sequence",
	Long: `Missing solves the classic integrity check: given the numbers 1..N with
exactly one of them extracted, recover the extracted number without
sorting or extra storage, using XOR cancellation.

Runs in O(N) time and O(1) space regardless of input order.

Examples:
  # Which number is missing from 1..100 when 50 was extracted?
  petl missing --extract 50

  # Smaller sequence
  petl missing --bound 5 --extract 3`,
	Args: cobra.NoArgs,
	RunE: runMissing,
}

var missingFlags struct {
	bound   int
	extract int
}

func init() {
	rootCmd.AddCommand(missingCmd)

	missingCmd.Flags().IntVar(&missingFlags.bound, "bound", petl.DefaultMissingBound,
		"Upper bound N of the sequence 1..N")
	missingCmd.Flags().IntVar(&missingFlags.extract, "extract", 0,
		"The number to extract from the sequence (required)")
	_ = missingCmd.MarkFlagRequired("extract")
}

func runMissing(cmd *cobra.Command, args []string) error {
	found, err := sequence.MissingAfterExtract(missingFlags.bound, missingFlags.extract)
	if err != nil {
		return err
	}
	fmt.Printf("Missing number: %d\n", found)
	return nil
}
