// Command knitcalc runs the knitting formulas from the shell.
//
//	knitcalc counter --count 30 --roll-per-kg 20 --needle 2640 --feeder 90 --stitch-length 2.7
//	knitcalc rolls --quantity 1250 --roll-per-kg 20
//	knitcalc parse "Single jersey, S.L. 2.7, Count 30, Wt./Roll 20 kg/roll"
//	knitcalc hash <password>
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "knitcalc",
		Short:        "Knitting production calculators",
		SilenceUsage: true,
	}
	root.AddCommand(newCounterCmd(), newRollsCmd(), newParseCmd(), newHashCmd())
	return root
}
