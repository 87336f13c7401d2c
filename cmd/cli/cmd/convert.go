// Package cmd - convert command
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rf-compliance/core/sparam"
)

// convertCmd converts between equivalent match metrics.
var convertCmd = &cobra.Command{
	Use:   "convert vswr <value>",
	Short: "Convert a VSWR value to return loss",
	Long: `Convert a voltage standing wave ratio to the equivalent return loss
in dB. VSWR values below 1.0 are physically impossible and rejected.

Examples:
  rf-compliance convert vswr 1.5
  rf-compliance convert vswr 2.0`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] != "vswr" {
			return fmt.Errorf("unknown conversion %q (only vswr is supported)", args[0])
		}

		vswr, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid VSWR value: %s", args[1])
		}

		rl, err := sparam.VSWRToReturnLoss(vswr)
		if err != nil {
			return err
		}

		fmt.Printf("VSWR %.4g = %.2f dB return loss\n", vswr, rl)
		return nil
	},
}
