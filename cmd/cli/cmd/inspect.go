// Package cmd - inspect command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"rf-compliance/adapters/touchstone"
	"rf-compliance/core/measurement"
	"rf-compliance/core/rfnet"
	"rf-compliance/core/sparam"
)

var inspectLabel string

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <touchstone-file>",
	Short: "Show summary information for a Touchstone measurement",
	Long: `Load a Touchstone file and print its port count, frequency range and
filename metadata. With --label, also print the gain statistics of one
S-parameter over the full sweep.

Examples:
  rf-compliance inspect measurement.s2p
  rf-compliance inspect --label S21 measurement.s2p`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectLabel, "label", "l", "", "S-parameter label to summarize (e.g. S21)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	network, err := touchstone.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("File:       %s\n", path)
	fmt.Printf("Ports:      %d\n", network.NPorts())
	fmt.Printf("Points:     %d\n", network.NPoints())
	fmt.Printf("Frequency:  %.6g - %.6g GHz\n",
		network.MinFrequencyHz()/rfnet.GHz, network.MaxFrequencyHz()/rfnet.GHz)

	if meta, err := measurement.ParseFilename(path); err == nil {
		fmt.Printf("Serial:     %s\n", meta.SerialNumber)
		fmt.Printf("Part:       %s\n", meta.PartNumber)
		fmt.Printf("Date:       %s\n", meta.Date.Format("2006-01-02"))
		fmt.Printf("Path:       %s\n", meta.PathType)
		fmt.Printf("Temp:       %s\n", meta.Temperature)
	}

	if inspectLabel != "" {
		calc := sparam.NewCalculator()
		gains, err := calc.GainDB(network, inspectLabel)
		if err != nil {
			return err
		}
		min, max := gains[0], gains[0]
		for _, g := range gains[1:] {
			if g < min {
				min = g
			}
			if g > max {
				max = g
			}
		}
		fmt.Printf("\n%s gain:   %.2f to %.2f dB (flatness %.2f dB)\n",
			inspectLabel, min, max, max-min)
	}

	return nil
}
