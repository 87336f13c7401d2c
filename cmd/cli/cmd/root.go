// Package cmd provides the CLI commands for rf-compliance.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rf-compliance/core/stage"
	"rf-compliance/internal/config"
	"rf-compliance/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rf-compliance",
	Short: "Evaluate S-parameter measurements against compliance criteria",
	Long: `rf-compliance is a frequency-domain compliance engine for RF devices.

It reads Touchstone S-parameter measurements, computes gain, flatness,
VSWR and out-of-band rejection metrics, and evaluates them against the
device's pass/fail criteria.

Examples:
  rf-compliance evaluate measurement.s4p device.rfspec.hcl
  rf-compliance evaluate --stage SIT --format json run1.s4p lna.rfspec.hcl
  rf-compliance inspect measurement.s2p
  rf-compliance convert vswr 1.5`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rf-compliance/config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("rf-compliance version 0.1.0")
	},
}

// stagesCmd lists the standard test stages
var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List the standard test stages",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range stage.Stages() {
			fmt.Printf("%-16s %s\n", s, stage.DisplayName(s))
		}
	},
}
