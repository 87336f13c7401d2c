// Package main is the entry point for the rf-compliance CLI.
package main

import (
	"os"

	"rf-compliance/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
