package main

import (
	"fmt"
	"os"

	"github.com/crucial707/candidate-hub/cmd/cli/candidates"
	"github.com/crucial707/candidate-hub/cmd/cli/reports"
	"github.com/crucial707/candidate-hub/cmd/cli/root"
	"github.com/crucial707/candidate-hub/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	users.InitUsers(rootCmd)
	candidates.InitCandidates(rootCmd)
	reports.InitReports(rootCmd)

	// Execute the root Cobra command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
