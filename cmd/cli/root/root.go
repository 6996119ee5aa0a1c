package root

import (
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:           "candctl",
	Short:         "Candidate hub CLI",
	Long:          "Command line interface for the candidate hub API. Set CANDIDATE_API_URL to point at a server other than http://localhost:8080.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
