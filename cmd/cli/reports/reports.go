package reports

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/crucial707/candidate-hub/cmd/cli/client"
	"github.com/crucial707/candidate-hub/cmd/cli/output"
	"github.com/spf13/cobra"
)

const defaultReportFile = "candidates_report.csv"

type task struct {
	ID          string `json:"task_id"`
	Status      string `json:"status"`
	RequestedBy int    `json:"requested_by"`
	Rows        int    `json:"rows,omitempty"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// ==========================
// Init Reports
// ==========================
func InitReports(rootCmd *cobra.Command) {
	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "Generate and download CSV candidate reports",
		Long: `Reports are generated asynchronously by the worker.

Example:
  candctl reports generate
  candctl reports status <task-id>
  candctl reports download <task-id> --out report.csv`,
	}

	reportsCmd.AddCommand(generateCmd(), statusCmd(), downloadCmd())
	rootCmd.AddCommand(reportsCmd)
}

// ==========================
// Generate
// ==========================
func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Queue a CSV report of every candidate",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var t task
			if err := c.Do("POST", "/reports", nil, &t); err != nil {
				return err
			}
			fmt.Printf("Report queued. Task ID: %s\n", t.ID)
			fmt.Printf("Check progress with: candctl reports status %s\n", t.ID)
			return nil
		},
	}
}

// ==========================
// Status
// ==========================
func statusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status [task-id]",
		Short: "Check the status of a report task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var t task
			if err := c.Do("GET", "/reports/"+url.PathEscape(args[0]), nil, &t); err != nil {
				return err
			}

			if jsonOut {
				return output.PrintJSON(t)
			}
			fmt.Printf("Task ID: %s\n", t.ID)
			fmt.Printf("Status: %s\n", t.Status)
			if t.Rows > 0 {
				fmt.Printf("Rows: %d\n", t.Rows)
			}
			if t.Error != "" {
				fmt.Printf("Error: %s\n", t.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&jsonOut, "json", "j", false, "Output raw JSON instead of formatted text")
	return cmd
}

// ==========================
// Download
// ==========================
func downloadCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download [task-id]",
		Short: "Download a finished report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			tmp, err := os.CreateTemp(filepath.Dir(out), ".candctl-report-*")
			if err != nil {
				return err
			}
			defer os.Remove(tmp.Name())

			n, err := c.Download("/reports/"+url.PathEscape(args[0])+"/download", tmp)
			if cerr := tmp.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if err := os.Rename(tmp.Name(), out); err != nil {
				return err
			}

			fmt.Printf("Saved %d bytes to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", defaultReportFile, "output file")
	return cmd
}
