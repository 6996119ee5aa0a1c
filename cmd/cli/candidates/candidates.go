package candidates

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/crucial707/candidate-hub/cmd/cli/client"
	"github.com/crucial707/candidate-hub/cmd/cli/output"
	"github.com/spf13/cobra"
)

type candidate struct {
	ID         int    `json:"id"`
	UserID     int    `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Experience int    `json:"experience"`
	CreatedAt  string `json:"created_at"`
}

type candidatePage struct {
	Candidates []candidate `json:"candidates"`
	Total      int         `json:"total_candidates"`
	TotalPages int         `json:"total_pages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

var tableHeaders = []string{"ID", "Owner", "First Name", "Last Name", "Experience"}

func tableRow(c candidate) []interface{} {
	return []interface{}{c.ID, c.UserID, c.FirstName, c.LastName, c.Experience}
}

// ==========================
// Init Candidates
// ==========================
func InitCandidates(rootCmd *cobra.Command) {
	candidatesCmd := &cobra.Command{
		Use:   "candidates",
		Short: "Manage candidate profiles",
	}

	candidatesCmd.AddCommand(
		listCandidatesCmd(),
		getCandidateCmd(),
		createCandidateCmd(),
		updateCandidateCmd(),
		deleteCandidateCmd(),
	)

	rootCmd.AddCommand(candidatesCmd)
}

// ==========================
// LIST
// ==========================
func listCandidatesCmd() *cobra.Command {
	var (
		name       string
		experience int
		page       int
		pageSize   int
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List candidates, optionally filtered by name and experience",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("page_size", strconv.Itoa(pageSize))
			if name != "" {
				q.Set("name", name)
			}
			if cmd.Flags().Changed("experience") {
				q.Set("experience", strconv.Itoa(experience))
			}

			var result candidatePage
			if err := c.Do("GET", "/all-candidates?"+q.Encode(), nil, &result); err != nil {
				return err
			}

			if jsonOut {
				return output.PrintJSON(result)
			}
			if len(result.Candidates) == 0 {
				fmt.Println("No candidates found.")
				return nil
			}
			rows := make([][]interface{}, 0, len(result.Candidates))
			for _, cand := range result.Candidates {
				rows = append(rows, tableRow(cand))
			}
			output.RenderTable(tableHeaders, rows)
			fmt.Printf("Page %d of %d (%d total)\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "case-insensitive substring of first or last name")
	cmd.Flags().IntVar(&experience, "experience", 0, "exact years of experience")
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "results per page")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}

// ==========================
// GET
// ==========================
func getCandidateCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show one candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var cand candidate
			if err := c.Do("GET", "/candidates/"+strconv.Itoa(id), nil, &cand); err != nil {
				return err
			}
			return render(cand, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// ==========================
// CREATE
// ==========================
func createCandidateCmd() *cobra.Command {
	var in candidateInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the candidate profile for the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var out struct {
				ID int `json:"id"`
			}
			if err := c.Do("POST", "/candidates", in, &out); err != nil {
				return err
			}
			fmt.Printf("Candidate created with ID %d\n", out.ID)
			return nil
		},
	}

	in.bind(cmd)
	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateCandidateCmd() *cobra.Command {
	var (
		in      candidateInput
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Replace a candidate's name and experience",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			var cand candidate
			if err := c.Do("PUT", "/candidates/"+strconv.Itoa(id), in, &cand); err != nil {
				return err
			}
			return render(cand, jsonOut)
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteCandidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := client.Authenticated()
			if err != nil {
				return err
			}

			if err := c.Do("DELETE", "/candidates/"+strconv.Itoa(id), nil, nil); err != nil {
				return err
			}
			fmt.Printf("Candidate %d deleted\n", id)
			return nil
		},
	}
}

type candidateInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Experience int    `json:"experience"`
}

func (in *candidateInput) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name (required)")
	cmd.Flags().IntVar(&in.Experience, "experience", 0, "years of experience")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid candidate id %q", s)
	}
	return id, nil
}

func render(c candidate, jsonOut bool) error {
	if jsonOut {
		return output.PrintJSON(c)
	}
	output.RenderTable(tableHeaders, [][]interface{}{tableRow(c)})
	return nil
}
