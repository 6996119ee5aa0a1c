package users

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/crucial707/candidate-hub/cmd/cli/client"
	"github.com/crucial707/candidate-hub/cmd/cli/config"
	"github.com/crucial707/candidate-hub/cmd/cli/output"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users and authentication",
		Long: `Register or login a user against the candidate hub API.
Stores the access token locally for future commands.`,
	}

	usersCmd.AddCommand(registerCmd(), loginCmd(), logoutCmd(), meCmd())
	rootCmd.AddCommand(usersCmd)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// credentialFlags binds --username/--password and prompts for whatever is missing.
func credentialFlags(cmd *cobra.Command) func() (credentials, error) {
	var c credentials
	cmd.Flags().StringVarP(&c.Username, "username", "u", "", "username (prompted when empty)")
	cmd.Flags().StringVarP(&c.Password, "password", "p", "", "password (prompted when empty)")

	return func() (credentials, error) {
		in := bufio.NewReader(cmd.InOrStdin())
		if c.Username == "" {
			v, err := prompt(in, "Username: ")
			if err != nil {
				return c, err
			}
			c.Username = v
		}
		if c.Password == "" {
			v, err := prompt(in, "Password: ")
			if err != nil {
				return c, err
			}
			c.Password = v
		}
		if c.Username == "" || c.Password == "" {
			return c, fmt.Errorf("username and password are required")
		}
		return c, nil
	}
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ==========================
// Register User
// ==========================
func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user with username and password.",
	}
	creds := credentialFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := creds()
		if err != nil {
			return err
		}
		var out struct {
			Username string `json:"username"`
		}
		if err := client.New().Do("POST", "/user", c, &out); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Printf("User %s registered successfully! You can now login.\n", out.Username)
		return nil
	}
	return cmd
}

// ==========================
// Login User
// ==========================
func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login an existing user",
		Long:  "Login and save the access token locally for future CLI commands.",
	}
	creds := credentialFlags(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		c, err := creds()
		if err != nil {
			return err
		}
		var out struct {
			AccessToken string `json:"access_token"`
		}
		if err := client.New().Do("POST", "/login", c, &out); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if out.AccessToken == "" {
			return fmt.Errorf("token not returned by API")
		}
		if err := config.SaveToken(out.AccessToken); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		fmt.Println("Login successful! Token saved locally.")
		return nil
	}
	return cmd
}

// ==========================
// Logout User
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Logout current user",
		Long:  "Remove the locally saved access token.",
		RunE: func(cmd *cobra.Command, args []string) error {
			existed, err := config.ClearToken()
			if err != nil {
				return err
			}
			if !existed {
				fmt.Println("No user logged in.")
				return nil
			}
			fmt.Println("Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Current User
// ==========================
func meCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Authenticated()
			if err != nil {
				return err
			}
			var me struct {
				ID       int    `json:"id"`
				Username string `json:"username"`
			}
			if err := c.Do("GET", "/me", nil, &me); err != nil {
				return err
			}
			if jsonOut {
				return output.PrintJSON(me)
			}
			output.RenderTable([]string{"ID", "Username"}, [][]interface{}{{me.ID, me.Username}})
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
