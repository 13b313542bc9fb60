package users

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crucial707/strumspace-admin/cmd/cli/output"
	"github.com/crucial707/strumspace-admin/cmd/cli/root"
	"github.com/crucial707/strumspace-admin/internal/auth"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ==========================
// CLI Command Init
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin users",
	}
	usersCmd.AddCommand(createUserCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// Create User
// ==========================
func createUserCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		Long: `Create an admin user that can log in at /admin.
The password is read from the terminal without echo, or from stdin when piped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			username = strings.TrimSpace(username)
			if len(username) < 3 || len(username) > 64 {
				return fmt.Errorf("username must be 3-64 characters")
			}

			fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
			password, err := readPassword(cmd.InOrStdin())
			fmt.Fprintln(cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if len(password) < 6 || len(password) > 128 {
				return fmt.Errorf("password must be 6-128 characters")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}

			db, err := root.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			user, err := repo.NewUserRepo(db).Create(cmd.Context(), username, hash)
			if err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					return fmt.Errorf("user %q already exists", username)
				}
				return err
			}
			if err := repo.NewAuditRepo(db).Log(cmd.Context(), 0, models.AuditCreate, models.ResourceUser, user.ID, "created via strumctl"); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: audit log:", err)
			}

			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Username"}, [][]interface{}{{user.ID, user.Username}})
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username for the new admin")
	cmd.MarkFlagRequired("username")
	return cmd
}

// readPassword reads without echo from a terminal, otherwise the first line of in.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
