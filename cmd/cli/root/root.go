package root

import (
	"context"
	"database/sql"

	"github.com/crucial707/strumspace-admin/cmd/cli/config"
	"github.com/spf13/cobra"
)

// RootCmd is strumctl. Subcommand packages attach to it from their Init functions.
var RootCmd = &cobra.Command{
	Use:           "strumctl",
	Short:         "StrumSpace admin CLI",
	Long:          "Command line tool for StrumSpace admin tasks: create admin users, inspect posts, moderate song requests.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// OpenDB opens the database the commands work on. Tests replace it with a sqlmock opener.
var OpenDB func(ctx context.Context) (*sql.DB, error) = config.OpenDB

// GetRoot returns RootCmd for main to execute.
func GetRoot() *cobra.Command {
	return RootCmd
}
