package posts

import (
	"github.com/crucial707/strumspace-admin/cmd/cli/output"
	"github.com/crucial707/strumspace-admin/cmd/cli/root"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/spf13/cobra"
)

func InitPosts(rootCmd *cobra.Command) {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect posts",
	}
	postsCmd.AddCommand(listPostsCmd())
	rootCmd.AddCommand(postsCmd)
}

// ==========================
// LIST
// ==========================
func listPostsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := root.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			posts, err := repo.NewPostRepo(db).List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), posts)
			}

			rows := make([][]interface{}, 0, len(posts))
			for _, p := range posts {
				rows = append(rows, []interface{}{
					p.ID,
					output.Truncate(p.Title, 48),
					p.CreatedAt.Format("2006-01-02 15:04"),
					p.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Created", "Updated"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
