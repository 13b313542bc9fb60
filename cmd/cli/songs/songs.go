package songs

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/crucial707/strumspace-admin/cmd/cli/config"
	"github.com/crucial707/strumspace-admin/cmd/cli/output"
	"github.com/crucial707/strumspace-admin/cmd/cli/root"
	"github.com/crucial707/strumspace-admin/internal/models"
	"github.com/crucial707/strumspace-admin/internal/repo"
	"github.com/crucial707/strumspace-admin/internal/scheduler"
	"github.com/spf13/cobra"
)

// retentionDays is the --older-than-days default; tests replace it.
var retentionDays = config.RetentionDays

func InitSongs(rootCmd *cobra.Command) {
	songsCmd := &cobra.Command{
		Use:     "songs",
		Aliases: []string{"song-requests"},
		Short:   "Moderate song requests",
	}
	songsCmd.AddCommand(
		listSongsCmd(),
		deleteSongCmd(),
		pruneSongsCmd(),
	)
	rootCmd.AddCommand(songsCmd)
}

// ==========================
// LIST
// ==========================
func listSongsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List song requests, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := root.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			requests, err := repo.NewSongRequestRepo(db).List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return output.RenderJSON(cmd.OutOrStdout(), requests)
			}

			rows := make([][]interface{}, 0, len(requests))
			for _, s := range requests {
				rows = append(rows, []interface{}{
					s.ID,
					output.Truncate(s.SongTitle, 40),
					output.Truncate(s.Artist, 30),
					s.Requester,
					output.Truncate(s.Message, 40),
					s.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Song", "Artist", "Requester", "Message", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteSongCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a song request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid song request id %q", args[0])
			}

			db, err := root.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repo.NewSongRequestRepo(db).Delete(cmd.Context(), id); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return fmt.Errorf("song request %d not found", id)
				}
				return err
			}
			if err := repo.NewAuditRepo(db).Log(cmd.Context(), 0, models.AuditDelete, models.ResourceSongRequest, id, "deleted via strumctl"); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: audit log:", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted song request %d\n", id)
			return nil
		},
	}
}

// ==========================
// PRUNE
// ==========================
func pruneSongsCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete song requests older than the retention window",
		Long: `Delete song requests older than --older-than-days, the same job the server
runs on SONG_REQUEST_PRUNE_CRON. Defaults to SONG_REQUEST_RETENTION_DAYS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("older-than-days") {
				days = retentionDays()
			}
			if days <= 0 {
				return fmt.Errorf("--older-than-days must be positive (or set SONG_REQUEST_RETENTION_DAYS)")
			}

			db, err := root.OpenDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			pruner := &scheduler.Pruner{
				Store:     repo.NewSongRequestRepo(db),
				Audit:     repo.NewAuditRepo(db),
				Retention: time.Duration(days) * 24 * time.Hour,
			}
			n, err := pruner.PruneOnce(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d song requests older than %d days\n", n, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "older-than-days", 0, "retention window in days")
	return cmd
}
