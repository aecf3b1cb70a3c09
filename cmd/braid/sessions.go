package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	bt "github.com/jcalloway/braid/bubbletea"
	braidjson "github.com/jcalloway/braid/json"
	"github.com/jcalloway/braid/replay"
	"github.com/jcalloway/braid/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage the local session archive",
	}

	cmd.AddCommand(newSessionsImportCmd())
	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsDeleteCmd())
	return cmd
}

// openStore opens the archive at the configured location, creating it
// on first use.
func openStore() (*store.DB, error) {
	path := cfg.DB
	if path == "" {
		path = paths.DB
	}
	return store.Open(path, store.WithLogger(log))
}

func newSessionsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <transcript>...",
		Short: "Replay transcripts and archive their final states",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := replay.Expand(args)
			if err != nil {
				return err
			}

			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			for _, path := range files {
				final, err := replayToEnd(ctx, path)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				id, err := db.SaveSession(ctx, title, final)
				if err != nil {
					return fmt.Errorf("import %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", id, title)
			}
			return nil
		},
	}
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			summaries, err := db.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no sessions archived")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tPHASE\tTITLE")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					s.ID, s.SavedAt.Format(time.DateTime), s.Phase, s.Title)
			}
			return w.Flush()
		},
	}
	return cmd
}

func newSessionsShowCmd() *cobra.Command {
	var (
		asJSON    bool
		width     int
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print one archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			rec, err := db.GetSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if asJSON {
				data, err := braidjson.MarshalState(rec.State)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			theme, err := resolveTheme(themeName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n\n",
				rec.ID, rec.Title, rec.SavedAt.Format(time.DateTime))
			fmt.Fprintln(cmd.OutOrStdout(), bt.RenderState(rec.State, width, theme))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the versioned JSON snapshot")
	cmd.Flags().IntVar(&width, "width", 80, "render width for text output")
	cmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, mono")

	return cmd
}

func newSessionsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove one archived session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	return cmd
}
