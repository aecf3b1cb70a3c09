package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jcalloway/braid"
	bt "github.com/jcalloway/braid/bubbletea"
	braidjson "github.com/jcalloway/braid/json"
	"github.com/jcalloway/braid/replay"
	"github.com/jcalloway/braid/stream"
)

func newDumpCmd() *cobra.Command {
	var (
		asJSON     bool
		listEvents bool
		outPath    string
		width      int
		themeName  string
	)

	cmd := &cobra.Command{
		Use:   "dump <transcript>",
		Short: "Replay a transcript and print the final session state",
		Long:  "Dump replays a transcript to completion without a UI and prints the final session state, either rendered as terminal text or as the versioned JSON snapshot. With --events each mapped event is listed as it decodes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var final braid.SessionState
			if listEvents {
				p := stream.New(stream.WithLogger(log))
				player := replay.NewPlayer(
					eventPrinter{Pipeline: p, w: cmd.OutOrStdout()},
					replay.WithLogger(log),
				)
				if err := player.PlayFile(ctx, args[0]); err != nil {
					return err
				}
				final = p.State()
			} else {
				var err error
				if final, err = replayToEnd(ctx, args[0]); err != nil {
					return err
				}
			}

			if asJSON {
				if outPath != "" {
					return braidjson.Save(outPath, final)
				}
				data, err := braidjson.MarshalState(final)
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
			rendered := bt.RenderState(final, width, theme)
			if outPath != "" {
				return os.WriteFile(outPath, []byte(rendered+"\n"), 0o644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the versioned JSON snapshot")
	cmd.Flags().BoolVar(&listEvents, "events", false, "list mapped events as they decode")
	cmd.Flags().StringVar(&outPath, "out", "", "write to a file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 80, "render width for text output")
	cmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, mono")

	return cmd
}

// eventPrinter wraps a pipeline and writes the type name of every
// mapped event as it comes out of the decoder.
type eventPrinter struct {
	braid.Pipeline
	w io.Writer
}

func (p eventPrinter) Feed(chunk []byte) []braid.Event {
	return p.print(p.Pipeline.Feed(chunk))
}

func (p eventPrinter) Flush() []braid.Event {
	return p.print(p.Pipeline.Flush())
}

func (p eventPrinter) print(events []braid.Event) []braid.Event {
	for _, evt := range events {
		fmt.Fprintln(p.w, strings.TrimPrefix(fmt.Sprintf("%T", evt), "braid.Event"))
	}
	return events
}
