package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/jcalloway/braid"
	bt "github.com/jcalloway/braid/bubbletea"
	"github.com/jcalloway/braid/replay"
	"github.com/jcalloway/braid/stream"
)

func newPlayCmd() *cobra.Command {
	var (
		chunkSize int
		delay     time.Duration
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "play <transcript>...",
		Short: "Replay transcripts in the terminal UI",
		Long:  "Play replays one or more captured transcripts in an interactive terminal UI. Arguments are glob patterns; ** matches recursively. Multiple transcripts play back to back with a session reset in between.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := resolveTheme(themeName)
			if err != nil {
				return err
			}
			files, err := replay.Expand(args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("chunk-size") || chunkSize <= 0 {
				chunkSize = cfg.ChunkSize
			}
			if !cmd.Flags().Changed("delay") {
				delay = time.Duration(cfg.DelayMs) * time.Millisecond
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			// Snapshot sends are non-blocking: a slow terminal drops
			// intermediates and the final state is read from the
			// pipeline when playback finishes.
			states := make(chan braid.SessionState, 64)
			p := stream.New(
				stream.WithLogger(log),
				stream.WithOnChange(func(s braid.SessionState) {
					select {
					case states <- s:
					default:
					}
				}),
			)

			player := replay.NewPlayer(p,
				replay.WithChunkSize(chunkSize),
				replay.WithDelay(delay),
				replay.WithLogger(log),
			)

			done := make(chan error, 1)
			go func() {
				var err error
				for i, path := range files {
					if i > 0 {
						p.Reset()
					}
					if err = player.PlayFile(ctx, path); err != nil {
						break
					}
				}
				close(states)
				done <- err
			}()

			m := bt.New(p, states, done, theme)
			if err := bt.Run(ctx, m); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "bytes fed per read (default from config)")
	cmd.Flags().DurationVar(&delay, "delay", 0, "pause between chunks, e.g. 25ms (default from config)")
	cmd.Flags().StringVar(&themeName, "theme", "", "color theme: default, mono")

	return cmd
}

// replayToEnd plays one transcript to completion without a UI and
// returns the final state. Shared by dump and sessions import.
func replayToEnd(ctx context.Context, path string) (braid.SessionState, error) {
	p := stream.New(stream.WithLogger(log))
	player := replay.NewPlayer(p, replay.WithLogger(log))
	if err := player.PlayFile(ctx, path); err != nil {
		return braid.SessionState{}, err
	}
	return p.State(), nil
}
