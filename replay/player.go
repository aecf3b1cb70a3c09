// Package replay feeds recorded SSE transcripts through a pipeline,
// optionally pacing chunks to simulate a live stream.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jcalloway/braid"
	"github.com/rs/zerolog"
)

const defaultChunkSize = 512

// Player replays raw transcript bytes into a pipeline in fixed-size
// chunks, exercising the same incremental path a live connection would.
type Player struct {
	target    braid.Pipeline
	chunkSize int
	delay     time.Duration
	log       zerolog.Logger
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithChunkSize sets how many bytes are fed per read. Values below one
// are ignored.
func WithChunkSize(n int) PlayerOption {
	return func(p *Player) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithDelay inserts a pause after each chunk.
func WithDelay(d time.Duration) PlayerOption {
	return func(p *Player) {
		p.delay = d
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = log
	}
}

// NewPlayer returns a Player that feeds target.
func NewPlayer(target braid.Pipeline, opts ...PlayerOption) *Player {
	p := &Player{
		target:    target,
		chunkSize: defaultChunkSize,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Play streams r into the pipeline chunk by chunk. It dispatches a
// connect action up front and flushes the decoder at end of input. On
// context cancellation the session is cancelled and the context error
// returned.
func (p *Player) Play(ctx context.Context, r io.Reader) error {
	p.target.Dispatch(braid.ActionConnect{})

	buf := make([]byte, p.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			p.target.Dispatch(braid.ActionCancel{})
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			p.target.Feed(buf[:n])
			if p.delay > 0 {
				if err := p.pause(ctx); err != nil {
					p.target.Dispatch(braid.ActionCancel{})
					return err
				}
			}
		}
		if errors.Is(err, io.EOF) {
			p.target.Flush()
			return nil
		}
		if err != nil {
			return fmt.Errorf("replay: read transcript: %w", err)
		}
	}
}

// PlayFile opens path and plays its contents.
func (p *Player) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("replay: open transcript: %w", err)
	}
	defer f.Close()

	p.log.Debug().Str("path", path).Msg("replaying transcript")
	return p.Play(ctx, f)
}

func (p *Player) pause(ctx context.Context) error {
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
