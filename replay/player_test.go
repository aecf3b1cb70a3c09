package replay_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jcalloway/braid"
	"github.com/jcalloway/braid/mock"
	"github.com/jcalloway/braid/replay"
	"github.com/jcalloway/braid/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transcript = "event: start\ndata: {}\n\n" +
	"event: message\ndata: Hello\n\n" +
	"event: end\ndata: {}\n\n"

func TestPlayer_Play(t *testing.T) {
	t.Parallel()

	t.Run("drives a pipeline to completion", func(t *testing.T) {
		t.Parallel()
		p := stream.New()
		player := replay.NewPlayer(p, replay.WithChunkSize(3))

		err := player.Play(context.Background(), strings.NewReader(transcript))
		require.NoError(t, err)

		final := p.State()
		assert.Equal(t, braid.PhaseComplete, final.Phase)
		assert.Equal(t, "Hello", final.TextContent)
	})

	t.Run("feeds in configured chunk sizes and flushes at EOF", func(t *testing.T) {
		t.Parallel()
		var sizes []int
		flushed := false
		target := &mock.Pipeline{
			FeedFn: func(chunk []byte) []braid.Event {
				sizes = append(sizes, len(chunk))
				return nil
			},
			FlushFn: func() []braid.Event {
				flushed = true
				return nil
			},
			DispatchFn: func(a braid.Action) braid.SessionState {
				return braid.SessionState{}
			},
		}

		player := replay.NewPlayer(target, replay.WithChunkSize(4))
		err := player.Play(context.Background(), strings.NewReader("0123456789"))
		require.NoError(t, err)

		assert.Equal(t, []int{4, 4, 2}, sizes)
		assert.True(t, flushed)
	})

	t.Run("dispatches connect before the first chunk", func(t *testing.T) {
		t.Parallel()
		var order []string
		target := &mock.Pipeline{
			FeedFn: func(chunk []byte) []braid.Event {
				order = append(order, "feed")
				return nil
			},
			FlushFn: func() []braid.Event {
				return nil
			},
			DispatchFn: func(a braid.Action) braid.SessionState {
				order = append(order, "dispatch")
				return braid.SessionState{}
			},
		}

		err := replay.NewPlayer(target).Play(context.Background(), strings.NewReader("x"))
		require.NoError(t, err)
		assert.Equal(t, []string{"dispatch", "feed"}, order)
	})

	t.Run("cancellation stops playback and cancels the session", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())

		var actions []braid.Action
		feeds := 0
		target := &mock.Pipeline{
			FeedFn: func(chunk []byte) []braid.Event {
				feeds++
				cancel()
				return nil
			},
			FlushFn: func() []braid.Event {
				return nil
			},
			DispatchFn: func(a braid.Action) braid.SessionState {
				actions = append(actions, a)
				return braid.SessionState{}
			},
		}

		player := replay.NewPlayer(target,
			replay.WithChunkSize(4),
			replay.WithDelay(50*time.Millisecond),
		)
		err := player.Play(ctx, strings.NewReader(transcript))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, feeds)
		assert.Equal(t, []braid.Action{braid.ActionConnect{}, braid.ActionCancel{}}, actions)
	})
}

func TestPlayer_PlayFile(t *testing.T) {
	t.Parallel()

	t.Run("replays a transcript from disk", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "session.sse")
		require.NoError(t, os.WriteFile(path, []byte(transcript), 0o644))

		p := stream.New()
		err := replay.NewPlayer(p).PlayFile(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "Hello", p.State().TextContent)
	})

	t.Run("returns an error for a missing file", func(t *testing.T) {
		t.Parallel()
		p := stream.New()
		err := replay.NewPlayer(p).PlayFile(context.Background(), filepath.Join(t.TempDir(), "missing.sse"))
		assert.ErrorContains(t, err, "open transcript")
	})
}
