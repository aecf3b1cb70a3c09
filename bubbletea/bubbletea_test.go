package bubbletea_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcalloway/braid"
	bt "github.com/jcalloway/braid/bubbletea"
	"github.com/jcalloway/braid/replay"
	"github.com/jcalloway/braid/stream"
)

const sessionTranscript = "event: start\ndata: {}\n\n" +
	"event: thinking\ndata: {\"content\": \"checking the archive\", \"isComplete\": true}\n\n" +
	"event: tool_start\ndata: {\"tool\": \"search_notes\", \"arguments\": \"{\\\"query\\\": \\\"tax\\\"}\", \"id\": \"t1\"}\n\n" +
	"event: tool_end\ndata: {\"tool\": \"search_notes\", \"result\": \"2 notes\", \"id\": \"t1\"}\n\n" +
	"event: message\ndata: Here is what I found.\n\n" +
	"event: end\ndata: {\"inputTokens\": 10, \"outputTokens\": 20}\n\n"

// TestProgram_Playback drives the full wiring the play command uses: a
// stream pipeline publishing snapshots through a channel while a replay
// player feeds it in the background.
func TestProgram_Playback(t *testing.T) {
	t.Parallel()

	states := make(chan braid.SessionState, 64)
	done := make(chan error, 1)
	p := stream.New(stream.WithOnChange(func(s braid.SessionState) {
		select {
		case states <- s:
		default: // drop intermediates; the final state is read from the pipeline
		}
	}))

	m := bt.New(p, states, done, braid.DefaultTheme())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	go func() {
		player := replay.NewPlayer(p, replay.WithChunkSize(32))
		err := player.Play(context.Background(), strings.NewReader(sessionTranscript))
		close(states)
		done <- err
	}()

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("Here is what I found.")) &&
			bytes.Contains(out, []byte("COMPLETE"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	fm, ok := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(bt.Model)
	require.True(t, ok)
	assert.False(t, fm.Playing())
	require.NoError(t, fm.Err())
	assert.Equal(t, braid.PhaseComplete, fm.State().Phase)
	assert.Equal(t, "Here is what I found.", fm.State().TextContent)
	assert.Equal(t, 10, fm.State().InputTokens)
	assert.Equal(t, 20, fm.State().OutputTokens)
}

// TestProgram_ThinkingToggle exercises the expand key against the live
// program rather than the model in isolation.
func TestProgram_ThinkingToggle(t *testing.T) {
	t.Parallel()

	s := braid.NewSessionState()
	s.Phase = braid.PhaseComplete
	s.Status = braid.StatusComplete
	s.Timeline = []braid.TimelineEntry{
		braid.ThinkingEntry{Content: "hidden until toggled", Complete: true},
		braid.TextEntry{Content: "visible answer"},
	}

	m := bt.New(nil, nil, nil, braid.DefaultTheme())
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(bt.StateMsg{State: s})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("visible answer"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("hidden until toggled"))
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
