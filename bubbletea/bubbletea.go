// Package bubbletea renders braid sessions as a terminal UI. The model
// is a pure view over SessionState snapshots: playback pushes each new
// snapshot through a channel and the view re-renders from it, so the UI
// never keeps stream state of its own.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jcalloway/braid"
)

// Run runs the program in the alternate screen until it exits. When ctx
// is cancelled the program quits and Run returns.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

// StateMsg delivers a new session snapshot to the model.
type StateMsg struct {
	State braid.SessionState
}

// PlaybackDoneMsg signals that playback finished. Err is nil on a clean
// end of stream.
type PlaybackDoneMsg struct {
	Err error
}

// listenForState waits for the next snapshot from playback. When the
// snapshot channel closes it reports the playback result instead.
func listenForState(states <-chan braid.SessionState, done <-chan error) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return PlaybackDoneMsg{Err: <-done}
		}
		return StateMsg{State: s}
	}
}
