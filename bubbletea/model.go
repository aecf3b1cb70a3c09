package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jcalloway/braid"
)

// tickMsg drives the elapsed-time readout while playback runs.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the Bubble Tea model for a session view. It holds the latest
// snapshot and re-renders the whole view from it on every change.
type Model struct {
	Viewport viewport.Model

	pipeline braid.Pipeline
	states   <-chan braid.SessionState
	done     <-chan error

	state  braid.SessionState
	theme  braid.Theme
	styles Styles
	spin   spinner.Model
	prog   progress.Model

	showThinking bool
	playing      bool
	ready        bool
	err          error
}

// New creates a model. The pipeline serves state reads and control
// dispatches; states and done carry playback snapshots and its final
// result. Both channels may be nil for a static view of the pipeline's
// current state.
func New(p braid.Pipeline, states <-chan braid.SessionState, done <-chan error, theme braid.Theme) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	state := braid.NewSessionState()
	if p != nil {
		state = p.State()
	}

	return Model{
		pipeline: p,
		states:   states,
		done:     done,
		state:    state,
		theme:    theme,
		styles:   NewStyles(theme),
		spin:     sp,
		prog:     bar,
		playing:  states != nil,
	}
}

// Playing reports whether playback is still delivering snapshots.
func (m Model) Playing() bool { return m.playing }

// State returns the snapshot the view currently renders.
func (m Model) State() braid.SessionState { return m.state }

// Err returns the playback error, if playback failed.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick}
	if m.states != nil {
		cmds = append(cmds, listenForState(m.states, m.done), tick())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StateMsg:
		m.state = msg.State
		m = m.refresh()
		if m.states == nil {
			return m, nil
		}
		return m, listenForState(m.states, m.done)

	case PlaybackDoneMsg:
		m.playing = false
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		if m.pipeline != nil {
			// Snapshot sends are lossy under backpressure; the pipeline
			// holds the authoritative final state.
			m.state = m.pipeline.State()
		}
		return m.refresh(), nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	statusHeight := 1
	gap := 1
	vpHeight := msg.Height - statusHeight - gap
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Viewport.SetContent(m.view().render(m.state))
	m.Viewport.GotoBottom()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "t":
		m.showThinking = !m.showThinking
		return m.refresh(), nil

	case "c":
		if m.pipeline != nil {
			m.state = m.pipeline.Dispatch(braid.ActionCancel{})
			m = m.refresh()
		}
		return m, nil

	case "r":
		if m.pipeline != nil {
			m.state = m.pipeline.Dispatch(braid.ActionReset{})
			m = m.refresh()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// refresh re-renders the viewport from the current snapshot. It keeps
// following the tail unless the user has scrolled away from it.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	atBottom := m.Viewport.AtBottom()
	m.Viewport.SetContent(m.view().render(m.state))
	if atBottom {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) view() contentView {
	return contentView{
		styles:       m.styles,
		theme:        m.theme,
		prog:         m.prog,
		showThinking: m.showThinking,
		width:        m.Viewport.Width,
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.Viewport.View() + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	parts := []string{m.phaseBadge()}

	switch {
	case m.err != nil:
		parts = append(parts, m.styles.Error.Render(m.err.Error()))
	case m.state.ProcessingStatus != "" && !m.state.Phase.Terminal():
		parts = append(parts, m.spin.View()+" "+m.styles.Muted.Render(m.state.ProcessingStatus))
	case m.playing && !m.state.Phase.Terminal() && m.state.Phase != braid.PhaseIdle:
		parts = append(parts, m.spin.View())
	}

	if m.state.InputTokens > 0 || m.state.OutputTokens > 0 {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("↑%d ↓%d tok", m.state.InputTokens, m.state.OutputTokens)))
	}
	if d := m.state.Elapsed(time.Now()); d > 0 {
		parts = append(parts, m.styles.Muted.Render(d.Round(100*time.Millisecond).String()))
	}
	if m.state.RetryCount > 0 {
		parts = append(parts, m.styles.Muted.Render(fmt.Sprintf("retry %d", m.state.RetryCount)))
	}

	parts = append(parts, m.styles.Muted.Render("t thinking · c cancel · r reset · q quit"))
	return strings.Join(parts, "  ")
}

func (m Model) phaseBadge() string {
	label := strings.ToUpper(string(m.state.Phase))
	switch m.state.Status {
	case braid.StatusComplete:
		return m.styles.Success.Render(label)
	case braid.StatusError:
		return m.styles.Error.Render(label)
	case braid.StatusIdle:
		return m.styles.Muted.Render(label)
	default:
		return m.styles.Accent.Render(label)
	}
}
