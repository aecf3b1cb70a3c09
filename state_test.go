package braid_test

import (
	"testing"
	"time"

	"github.com/jcalloway/braid"
	"github.com/stretchr/testify/assert"
)

func TestNewSessionState(t *testing.T) {
	t.Parallel()

	s := braid.NewSessionState()

	assert.Equal(t, braid.PhaseIdle, s.Phase)
	assert.Equal(t, braid.StatusIdle, s.Status)
	assert.NotNil(t, s.ActiveTools)
	assert.Empty(t, s.ActiveTools)
	assert.Equal(t, braid.ImageStageIdle, s.Image.Stage)
	assert.False(t, s.Image.InProgress)
	assert.Nil(t, s.Error)
	assert.True(t, s.StartTime.IsZero())
}

func TestSessionState_ThinkingContent_SpansBlocks(t *testing.T) {
	t.Parallel()

	s := braid.NewSessionState()
	s.Timeline = []braid.TimelineEntry{
		braid.ThinkingEntry{Content: "first. ", Complete: true},
		braid.TextEntry{Content: "interlude"},
		braid.ThinkingEntry{Content: "second.", Complete: false},
	}

	assert.Equal(t, "first. second.", s.ThinkingContent())
	assert.False(t, s.ThinkingComplete(), "latest block decides completeness")
}

func TestSessionState_ThinkingComplete_Empty(t *testing.T) {
	t.Parallel()

	s := braid.NewSessionState()

	assert.Empty(t, s.ThinkingContent())
	assert.False(t, s.ThinkingComplete())
}

func TestSessionState_Elapsed(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	now := start.Add(4 * time.Second)

	s := braid.NewSessionState()
	assert.Zero(t, s.Elapsed(now), "no start time yet")

	s.StartTime = start
	assert.Equal(t, 4*time.Second, s.Elapsed(now))

	s.Duration = 2 * time.Second
	assert.Equal(t, 2*time.Second, s.Elapsed(now), "finished duration wins")
}

func TestPhase_Terminal(t *testing.T) {
	t.Parallel()

	assert.True(t, braid.PhaseComplete.Terminal())
	assert.True(t, braid.PhaseError.Terminal())
	assert.False(t, braid.PhaseIdle.Terminal())
	assert.False(t, braid.PhaseStreaming.Terminal())
	assert.False(t, braid.PhaseToolExecution.Terminal())
	assert.False(t, braid.PhaseImageGeneration.Terminal())
}
