package stream_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jcalloway/braid"
	"github.com/jcalloway/braid/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() braid.Clock {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestPipeline_StartMessageEnd(t *testing.T) {
	t.Parallel()
	p := stream.New(stream.WithClock(fixedClock()))

	var events []braid.Event
	events = append(events, p.Feed([]byte("event: start\ndata: {}\n\n"))...)
	events = append(events, p.Feed([]byte("event: message\ndata: Hello\n\n"))...)
	events = append(events, p.Feed([]byte("event: end\ndata: {}\n\n"))...)

	require.Len(t, events, 3)
	assert.IsType(t, braid.EventSessionStart{}, events[0])
	assert.Equal(t, braid.EventTextDelta{Text: "Hello"}, events[1])
	assert.IsType(t, braid.EventSessionEnd{}, events[2])

	final := p.State()
	assert.Equal(t, "Hello", final.TextContent)
	assert.Equal(t, braid.PhaseComplete, final.Phase)
}

func TestPipeline_ToolLifecycle(t *testing.T) {
	t.Parallel()
	p := stream.New()

	p.Feed([]byte("event: tool_start\ndata: {\"tool\":\"Search\",\"arguments\":\"{}\"}\n\n"))
	mid := p.State()
	assert.Equal(t, braid.PhaseToolExecution, mid.Phase)
	assert.Len(t, mid.ActiveTools, 1)

	p.Feed([]byte("event: tool_end\ndata: {\"tool\":\"Search\",\"result\":\"ok\"}\n\n"))
	final := p.State()
	assert.Empty(t, final.ActiveTools)
	require.Len(t, final.CompletedTools, 1)
	assert.Equal(t, braid.ToolCompleted, final.CompletedTools[0].Status)
	assert.Equal(t, "ok", final.CompletedTools[0].Result)
}

func TestPipeline_FlushAppliesTrailingFrame(t *testing.T) {
	t.Parallel()
	p := stream.New()

	assert.Empty(t, p.Feed([]byte("event: message\ndata: trailing")))
	events := p.Flush()

	require.Len(t, events, 1)
	assert.Equal(t, braid.EventTextDelta{Text: "trailing"}, events[0])
	assert.Equal(t, "trailing", p.State().TextContent)
}

func TestPipeline_ChunkingIsIrrelevant(t *testing.T) {
	t.Parallel()

	transcript := []byte("event: start\ndata: {}\n\n" +
		"event: thinking\ndata: {\"content\":\"plan 🌍\",\"isComplete\":false}\n\n" +
		"event: thinking\ndata: {\"content\":\" done\",\"isComplete\":true}\n\n" +
		"event: message\ndata: Grüß dich\n\n" +
		"event: end\ndata: {\"ragLogId\":\"L\",\"inputTokens\":10,\"outputTokens\":20}\n\n")

	whole := stream.New(stream.WithClock(fixedClock()))
	whole.Feed(transcript)
	whole.Flush()

	chunked := stream.New(stream.WithClock(fixedClock()))
	for i := 0; i < len(transcript); i++ {
		chunked.Feed(transcript[i : i+1])
	}
	chunked.Flush()

	assert.Equal(t, whole.State(), chunked.State(), "byte-at-a-time feeding must converge to the same state")
}

func TestPipeline_DispatchAndReset(t *testing.T) {
	t.Parallel()
	p := stream.New()

	s := p.Dispatch(braid.ActionConnect{})
	assert.Equal(t, braid.PhaseConnecting, s.Phase)

	p.Feed([]byte("event: message\ndata: partial")) // held in decoder
	s = p.Reset()

	assert.Equal(t, braid.NewSessionState(), s)
	assert.Empty(t, p.Flush(), "reset also clears decoder buffers")
}

func TestPipeline_OnChange(t *testing.T) {
	t.Parallel()

	var phases []braid.Phase
	p := stream.New(stream.WithOnChange(func(s braid.SessionState) {
		phases = append(phases, s.Phase)
	}))

	p.Dispatch(braid.ActionConnect{})
	p.Feed([]byte("event: start\ndata: {}\n\nevent: end\ndata: {}\n\n"))

	assert.Equal(t, []braid.Phase{braid.PhaseConnecting, braid.PhaseStreaming, braid.PhaseComplete}, phases)
}

func TestPipeline_ConcurrentStateReads(t *testing.T) {
	t.Parallel()
	p := stream.New()

	done := make(chan struct{})
	var wg sync.WaitGroup
	for range [4]struct{}{} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					s := p.State()
					// A snapshot is internally consistent even while
					// the feeder keeps writing.
					if s.Phase == braid.PhaseComplete {
						assert.Equal(t, braid.StatusComplete, s.Status)
					}
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		p.Feed([]byte(fmt.Sprintf("event: message\ndata: chunk %d\n\n", i)))
	}
	p.Feed([]byte("event: end\ndata: {}\n\n"))
	close(done)
	wg.Wait()

	assert.Equal(t, braid.PhaseComplete, p.State().Phase)
}

func TestPipeline_ReadsHTTPBody(t *testing.T) {
	t.Parallel()

	transcript := "event: start\ndata: {}\n\n" +
		"event: message\ndata: over the wire\n\n" +
		"event: end\ndata: {}\n\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, b := range []byte(transcript) {
			_, _ = w.Write([]byte{b})
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	p := stream.New()
	buf := make([]byte, 7)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			p.Feed(buf[:n])
		}
		if err != nil {
			break
		}
	}
	p.Flush()

	final := p.State()
	assert.Equal(t, "over the wire", final.TextContent)
	assert.Equal(t, braid.PhaseComplete, final.Phase)
}
