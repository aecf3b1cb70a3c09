// Package json persists session snapshots in a versioned envelope
// format. Files are written atomically via a temp file and rename.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jcalloway/braid"
)

// envelope is the v1 wire format for a persisted session snapshot.
type envelope struct {
	Version          int               `json:"version"`
	Phase            string            `json:"phase"`
	Status           string            `json:"status"`
	TextContent      string            `json:"text_content,omitempty"`
	ActiveTools      []toolDTO         `json:"active_tools,omitempty"`
	CompletedTools   []toolDTO         `json:"completed_tools,omitempty"`
	Timeline         []timelineDTO     `json:"timeline,omitempty"`
	RetrievedNotes   []noteDTO         `json:"retrieved_notes,omitempty"`
	Grounding        []groundingDTO    `json:"grounding,omitempty"`
	SearchResults    []searchSourceDTO `json:"search_results,omitempty"`
	SearchTrace      *searchTraceDTO   `json:"search_trace,omitempty"`
	CodeExecution    *codeExecDTO      `json:"code_execution,omitempty"`
	Image            *imageDTO         `json:"image,omitempty"`
	ProcessingStatus string            `json:"processing_status,omitempty"`
	InputTokens      int               `json:"input_tokens,omitempty"`
	OutputTokens     int               `json:"output_tokens,omitempty"`
	StartTime        *time.Time        `json:"start_time,omitempty"`
	DurationMS       int64             `json:"duration_ms,omitempty"`
	RAGLogID         string            `json:"rag_log_id,omitempty"`
	Error            *errorDTO         `json:"error,omitempty"`
	RetryCount       int               `json:"retry_count,omitempty"`
}

// timelineDTO is the JSON representation of a TimelineEntry with a type
// discriminator.
type timelineDTO struct {
	Type     string   `json:"type"`
	Content  *string  `json:"content,omitempty"`
	Complete *bool    `json:"complete,omitempty"`
	Tool     *toolDTO `json:"tool,omitempty"`
}

type toolDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Arguments   string     `json:"arguments,omitempty"`
	Result      string     `json:"result,omitempty"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type noteDTO struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet,omitempty"`
	Score   float64 `json:"score"`
}

type groundingDTO struct {
	URI     string `json:"uri"`
	Title   string `json:"title,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

type searchSourceDTO struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type searchTraceDTO struct {
	Step       int    `json:"step"`
	Thought    string `json:"thought,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
}

type codeExecDTO struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Output   string `json:"output,omitempty"`
	Success  bool   `json:"success"`
}

type imageDTO struct {
	InProgress bool       `json:"in_progress"`
	Stage      string     `json:"stage"`
	Progress   int        `json:"progress,omitempty"`
	Prompt     string     `json:"prompt,omitempty"`
	Images     []imageRef `json:"images,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type imageRef struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

type errorDTO struct {
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// MarshalState serializes a SessionState to JSON in v1 envelope format.
func MarshalState(s braid.SessionState) ([]byte, error) {
	env := envelope{
		Version:          1,
		Phase:            string(s.Phase),
		Status:           string(s.Status),
		TextContent:      s.TextContent,
		ProcessingStatus: s.ProcessingStatus,
		InputTokens:      s.InputTokens,
		OutputTokens:     s.OutputTokens,
		DurationMS:       s.Duration.Milliseconds(),
		RAGLogID:         s.RAGLogID,
		RetryCount:       s.RetryCount,
	}

	// Active tools live in a map; sort by id for stable output.
	if len(s.ActiveTools) > 0 {
		env.ActiveTools = make([]toolDTO, 0, len(s.ActiveTools))
		for _, tool := range s.ActiveTools {
			env.ActiveTools = append(env.ActiveTools, marshalTool(tool))
		}
		sort.Slice(env.ActiveTools, func(i, j int) bool {
			return env.ActiveTools[i].ID < env.ActiveTools[j].ID
		})
	}
	for _, tool := range s.CompletedTools {
		env.CompletedTools = append(env.CompletedTools, marshalTool(tool))
	}

	for i, entry := range s.Timeline {
		dto, err := marshalTimelineEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("timeline entry %d: %w", i, err)
		}
		env.Timeline = append(env.Timeline, dto)
	}

	for _, n := range s.RetrievedNotes {
		env.RetrievedNotes = append(env.RetrievedNotes, noteDTO(n))
	}
	for _, g := range s.Grounding {
		env.Grounding = append(env.Grounding, groundingDTO(g))
	}
	for _, r := range s.SearchResults {
		env.SearchResults = append(env.SearchResults, searchSourceDTO(r))
	}
	if s.SearchTrace != nil {
		dto := searchTraceDTO(*s.SearchTrace)
		env.SearchTrace = &dto
	}
	if s.CodeExecution != nil {
		dto := codeExecDTO(*s.CodeExecution)
		env.CodeExecution = &dto
	}
	env.Image = marshalImage(s.Image)
	if !s.StartTime.IsZero() {
		ts := s.StartTime
		env.StartTime = &ts
	}
	if s.Error != nil {
		env.Error = &errorDTO{Message: s.Error.Message, Recoverable: s.Error.Recoverable}
	}

	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalState deserializes a SessionState from JSON in v1 envelope format.
func UnmarshalState(data []byte) (braid.SessionState, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return braid.SessionState{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return braid.SessionState{}, fmt.Errorf("%w: %d", braid.ErrUnsupportedVersion, env.Version)
	}

	s := braid.NewSessionState()
	s.Phase = braid.Phase(env.Phase)
	s.Status = braid.Status(env.Status)
	s.TextContent = env.TextContent
	s.ProcessingStatus = env.ProcessingStatus
	s.InputTokens = env.InputTokens
	s.OutputTokens = env.OutputTokens
	s.Duration = time.Duration(env.DurationMS) * time.Millisecond
	s.RAGLogID = env.RAGLogID
	s.RetryCount = env.RetryCount

	for _, dto := range env.ActiveTools {
		s.ActiveTools[dto.ID] = unmarshalTool(dto)
	}
	for _, dto := range env.CompletedTools {
		s.CompletedTools = append(s.CompletedTools, unmarshalTool(dto))
	}

	for i, dto := range env.Timeline {
		entry, err := unmarshalTimelineEntry(dto)
		if err != nil {
			return braid.SessionState{}, fmt.Errorf("timeline entry %d: %w", i, err)
		}
		s.Timeline = append(s.Timeline, entry)
	}

	for _, dto := range env.RetrievedNotes {
		s.RetrievedNotes = append(s.RetrievedNotes, braid.NoteRef(dto))
	}
	for _, dto := range env.Grounding {
		s.Grounding = append(s.Grounding, braid.GroundingSource(dto))
	}
	for _, dto := range env.SearchResults {
		s.SearchResults = append(s.SearchResults, braid.SearchSource(dto))
	}
	if env.SearchTrace != nil {
		trace := braid.SearchTrace(*env.SearchTrace)
		s.SearchTrace = &trace
	}
	if env.CodeExecution != nil {
		exec := braid.CodeExecutionResult(*env.CodeExecution)
		s.CodeExecution = &exec
	}
	if env.Image != nil {
		s.Image = unmarshalImage(*env.Image)
	}
	if env.StartTime != nil {
		s.StartTime = *env.StartTime
	}
	if env.Error != nil {
		s.Error = &braid.SessionError{Message: env.Error.Message, Recoverable: env.Error.Recoverable}
	}

	return s, nil
}

// Save writes a SessionState to a JSON file, creating parent directories
// as needed.
func Save(path string, s braid.SessionState) error {
	data, err := MarshalState(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a SessionState from a JSON file.
func Load(path string) (braid.SessionState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return braid.SessionState{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalState(data)
}

func marshalTimelineEntry(entry braid.TimelineEntry) (timelineDTO, error) {
	switch e := entry.(type) {
	case braid.ThinkingEntry:
		return timelineDTO{Type: "thinking", Content: &e.Content, Complete: &e.Complete}, nil
	case braid.TextEntry:
		return timelineDTO{Type: "text", Content: &e.Content}, nil
	case braid.ToolEntry:
		tool := marshalTool(e.Execution)
		return timelineDTO{Type: "tool", Tool: &tool}, nil
	default:
		return timelineDTO{}, fmt.Errorf("unknown timeline entry type: %T", entry)
	}
}

func unmarshalTimelineEntry(dto timelineDTO) (braid.TimelineEntry, error) {
	switch dto.Type {
	case "thinking":
		var entry braid.ThinkingEntry
		if dto.Content != nil {
			entry.Content = *dto.Content
		}
		if dto.Complete != nil {
			entry.Complete = *dto.Complete
		}
		return entry, nil
	case "text":
		var entry braid.TextEntry
		if dto.Content != nil {
			entry.Content = *dto.Content
		}
		return entry, nil
	case "tool":
		var entry braid.ToolEntry
		if dto.Tool != nil {
			entry.Execution = unmarshalTool(*dto.Tool)
		}
		return entry, nil
	default:
		return nil, fmt.Errorf("unknown timeline entry type: %q", dto.Type)
	}
}

func marshalTool(t braid.ToolExecution) toolDTO {
	dto := toolDTO{
		ID:        t.ID,
		Name:      t.Name,
		Arguments: t.Arguments,
		Result:    t.Result,
		Status:    string(t.Status),
	}
	if !t.StartedAt.IsZero() {
		ts := t.StartedAt
		dto.StartedAt = &ts
	}
	if !t.CompletedAt.IsZero() {
		ts := t.CompletedAt
		dto.CompletedAt = &ts
	}
	return dto
}

func unmarshalTool(dto toolDTO) braid.ToolExecution {
	t := braid.ToolExecution{
		ID:        dto.ID,
		Name:      dto.Name,
		Arguments: dto.Arguments,
		Result:    dto.Result,
		Status:    braid.ToolStatus(dto.Status),
	}
	if dto.StartedAt != nil {
		t.StartedAt = *dto.StartedAt
	}
	if dto.CompletedAt != nil {
		t.CompletedAt = *dto.CompletedAt
	}
	return t
}

// marshalImage returns nil for the untouched initial image state so the
// envelope omits it.
func marshalImage(img braid.ImageGenerationState) *imageDTO {
	if !img.InProgress && img.Stage == braid.ImageStageIdle &&
		img.Progress == 0 && img.Prompt == "" && len(img.Images) == 0 && img.Error == "" {
		return nil
	}
	dto := &imageDTO{
		InProgress: img.InProgress,
		Stage:      string(img.Stage),
		Progress:   img.Progress,
		Prompt:     img.Prompt,
		Error:      img.Error,
	}
	for _, gi := range img.Images {
		dto.Images = append(dto.Images, imageRef(gi))
	}
	return dto
}

func unmarshalImage(dto imageDTO) braid.ImageGenerationState {
	img := braid.ImageGenerationState{
		InProgress: dto.InProgress,
		Stage:      braid.ImageStage(dto.Stage),
		Progress:   dto.Progress,
		Prompt:     dto.Prompt,
		Error:      dto.Error,
	}
	for _, ref := range dto.Images {
		img.Images = append(img.Images, braid.GeneratedImage(ref))
	}
	return img
}
