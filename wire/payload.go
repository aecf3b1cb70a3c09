package wire

// Wire payload shapes. Fields the protocol marks optional are pointers
// or any; `any` is used where the frame is only valid when the field is
// a JSON string and a wrong type must read as "missing", not as a parse
// failure.

type thinkingPayload struct {
	Content    string `json:"content"`
	IsComplete *bool  `json:"isComplete"`
}

type toolStartPayload struct {
	Tool      any `json:"tool"`
	Arguments any `json:"arguments"`
	ID        any `json:"id"`
}

type toolEndPayload struct {
	Tool    any   `json:"tool"`
	Result  any   `json:"result"`
	ID      any   `json:"id"`
	Success *bool `json:"success"`
}

type statusPayload struct {
	Status any `json:"status"`
}

type retrievalPayload struct {
	RetrievedNotes []notePayload `json:"retrievedNotes"`
	RAGLogID       string        `json:"ragLogId"`
}

type notePayload struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

type groundingPayload struct {
	Sources []groundingSourcePayload `json:"sources"`
}

type groundingSourcePayload struct {
	URI     string `json:"uri"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

type codeExecutionPayload struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Output   string `json:"output"`
	Success  *bool  `json:"success"`
}

type searchPayload struct {
	Sources []searchSourcePayload `json:"sources"`
}

type searchSourcePayload struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type searchTracePayload struct {
	Step       int    `json:"step"`
	Thought    string `json:"thought"`
	Conclusion string `json:"conclusion"`
}

type endPayload struct {
	RAGLogID     string `json:"ragLogId"`
	InputTokens  *int   `json:"inputTokens"`
	OutputTokens *int   `json:"outputTokens"`
}

type errorPayload struct {
	Error       string `json:"error"`
	Recoverable bool   `json:"recoverable"`
}
