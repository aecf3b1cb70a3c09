package braid

// ImageGenerationState is the nested sub-machine for image generation.
// It lives inside SessionState and is only written by the reducer.
type ImageGenerationState struct {
	InProgress bool
	Stage      ImageStage
	Progress   int // percentage, 0–100
	Prompt     string
	Images     []GeneratedImage
	Error      string
}

// GeneratedImage is one finished image. Data is base64-encoded.
type GeneratedImage struct {
	Data     string
	MimeType string
}
