package bubbletea

// Exported for tests.
var (
	RenderThinking    = renderThinking
	RenderTool        = renderTool
	RenderText        = renderText
	RenderSources     = renderSources
	RenderImage       = renderImage
	HasUnclosedFence  = hasUnclosedFence
	Truncate          = truncate
	FirstLine         = firstLine
	BlockSeparatorFor = blockSeparator
)
