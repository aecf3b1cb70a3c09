package braid

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the
// player automatically matches any color scheme.
type Theme struct {
	Thinking int // thinking block text
	Tool     int // tool block header
	Source   int // citation/source footer
	Error    int // error messages
	Success  int // success indicators
	Muted    int // status bar, placeholders
	CodeBg   int // code block background
	Accent   int // headings, links, phase badge
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Thinking: 8,
		Tool:     3,
		Source:   6,
		Error:    1,
		Success:  2,
		Muted:    8,
		CodeBg:   0,
		Accent:   5,
	}
}

// MonoTheme renders everything in default and bright-black only, for
// terminals where color carries no meaning.
func MonoTheme() Theme {
	return Theme{
		Thinking: 8,
		Tool:     7,
		Source:   7,
		Error:    7,
		Success:  7,
		Muted:    8,
		CodeBg:   0,
		Accent:   7,
	}
}

// ThemeByName resolves a configured theme name. Unknown names report
// false so callers can fall back to the default.
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme(), true
	case "mono":
		return MonoTheme(), true
	default:
		return Theme{}, false
	}
}
