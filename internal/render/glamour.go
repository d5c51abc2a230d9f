package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	// ThemePlain renders without ANSI styling, for pipes and files.
	ThemePlain Theme = "notty"
)

// Renderer turns markdown into terminal output. The glamour renderer is built
// lazily and rebuilt when the theme or wrap width changes.
type Renderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	err      error
	theme    Theme
	wordWrap int
}

func NewRenderer(theme Theme, wordWrap int) *Renderer {
	if theme == "" {
		theme = ThemeAuto
	}
	if wordWrap < 0 {
		wordWrap = 0
	}
	return &Renderer{theme: theme, wordWrap: wordWrap}
}

// Render returns glamour output, or content unchanged when rendering fails.
func (r *Renderer) Render(content string) string {
	renderer := r.ensure()
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *Renderer) ensure() *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer != nil && r.err == nil {
		return r.renderer
	}
	var options []glamour.TermRendererOption
	switch r.theme {
	case ThemeLight:
		options = append(options, glamour.WithStandardStyle("light"))
	case ThemeDark:
		options = append(options, glamour.WithStandardStyle("dark"))
	case ThemePlain:
		options = append(options, glamour.WithStandardStyle("notty"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	options = append(options, glamour.WithWordWrap(r.wordWrap))
	r.renderer, r.err = glamour.NewTermRenderer(options...)
	if r.err != nil {
		return nil
	}
	return r.renderer
}

func (r *Renderer) SetWordWrap(width int) {
	r.mu.Lock()
	if width < 0 {
		width = 0
	}
	if r.wordWrap != width {
		r.wordWrap = width
		r.renderer = nil
		r.err = nil
	}
	r.mu.Unlock()
}

func (r *Renderer) SetTheme(theme Theme) {
	r.mu.Lock()
	if theme == "" {
		theme = ThemeAuto
	}
	if r.theme != theme {
		r.theme = theme
		r.renderer = nil
		r.err = nil
	}
	r.mu.Unlock()
}

func (r *Renderer) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

func ThemeFromString(value string) Theme {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	case "plain", "notty":
		return ThemePlain
	default:
		return ThemeAuto
	}
}

func (t Theme) Label() string {
	switch t {
	case ThemeDark:
		return "Dark"
	case ThemeLight:
		return "Light"
	case ThemePlain:
		return "Plain"
	default:
		return "Auto"
	}
}

// Next cycles auto → dark → light → auto.
func (t Theme) Next() Theme {
	switch t {
	case ThemeAuto:
		return ThemeDark
	case ThemeDark:
		return ThemeLight
	default:
		return ThemeAuto
	}
}
