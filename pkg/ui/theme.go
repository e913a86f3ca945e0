package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the viewer's colors and pre-built styles.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary lipgloss.AdaptiveColor
	Subtext lipgloss.AdaptiveColor
	Muted   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	// Hex colors used when rasterizing; these are blended, so they must be
	// concrete rather than adaptive.
	Background string
	Text       string
	TooltipFg  string

	Header lipgloss.Style
	Footer lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired theme, adapted to the terminal's
// background.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary: lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Subtext: lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Muted:   lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Border:  lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
	}

	if r.HasDarkBackground() {
		t.Background, t.Text, t.TooltipFg = "#282A36", "#F8F8F2", "#F8F8F2"
	} else {
		t.Background, t.Text, t.TooltipFg = "#FFFFFF", "#1A1A1A", "#1A1A1A"
	}

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)
	t.Footer = r.NewStyle().Foreground(t.Muted)
	t.Status = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"})
	t.Error = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}).Bold(true)
	t.Help = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}

// Fade blends fg toward the theme background. opacity 1 is fg itself and 0
// is the background. Colors that fail to parse are returned unchanged.
func (t Theme) Fade(fg string, opacity float64) string {
	if opacity >= 1 {
		return fg
	}
	c, err := colorful.Hex(fg)
	if err != nil {
		return fg
	}
	bg, err := colorful.Hex(t.Background)
	if err != nil {
		return fg
	}
	if opacity < 0 {
		opacity = 0
	}
	return bg.BlendLab(c, opacity).Clamped().Hex()
}

// Foreground returns a style that draws text in a hex color.
func (t Theme) Foreground(hex string) lipgloss.Style {
	return t.Renderer.NewStyle().Foreground(ThemeFg(hex))
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
