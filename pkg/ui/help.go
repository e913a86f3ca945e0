package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# castgraph

Characters are drawn as dots colored by movie; each arrow is one
interaction, colored by its kind and bent clockwise from source to target.

## Pointer

Move the mouse over a character or an arrow to see its details. The
tooltip fades in, follows the pointer, and fades out when you move away.

## Keys

| Key | Action |
|-----|--------|
| **space**, **p** | Pause or resume the layout |
| **r** | Reheat the layout so it settles again |
| **y** | Copy the tooltip text to the clipboard |
| **s** | Save a snapshot to the export directory |
| **esc** | Clear the hover |
| **?** | Toggle this help |
| **q** | Quit |
`

// renderHelp renders the help page for the given width, falling back to
// the raw markdown when glamour cannot render it.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n ")
}
