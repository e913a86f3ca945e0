package graph

import (
	"fmt"
	"strings"
)

// ArrowPath is the arrowhead outline in marker units.
const ArrowPath = "M0,-5L10,0L0,5"

// Marker is an arrowhead definition for one interaction type. Markers do not
// inherit the stroke of the path they end, so each interaction gets its own
// marker filled with the interaction's color.
type Marker struct {
	ID          string
	Interaction string
	Color       string
	ViewBox     string
	RefX        float64
	RefY        float64
	Width       float64
	Height      float64
	Orient      string
	Path        string
}

func buildMarkers(interactions []string, colors *Ordinal) ([]Marker, map[string]int) {
	markers := make([]Marker, 0, len(interactions))
	index := make(map[string]int, len(interactions))
	used := make(map[string]bool, len(interactions))

	for _, interaction := range interactions {
		id := "arrow-" + slug(interaction)
		if used[id] {
			base := id
			for n := 2; used[id]; n++ {
				id = fmt.Sprintf("%s-%d", base, n)
			}
		}
		used[id] = true

		index[interaction] = len(markers)
		markers = append(markers, Marker{
			ID:          id,
			Interaction: interaction,
			Color:       colors.Color(interaction),
			ViewBox:     "0 -5 10 10",
			RefX:        15,
			RefY:        -0.5,
			Width:       6,
			Height:      6,
			Orient:      "auto",
			Path:        ArrowPath,
		})
	}
	return markers, index
}

// slug turns an interaction label into something usable inside an XML id.
func slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}
