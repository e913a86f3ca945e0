package tooltip

import (
	"html"
	"html/template"
	"strings"

	"github.com/vanderheijden86/castgraph/pkg/graph"
)

// LineBreak separates tooltip lines in text and HTML form.
const LineBreak = " <br> "

// NoData is shown for a node whose id is missing from the lookup.
const NoData = "No Data Found"

// Line is one "Label: value" row of a tooltip. Label is empty for a bare
// message such as NoData.
type Line struct {
	Label string
	Value string
}

func (l Line) String() string {
	if l.Label == "" {
		return l.Value
	}
	return l.Label + ": " + l.Value
}

// Content is what a tooltip shows for one hovered element.
type Content struct {
	Lines []Line
}

// Text renders the content with literal " <br> " separators.
func (c Content) Text() string {
	parts := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, LineBreak)
}

// HTML renders the content for an HTML overlay with every label and value
// escaped. Only the separators are markup.
func (c Content) HTML() template.HTML {
	parts := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		parts[i] = html.EscapeString(l.String())
	}
	return template.HTML(strings.Join(parts, LineBreak))
}

// Plain returns one string per line, for surfaces without markup.
func (c Content) Plain() []string {
	out := make([]string, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = l.String()
	}
	return out
}

// Empty reports whether there is nothing to show.
func (c Content) Empty() bool {
	return len(c.Lines) == 0
}

// ForLink is the tooltip of a link: its interaction label, whether or not
// its endpoints have records.
func ForLink(l *graph.Link) Content {
	return Content{Lines: []Line{{Label: "Interaction", Value: l.Interaction}}}
}

// ForNode is the tooltip of a node, built from its lookup record.
func ForNode(n *graph.Node, lookup graph.Lookup) Content {
	rec, ok := lookup[n.ID]
	if !ok {
		return Content{Lines: []Line{{Value: NoData}}}
	}
	return Content{Lines: []Line{
		{Label: "ID", Value: rec.ID},
		{Label: "Name", Value: rec.Name},
		{Label: "Movie", Value: rec.Movie},
		{Label: "Description", Value: rec.Description},
	}}
}

// For returns the tooltip of any drawable element.
func For(e graph.Element, lookup graph.Lookup) Content {
	switch v := e.(type) {
	case *graph.Link:
		return ForLink(v)
	case *graph.Node:
		return ForNode(v, lookup)
	default:
		return Content{}
	}
}
