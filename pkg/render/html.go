package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

//go:embed assets/page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

type pageData struct {
	Title      string
	Font       string
	Background string
	SVG        template.HTML
	FadeMillis int64
	OffsetX    float64
	OffsetY    float64
}

// WriteHTML writes a self-contained page with the frame's SVG inlined and a
// script that shows each element's tooltip on hover.
func WriteHTML(w io.Writer, f driver.Frame, opts Options) error {
	opts = opts.withDefaults()

	var buf bytes.Buffer
	if err := WriteSVG(&buf, f, SVGOptions{Options: opts, Interactive: true}); err != nil {
		return err
	}

	data := pageData{
		Title:      opts.Title,
		Font:       opts.Style.TooltipFont,
		Background: opts.Style.Background,
		SVG:        template.HTML(inlineSVG(buf.Bytes())),
		FadeMillis: opts.Fade.Milliseconds(),
		OffsetX:    tooltip.Offset.X,
		OffsetY:    tooltip.Offset.Y,
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// inlineSVG drops the XML prolog svgo writes, which has no meaning inside
// an HTML document.
func inlineSVG(doc []byte) []byte {
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		return doc[i:]
	}
	return doc
}
