package render

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/vanderheijden86/castgraph/pkg/driver"
	"github.com/vanderheijden86/castgraph/pkg/geom"
	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/model"
)

func testFrame(t *testing.T) driver.Frame {
	t.Helper()
	g := graph.Build(model.Dataset{
		Nodes: []model.NodeRecord{
			{ID: "A", Name: "Alice", Movie: "M1", Description: "<script>x</script>"},
			{ID: "B", Name: "Bob", Movie: "M2", Description: "d2"},
		},
		Edges: []model.EdgeRecord{
			{Source: "A", Target: "B", Interaction: "talks"},
			{Source: "B", Target: "C", Interaction: "hides from"},
		},
	}, graph.DefaultOptions())

	d := driver.New(g, nil, driver.Options{})
	g.Nodes[0].Place(0, 0)
	g.Nodes[1].Place(120, 0)
	g.Nodes[2].Place(0, 120)
	return d.Frame()
}

func TestWriteSVG_Structure(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testFrame(t), SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	wants := []string{
		`width="1024" height="640"`,
		`viewBox="-512 -320 1024 640"`,
		`translate(60, 40)`,
		`<marker id="arrow-talks" viewBox="0 -5 10 10" refX="15" refY="-0.5" markerWidth="6" markerHeight="6" orient="auto">`,
		`<marker id="arrow-hides-from"`,
		`d="M0,-5L10,0L0,5"`,
		`stroke-width="8"`,
		`d="M0,0 A120,120 0 0,1 120,0"`,
		`marker-end="url(#arrow-talks)"`,
		`stroke="#1f77b4"`,
		`transform="translate(120,0)"`,
		`r="16"`,
		`fill="#01FABF"`,
		`>Alice</text>`,
		`dy="1.8em"`,
		`<title>Interaction: talks</title>`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %s", want)
		}
	}
	if strings.Contains(out, "data-tip") {
		t.Error("static SVG should not carry data-tip attributes")
	}
}

func TestWriteSVG_MissingRecordDegrades(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testFrame(t), SVGOptions{}); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `fill="#999"`) {
		t.Error("node without record should use the fallback color")
	}
	if !strings.Contains(out, ">C</text>") {
		t.Error("node without record should be labelled with its id")
	}
	if !strings.Contains(out, "<title>No Data Found</title>") {
		t.Error("node without record should have the no-data title")
	}
}

func TestWriteSVG_NoGraph(t *testing.T) {
	if err := WriteSVG(&bytes.Buffer{}, driver.Frame{}, SVGOptions{}); err == nil {
		t.Fatal("expected error for a frame without graph")
	}
}

func TestSVGSurface_Idempotent(t *testing.T) {
	f := testFrame(t)
	s := &SVGSurface{}

	s.Draw(f)
	first := append([]byte(nil), s.Bytes()...)
	s.Draw(f)

	if s.Err() != nil {
		t.Fatalf("Draw: %v", s.Err())
	}
	if !bytes.Equal(first, s.Bytes()) {
		t.Error("drawing the same frame twice produced different documents")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, testFrame(t), Options{Title: "Cast & Crew"}); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "<?xml") {
		t.Error("inlined SVG kept its XML prolog")
	}
	for _, want := range []string{
		`<title>Cast &amp; Crew</title>`,
		`<div id="tooltip"></div>`,
		`data-tip="Interaction: talks"`,
		`data-tip="ID: A &lt;br&gt; Name: Alice`,
		`&amp;lt;script&amp;gt;`,
		`var duration = `,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %s", want)
		}
	}
	if strings.Contains(out, "<script>x</script>") {
		t.Error("description was not escaped")
	}
}

func TestWriteHTML_Fade(t *testing.T) {
	tests := []struct {
		name string
		fade time.Duration
		want string
	}{
		{"default", 0, `var duration =\s*200\s*;`},
		{"configured", 350 * time.Millisecond, `var duration =\s*350\s*;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteHTML(&buf, testFrame(t), Options{Fade: tt.fade}); err != nil {
				t.Fatalf("WriteHTML: %v", err)
			}
			if !regexp.MustCompile(tt.want).MatchString(buf.String()) {
				t.Errorf("page does not match %q", tt.want)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testFrame(t), Options{}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 640 {
		t.Fatalf("size = %v, want 1024x640", b)
	}

	// Node A sits at the layout origin.
	at := DefaultCanvas().ToScreen(geom.Pt(0, 0))
	r, g, b, _ := img.At(int(at.X), int(at.Y)).RGBA()
	if r>>8 != 0x01 || g>>8 != 0xFA || b>>8 != 0xBF {
		t.Errorf("node A pixel = #%02x%02x%02x, want #01fabf", r>>8, g>>8, b>>8)
	}
}

func TestCanvas(t *testing.T) {
	c := DefaultCanvas()
	w, h := c.Size()
	if w != 1024 || h != 640 {
		t.Errorf("Size() = %dx%d", w, h)
	}
	if got := c.ToScreen(geom.Pt(0, 0)); got != geom.Pt(572, 360) {
		t.Errorf("ToScreen(origin) = %+v", got)
	}
	p := geom.Pt(-33.5, 71)
	if got := c.ToLayout(c.ToScreen(p)); got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestCanvas_ZeroValue(t *testing.T) {
	var zero Canvas
	if got, want := zero.ToScreen(geom.Pt(0, 0)), DefaultCanvas().ToScreen(geom.Pt(0, 0)); got != want {
		t.Errorf("zero canvas ToScreen(origin) = %+v, want %+v", got, want)
	}
	if got := (Options{}).withDefaults().Canvas; got != DefaultCanvas() {
		t.Errorf("zero options canvas = %+v, want default", got)
	}

	// A configured canvas keeps its explicit margins.
	c := Canvas{ViewportWidth: 100, ViewportHeight: 100, Scale: 1}
	if got := c.withDefaults(); got.MarginLeft != 0 || got.MarginTop != 0 {
		t.Errorf("configured canvas margins = (%v, %v), want (0, 0)", got.MarginLeft, got.MarginTop)
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		path, format     string
		wantFmt, wantOut string
		wantErr          bool
	}{
		{"out.svg", "", "svg", "out.svg", false},
		{"OUT.PNG", "", "png", "OUT.PNG", false},
		{"page.htm", "", "html", "page.htm", false},
		{"graph", "", "svg", "graph.svg", false},
		{"x.dat", "png", "png", "x.dat", false},
		{"x.txt", "", "", "x.txt", true},
		{"x.svg", "pdf", "", "x.svg", true},
	}
	for _, tt := range tests {
		got, out, err := ResolveFormat(tt.path, tt.format)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("ResolveFormat(%q, %q) err = %v, want ErrUnsupportedFormat", tt.path, tt.format, err)
			}
			continue
		}
		if err != nil || got != tt.wantFmt || out != tt.wantOut {
			t.Errorf("ResolveFormat(%q, %q) = %q, %q, %v", tt.path, tt.format, got, out, err)
		}
	}
}

func TestSaveSnapshot(t *testing.T) {
	f := testFrame(t)
	tmp := t.TempDir()

	for _, name := range []string{"graph.svg", "graph.png", "nested/dir/graph.html"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(tmp, name)
			if err := SaveSnapshot(SnapshotOptions{Path: out, Frame: f}); err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}
			info, err := os.Stat(out)
			if err != nil {
				t.Fatalf("output not created: %v", err)
			}
			if info.Size() == 0 {
				t.Fatal("output file is empty")
			}
		})
	}

	err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(tmp, "graph.txt"), Frame: f})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("txt export err = %v, want ErrUnsupportedFormat", err)
	}
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(tmp, "empty.svg")}); err == nil {
		t.Error("expected error for an empty frame")
	}
}
