package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/castgraph/pkg/debug"
	"github.com/vanderheijden86/castgraph/pkg/driver"
)

// ErrUnsupportedFormat is returned for formats other than svg, png and html.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Formats lists the snapshot formats in the order they are offered.
var Formats = []string{"svg", "png", "html"}

// SnapshotOptions controls SaveSnapshot.
type SnapshotOptions struct {
	Path    string // Output path; format inferred from extension when Format empty
	Format  string // "svg", "png" or "html" (case-insensitive)
	Frame   driver.Frame
	Options Options
}

// ResolveFormat returns the snapshot format for a path and an explicit
// format, and the path with an extension added when it had none.
func ResolveFormat(path, format string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		case ".html", ".htm":
			format = "html"
		case "":
			format = "svg"
			if path != "" {
				path += ".svg"
			}
		default:
			return "", path, fmt.Errorf("%w: %q (want svg, png or html)", ErrUnsupportedFormat, filepath.Ext(path))
		}
	}
	switch format {
	case "svg", "png", "html":
		return format, path, nil
	case "htm":
		return "html", path, nil
	default:
		return "", path, fmt.Errorf("%w: %q (want svg, png or html)", ErrUnsupportedFormat, format)
	}
}

// SaveSnapshot writes a frame to a file, creating parent directories.
func SaveSnapshot(opts SnapshotOptions) error {
	if opts.Frame.Graph == nil {
		return fmt.Errorf("no frame to export")
	}
	format, path, err := ResolveFormat(opts.Path, opts.Format)
	if err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(file, format, opts.Frame, opts.Options); err != nil {
		file.Close()
		return err
	}
	debug.Log("render: wrote %s snapshot to %s", format, path)
	return file.Close()
}

// Write renders a frame in the named format.
func Write(w io.Writer, format string, f driver.Frame, opts Options) error {
	switch format {
	case "svg":
		return WriteSVG(w, f, SVGOptions{Options: opts})
	case "png":
		return WritePNG(w, f, opts)
	case "html":
		return WriteHTML(w, f, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
