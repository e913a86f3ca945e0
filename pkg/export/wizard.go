// Package export provides the interactive form behind `castgraph export`.
//
// The wizard asks for a snapshot format, an output path and a page title,
// and remembers the answers for the next run.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/castgraph/pkg/render"
)

// WizardConfig is what the wizard collects.
type WizardConfig struct {
	Format     string `json:"format"`
	OutputPath string `json:"output_path"`
	Title      string `json:"title,omitempty"`
}

// DefaultOutputPath is the suggested file name for a format.
func DefaultOutputPath(format string) string {
	if format == "" {
		format = "svg"
	}
	return "castgraph." + format
}

// ValidateOutputPath checks that path can hold a snapshot in format. An
// empty path is accepted; the wizard substitutes the default.
func ValidateOutputPath(path, format string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if filepath.Ext(path) == "" {
		return nil
	}
	got, _, err := render.ResolveFormat(path, "")
	if err != nil {
		return err
	}
	if got != format {
		return fmt.Errorf("extension %s does not match format %s", filepath.Ext(path), format)
	}
	return nil
}

// Wizard handles the interactive export flow.
type Wizard struct {
	config     *WizardConfig
	configPath string
	out        io.Writer
}

// NewWizard creates a wizard seeded with defaults. configPath is where the
// answers are remembered; empty disables persistence.
func NewWizard(defaults WizardConfig, configPath string) *Wizard {
	cfg := defaults
	if cfg.Format == "" {
		cfg.Format = "svg"
	}
	return &Wizard{config: &cfg, configPath: configPath, out: os.Stdout}
}

// IsTerminal reports whether stdin is connected to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !IsTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run asks for the export settings. Answers saved by a previous run are
// offered first.
func (w *Wizard) Run() (*WizardConfig, error) {
	if saved, err := LoadWizardConfig(w.configPath); err == nil && saved != nil && saved.Format != "" {
		use, err := w.offerSaved(saved)
		if err != nil {
			return nil, err
		}
		if use {
			w.config = saved
			return w.config, nil
		}
	}

	if err := w.collectFormat(); err != nil {
		return nil, err
	}
	if err := w.collectOutput(); err != nil {
		return nil, err
	}

	if w.configPath != "" {
		if err := SaveWizardConfig(w.configPath, w.config); err != nil {
			fmt.Fprintf(w.out, "Warning: could not remember export settings: %v\n", err)
		}
	}
	return w.config, nil
}

func (w *Wizard) offerSaved(saved *WizardConfig) (bool, error) {
	fmt.Fprintln(w.out, "Previous export settings:")
	fmt.Fprintf(w.out, "  Format: %s\n", saved.Format)
	fmt.Fprintf(w.out, "  Path:   %s\n", saved.OutputPath)
	if saved.Title != "" {
		fmt.Fprintf(w.out, "  Title:  %s\n", saved.Title)
	}
	fmt.Fprintln(w.out)

	use := true
	form := newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Export again with these settings?").
				Value(&use).
				Affirmative("Yes").
				Negative("No, change them"),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return use, nil
}

func (w *Wizard) collectFormat() error {
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Snapshot format").
				Options(
					huh.NewOption("SVG (vector image)", "svg"),
					huh.NewOption("PNG (raster image)", "png"),
					huh.NewOption("HTML (page with hover tooltips)", "html"),
				).
				Value(&w.config.Format),
		),
	)
	return form.Run()
}

func (w *Wizard) collectOutput() error {
	suggested := DefaultOutputPath(w.config.Format)
	if w.config.OutputPath == "" || ValidateOutputPath(w.config.OutputPath, w.config.Format) != nil {
		w.config.OutputPath = suggested
	}

	fields := []huh.Field{
		huh.NewInput().
			Title("Output file").
			Value(&w.config.OutputPath).
			Placeholder(suggested).
			Validate(func(s string) error {
				return ValidateOutputPath(s, w.config.Format)
			}),
	}
	if w.config.Format == "html" {
		fields = append(fields, huh.NewInput().
			Title("Page title").
			Value(&w.config.Title).
			Placeholder("Character Graph"))
	}

	if err := newForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}
	if strings.TrimSpace(w.config.OutputPath) == "" {
		w.config.OutputPath = suggested
	}
	return nil
}

// Aborted reports whether err means the user cancelled the form.
func Aborted(err error) bool {
	return errors.Is(err, huh.ErrUserAborted)
}

// LoadWizardConfig reads saved answers. It returns nil, nil when nothing
// has been saved.
func LoadWizardConfig(path string) (*WizardConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveWizardConfig saves answers for future runs.
func SaveWizardConfig(path string, cfg *WizardConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
