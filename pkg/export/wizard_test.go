package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/castgraph/pkg/render"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"":     "castgraph.svg",
		"svg":  "castgraph.svg",
		"png":  "castgraph.png",
		"html": "castgraph.html",
	}
	for format, want := range tests {
		if got := DefaultOutputPath(format); got != want {
			t.Errorf("DefaultOutputPath(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		path, format string
		wantErr      bool
	}{
		{"", "svg", false},
		{"out/graph", "png", false},
		{"graph.svg", "svg", false},
		{"page.htm", "html", false},
		{"graph.svg", "png", true},
		{"graph.txt", "svg", true},
	}
	for _, tt := range tests {
		err := ValidateOutputPath(tt.path, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutputPath(%q, %q) = %v, wantErr %v", tt.path, tt.format, err, tt.wantErr)
		}
	}

	if err := ValidateOutputPath("x.gif", "svg"); !errors.Is(err, render.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWizardConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "export.json")

	cfg := &WizardConfig{Format: "html", OutputPath: "out/page.html", Title: "Cast"}
	if err := SaveWizardConfig(path, cfg); err != nil {
		t.Fatalf("SaveWizardConfig: %v", err)
	}

	loaded, err := LoadWizardConfig(path)
	if err != nil {
		t.Fatalf("LoadWizardConfig: %v", err)
	}
	if loaded == nil || *loaded != *cfg {
		t.Errorf("loaded %+v, want %+v", loaded, cfg)
	}
}

func TestLoadWizardConfig_Missing(t *testing.T) {
	cfg, err := LoadWizardConfig(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || cfg != nil {
		t.Errorf("missing file: got %+v, %v", cfg, err)
	}
	if cfg, err := LoadWizardConfig(""); err != nil || cfg != nil {
		t.Errorf("empty path: got %+v, %v", cfg, err)
	}
}

func TestLoadWizardConfig_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadWizardConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestNewWizard_DefaultsFormat(t *testing.T) {
	w := NewWizard(WizardConfig{}, "")
	if w.config.Format != "svg" {
		t.Errorf("format = %q, want svg", w.config.Format)
	}
}
