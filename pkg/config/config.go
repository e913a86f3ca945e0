// Package config handles loading and saving castgraph configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/castgraph/config.yaml
//
// Values in the file are overridden by environment variables, which are in
// turn overridden by command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/castgraph/pkg/graph"
	"github.com/vanderheijden86/castgraph/pkg/hooks"
	"github.com/vanderheijden86/castgraph/pkg/layout"
	"github.com/vanderheijden86/castgraph/pkg/render"
	"github.com/vanderheijden86/castgraph/pkg/tooltip"
)

// EnvDataDir overrides Data.Dir.
const EnvDataDir = "CASTGRAPH_DATA_DIR"

// DataConfig locates the two input documents. Edges and Nodes may be paths
// or http(s) URLs; relative paths are resolved against Dir.
type DataConfig struct {
	Dir   string `yaml:"dir,omitempty"`
	Edges string `yaml:"edges,omitempty"`
	Nodes string `yaml:"nodes,omitempty"`
}

// PaletteConfig holds the ordinal color palettes.
type PaletteConfig struct {
	Links    []string `yaml:"links,omitempty"`
	Nodes    []string `yaml:"nodes,omitempty"`
	Fallback string   `yaml:"fallback,omitempty"`
}

// TooltipConfig tunes the hover tooltip.
type TooltipConfig struct {
	FadeMillis int `yaml:"fade_ms,omitempty"`
}

// UIConfig holds terminal viewer settings.
type UIConfig struct {
	FrameRate int  `yaml:"frame_rate,omitempty"` // Simulation steps per second
	ShowHelp  bool `yaml:"show_help,omitempty"`  // Open with the help page
}

// ExportConfig holds defaults for render and export.
type ExportConfig struct {
	Format string `yaml:"format,omitempty"` // svg, png or html
	Dir    string `yaml:"dir,omitempty"`
	Ticks  int    `yaml:"ticks,omitempty"` // 0 means run until cooled
}

// Config is the top-level configuration for castgraph.
type Config struct {
	Data    DataConfig    `yaml:"data,omitempty"`
	Layout  layout.Params `yaml:"layout,omitempty"`
	Palette PaletteConfig `yaml:"palette,omitempty"`
	Canvas  render.Canvas `yaml:"canvas,omitempty"`
	Tooltip TooltipConfig `yaml:"tooltip,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Export  ExportConfig  `yaml:"export,omitempty"`
	Hooks   hooks.Hooks   `yaml:"hooks,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			Edges: "Edge-Relation.json",
			Nodes: "Nodes.json",
		},
		Layout: layout.DefaultParams(),
		Palette: PaletteConfig{
			Links:    append([]string(nil), graph.Category10...),
			Nodes:    append([]string(nil), graph.MoviePalette...),
			Fallback: graph.DefaultFallbackColor,
		},
		Canvas: render.DefaultCanvas(),
		Tooltip: TooltipConfig{
			FadeMillis: int(tooltip.FadeDuration / time.Millisecond),
		},
		UI: UIConfig{
			FrameRate: 60,
		},
		Export: ExportConfig{
			Format: "svg",
		},
	}
}

// ConfigDir returns the XDG config directory for castgraph.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "castgraph")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "castgraph")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Data.Dir = expandHome(cfg.Data.Dir)
	cfg.Export.Dir = expandHome(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		c.Data.Dir = expandHome(dir)
	}
}

// Validate checks values that would otherwise fail late, at draw time.
func (c Config) Validate() error {
	for _, col := range append(append([]string{c.Palette.Fallback}, c.Palette.Links...), c.Palette.Nodes...) {
		if col == "" {
			continue
		}
		if _, err := colorful.Hex(col); err != nil {
			return fmt.Errorf("palette color %q: want #rgb or #rrggbb", col)
		}
	}
	if c.Layout.VelocityDecay <= 0 || c.Layout.VelocityDecay >= 1 {
		return fmt.Errorf("layout.velocity_decay %v: want 0 < v < 1", c.Layout.VelocityDecay)
	}
	if c.Canvas.Scale < 0 {
		return fmt.Errorf("canvas.scale %v: must not be negative", c.Canvas.Scale)
	}
	if c.Tooltip.FadeMillis < 0 {
		return fmt.Errorf("tooltip.fade_ms %d: must not be negative", c.Tooltip.FadeMillis)
	}
	switch strings.ToLower(c.Export.Format) {
	case "", "svg", "png", "html":
	default:
		return fmt.Errorf("export.format %q: want svg, png or html", c.Export.Format)
	}
	return c.Hooks.Validate()
}

// GraphOptions returns the palettes as graph build options.
func (c Config) GraphOptions() graph.Options {
	return graph.Options{
		LinkPalette: c.Palette.Links,
		NodePalette: c.Palette.Nodes,
		Fallback:    c.Palette.Fallback,
	}
}

// FadeDuration returns the tooltip fade as a duration.
func (c Config) FadeDuration() time.Duration {
	return time.Duration(c.Tooltip.FadeMillis) * time.Millisecond
}

// FrameInterval returns the delay between simulation steps in the viewer.
func (c Config) FrameInterval() time.Duration {
	if c.UI.FrameRate <= 0 {
		return layout.DefaultFrameInterval
	}
	return time.Second / time.Duration(c.UI.FrameRate)
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
