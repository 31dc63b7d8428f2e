// Package config holds the editor configuration: output limits, crop
// presets and the default annotation brush/text settings. Values come from
// built-in defaults, an optional YAML file and SNAPEDIT_* environment
// overrides, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/snapedit/internal/compose"
	"github.com/example/snapedit/internal/geom"
)

// Config is the full editor configuration.
type Config struct {
	MaxOutputEdge  int     `yaml:"max_output_edge"`
	JPEGQuality    int     `yaml:"jpeg_quality"`
	ReferenceWidth float64 `yaml:"reference_width"`

	// AspectRatio is the initial crop constraint: "free" or "W:H".
	AspectRatio string `yaml:"aspect_ratio"`
	// CropPresets is the ratio set offered by the hosts.
	CropPresets []string `yaml:"crop_presets"`

	DefaultBrushColor string  `yaml:"default_brush_color"`
	DefaultBrushSize  float64 `yaml:"default_brush_size"`
	DefaultTextSize   float64 `yaml:"default_text_size"`
	DefaultFont       string  `yaml:"default_font"`

	// ListenAddr and DatabasePath only matter to the serve host. An empty
	// DatabasePath selects the in-memory export store.
	ListenAddr   string `yaml:"listen_addr"`
	DatabasePath string `yaml:"database_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxOutputEdge:     1920,
		JPEGQuality:       90,
		ReferenceWidth:    640,
		AspectRatio:       "free",
		CropPresets:       []string{"free", "1:1", "4:3", "16:9"},
		DefaultBrushColor: "#FF3B30",
		DefaultBrushSize:  4,
		DefaultTextSize:   24,
		DefaultFont:       compose.FontRegular,
		ListenAddr:        ":8080",
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is empty the standard locations are searched; a missing file is not
// an error) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = findConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.normalized(), nil
}

// findConfigPath looks for a config file in the working directory, then
// under the user config dir.
func findConfigPath() string {
	if _, err := os.Stat(".snapedit.yaml"); err == nil {
		return ".snapedit.yaml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".config", "snapedit", "config.yaml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// applyEnv overrides fields from SNAPEDIT_* variables. Malformed numeric
// values are ignored in favor of the current setting.
func (c *Config) applyEnv() {
	if v, ok := envInt("SNAPEDIT_MAX_OUTPUT_EDGE"); ok {
		c.MaxOutputEdge = v
	}
	if v, ok := envInt("SNAPEDIT_JPEG_QUALITY"); ok {
		c.JPEGQuality = v
	}
	if v, ok := envFloat("SNAPEDIT_REFERENCE_WIDTH"); ok {
		c.ReferenceWidth = v
	}
	if v := os.Getenv("SNAPEDIT_ASPECT_RATIO"); v != "" {
		c.AspectRatio = v
	}
	if v := os.Getenv("SNAPEDIT_BRUSH_COLOR"); v != "" {
		c.DefaultBrushColor = v
	}
	if v, ok := envFloat("SNAPEDIT_BRUSH_SIZE"); ok {
		c.DefaultBrushSize = v
	}
	if v, ok := envFloat("SNAPEDIT_TEXT_SIZE"); ok {
		c.DefaultTextSize = v
	}
	if v := os.Getenv("SNAPEDIT_FONT"); v != "" {
		c.DefaultFont = v
	}
	if v := os.Getenv("SNAPEDIT_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("SNAPEDIT_DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Validate rejects settings that cannot be clamped into a working state.
func (c Config) Validate() error {
	if err := validAspect(c.AspectRatio); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, p := range c.CropPresets {
		if err := validAspect(p); err != nil {
			return fmt.Errorf("config: crop preset: %w", err)
		}
	}
	if _, err := compose.ParseColor(c.DefaultBrushColor); err != nil {
		return fmt.Errorf("config: brush color: %w", err)
	}
	return nil
}

// validAspect parses spec and rejects ratios the crop minimum extent
// cannot honor inside the canvas.
func validAspect(spec string) error {
	ratio, err := geom.ParseAspect(spec)
	if err != nil {
		return err
	}
	if ratio != 0 && (ratio < geom.MinAspect || ratio > geom.MaxAspect) {
		return fmt.Errorf("aspect ratio %q outside enforceable range [%g:1, 1:%g]",
			spec, geom.MaxAspect, 1/geom.MinAspect)
	}
	return nil
}

// normalized clamps numeric ranges and canonicalizes the font family.
func (c Config) normalized() Config {
	def := Default()
	if c.MaxOutputEdge < 0 {
		c.MaxOutputEdge = 0
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = def.JPEGQuality
	}
	if c.ReferenceWidth <= 0 {
		c.ReferenceWidth = def.ReferenceWidth
	}
	if c.DefaultBrushSize < 1 {
		c.DefaultBrushSize = 1
	}
	if c.DefaultBrushSize > 64 {
		c.DefaultBrushSize = 64
	}
	if c.DefaultTextSize < 6 {
		c.DefaultTextSize = 6
	}
	if c.DefaultTextSize > 200 {
		c.DefaultTextSize = 200
	}
	if f := strings.ToLower(strings.TrimSpace(c.DefaultFont)); f == compose.FontBold {
		c.DefaultFont = compose.FontBold
	} else {
		c.DefaultFont = compose.FontRegular
	}
	if len(c.CropPresets) == 0 {
		c.CropPresets = def.CropPresets
	}
	if c.ListenAddr == "" {
		c.ListenAddr = def.ListenAddr
	}
	return c
}

// Aspect returns the configured initial crop ratio, 0 for free-form.
func (c Config) Aspect() float64 {
	r, err := geom.ParseAspect(c.AspectRatio)
	if err != nil {
		return 0
	}
	return r
}

// ComposeOptions maps the config onto compositor options.
func (c Config) ComposeOptions() compose.Options {
	return compose.Options{
		MaxOutputEdge:  c.MaxOutputEdge,
		JPEGQuality:    c.JPEGQuality,
		ReferenceWidth: c.ReferenceWidth,
	}
}
