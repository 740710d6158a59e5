package iconatlas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/iconatlas/surface"
	"gopkg.in/yaml.v3"
)

// Config holds the immutable construction parameters of an Atlas.
//
// Config carries no struct tags. LoadConfig and ParseConfig decode its YAML
// form, which uses the snake_case keys width, height, format, icon_width,
// icon_height, padding and label, with format given by name (see ParseFormat).
type Config struct {
	// Width and Height are the atlas texture size in pixels.
	Width  int
	Height int

	// Format is the atlas texture format. Only 8-bit RGBA and BGRA formats
	// are supported.
	Format gputypes.TextureFormat

	// IconWidth and IconHeight are the fixed size of every icon cell.
	IconWidth  int
	IconHeight int

	// Padding is the number of pixels between cells and around the grid.
	Padding int

	// Label is the debug label of the atlas texture.
	Label string
}

// DefaultConfig returns a 1024x1024 RGBA8 atlas of 64x64 cells with
// 2 pixels of padding.
func DefaultConfig() Config {
	return Config{
		Width:      1024,
		Height:     1024,
		Format:     gputypes.TextureFormatRGBA8Unorm,
		IconWidth:  64,
		IconHeight: 64,
		Padding:    2,
		Label:      "iconatlas",
	}
}

// Validate checks that the configuration describes a usable atlas.
// The atlas must fit at least one cell with padding on each side.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "Width", Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "Height", Reason: "must be positive"}
	}
	if c.IconWidth <= 0 {
		return &ConfigError{Field: "IconWidth", Reason: "must be positive"}
	}
	if c.IconHeight <= 0 {
		return &ConfigError{Field: "IconHeight", Reason: "must be positive"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.IconWidth+2*c.Padding > c.Width {
		return &ConfigError{Field: "Width", Reason: "must fit one icon plus padding on each side"}
	}
	if c.IconHeight+2*c.Padding > c.Height {
		return &ConfigError{Field: "Height", Reason: "must fit one icon plus padding on each side"}
	}
	if !surface.SupportedFormat(c.Format) {
		return &ConfigError{Field: "Format", Reason: "unsupported texture format " + FormatName(c.Format)}
	}
	return nil
}

// Columns returns the number of cells per row.
func (c Config) Columns() int {
	return (c.Width - c.Padding) / (c.IconWidth + c.Padding)
}

// Rows returns the number of cell rows.
func (c Config) Rows() int {
	return (c.Height - c.Padding) / (c.IconHeight + c.Padding)
}

// Capacity returns the number of cells a full bump fill yields.
func (c Config) Capacity() int {
	return c.Columns() * c.Rows()
}

// descriptor returns the surface descriptor for the atlas texture.
func (c Config) descriptor() surface.Descriptor {
	desc := surface.DefaultDescriptor(c.Width, c.Height)
	desc.Format = c.Format
	if c.Label != "" {
		desc.Label = c.Label
	}
	return desc
}

// fileConfig is the YAML form of Config. Zero fields keep their defaults;
// Padding is a pointer so an explicit 0 overrides the default.
type fileConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Format     string `yaml:"format"`
	IconWidth  int    `yaml:"icon_width"`
	IconHeight int    `yaml:"icon_height"`
	Padding    *int   `yaml:"padding"`
	Label      string `yaml:"label"`
}

// LoadConfig reads an atlas configuration from a YAML file.
//
// Example file:
//
//	width: 512
//	height: 512
//	format: bgra8
//	icon_width: 48
//	icon_height: 48
//	padding: 1
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("iconatlas: read config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("iconatlas: %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a YAML atlas configuration on top of DefaultConfig
// and validates the result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg := DefaultConfig()
	if raw.Width != 0 {
		cfg.Width = raw.Width
	}
	if raw.Height != 0 {
		cfg.Height = raw.Height
	}
	if raw.IconWidth != 0 {
		cfg.IconWidth = raw.IconWidth
	}
	if raw.IconHeight != 0 {
		cfg.IconHeight = raw.IconHeight
	}
	if raw.Padding != nil {
		cfg.Padding = *raw.Padding
	}
	if raw.Label != "" {
		cfg.Label = raw.Label
	}
	if raw.Format != "" {
		format, err := ParseFormat(raw.Format)
		if err != nil {
			return Config{}, err
		}
		cfg.Format = format
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var formatNames = map[string]gputypes.TextureFormat{
	"rgba8":      gputypes.TextureFormatRGBA8Unorm,
	"rgba8-srgb": gputypes.TextureFormatRGBA8UnormSrgb,
	"bgra8":      gputypes.TextureFormatBGRA8Unorm,
	"bgra8-srgb": gputypes.TextureFormatBGRA8UnormSrgb,
}

// ParseFormat converts a format name (rgba8, rgba8-srgb, bgra8, bgra8-srgb)
// to a texture format. Names are case-insensitive.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return gputypes.TextureFormatUndefined, &ConfigError{Field: "Format", Reason: fmt.Sprintf("unknown format %q", name)}
}

// FormatName returns the config name of format, or its numeric value for
// formats without one.
func FormatName(format gputypes.TextureFormat) string {
	for name, f := range formatNames {
		if f == format {
			return name
		}
	}
	return fmt.Sprintf("format(%v)", format)
}
