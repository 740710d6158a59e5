package iconatlas

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"default", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.Width = 0 }, "Width"},
		{"zero height", func(c *Config) { c.Height = 0 }, "Height"},
		{"zero icon width", func(c *Config) { c.IconWidth = 0 }, "IconWidth"},
		{"negative icon height", func(c *Config) { c.IconHeight = -1 }, "IconHeight"},
		{"negative padding", func(c *Config) { c.Padding = -1 }, "Padding"},
		{"icon wider than atlas", func(c *Config) { c.Width = 64 }, "Width"},
		{"icon taller than atlas", func(c *Config) { c.Height = 66 }, "Height"},
		{"exact single cell", func(c *Config) { c.Width, c.Height = 68, 68 }, ""},
		{"no padding", func(c *Config) { c.Padding = 0 }, ""},
		{"unsupported format", func(c *Config) { c.Format = gputypes.TextureFormatUndefined }, "Format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Fatalf("Validate() = %v, want ConfigError(%s)", err, tt.field)
			}
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	if got := err.Error(); got != "iconatlas: invalid config.Padding: must be non-negative" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDefaultConfigCapacity(t *testing.T) {
	cfg := DefaultConfig()
	// (1024-2)/(64+2) = 15 per axis.
	if cfg.Columns() != 15 || cfg.Rows() != 15 || cfg.Capacity() != 225 {
		t.Errorf("grid = %dx%d (%d), want 15x15 (225)", cfg.Columns(), cfg.Rows(), cfg.Capacity())
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
width: 256
height: 128
format: BGRA8-srgb
icon_width: 32
icon_height: 16
padding: 0
label: markers
`))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Width: 256, Height: 128,
		Format:    gputypes.TextureFormatBGRA8UnormSrgb,
		IconWidth: 32, IconHeight: 16,
		Padding: 0,
		Label:   "markers",
	}
	if cfg != want {
		t.Errorf("ParseConfig = %+v, want %+v", cfg, want)
	}
}

func TestFileConfigMirrorsConfig(t *testing.T) {
	cfg := reflect.TypeFor[Config]()
	file := reflect.TypeFor[fileConfig]()
	if cfg.NumField() != file.NumField() {
		t.Fatalf("Config has %d fields, fileConfig %d", cfg.NumField(), file.NumField())
	}
	for i := range cfg.NumField() {
		f := cfg.Field(i)
		if tag, ok := f.Tag.Lookup("yaml"); ok {
			t.Errorf("Config.%s has yaml tag %q; YAML keys belong to fileConfig", f.Name, tag)
		}
		mirror, ok := file.FieldByName(f.Name)
		if !ok {
			t.Errorf("fileConfig has no %s field", f.Name)
			continue
		}
		if mirror.Tag.Get("yaml") == "" {
			t.Errorf("fileConfig.%s has no yaml key", f.Name)
		}
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty config = %+v, want defaults", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "colour: red\n"},
		{"bad format", "format: rgb565\n"},
		{"invalid grid", "width: 10\n"},
		{"malformed", "width: [1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); err == nil {
				t.Error("ParseConfig succeeded")
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	if err := os.WriteFile(path, []byte("icon_width: 48\nicon_height: 48\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.IconWidth != 48 || cfg.Width != 1024 {
		t.Errorf("LoadConfig = %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestFormatNames(t *testing.T) {
	for _, name := range []string{"rgba8", "rgba8-srgb", "bgra8", "bgra8-srgb"} {
		f, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q) = %v", name, err)
		}
		if FormatName(f) != name {
			t.Errorf("FormatName(ParseFormat(%q)) = %q", name, FormatName(f))
		}
	}
}
