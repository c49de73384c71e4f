package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdcite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns zero config", func(t *testing.T) {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load(\"\") error = %v", err)
		}
		if diff := cmp.Diff(Config{}, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("valid file loads all sections", func(t *testing.T) {
		path := writeConfig(t, `output:
  defaultDir: /var/citations
context:
  chars: 500
  lines: 3
render:
  viewportWidth: 1024
  viewportHeight: 768
  timeoutSec: 45
workers: 2
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		want := Config{
			Output:  OutputConfig{DefaultDir: "/var/citations"},
			Context: ContextConfig{Chars: 500, Lines: 3},
			Render:  RenderConfig{ViewportWidth: 1024, ViewportHeight: 768, TimeoutSec: 45},
			Workers: 2,
		}
		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("partial file leaves other fields zero", func(t *testing.T) {
		path := writeConfig(t, `context:
  chars: 150
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Context.Chars != 150 {
			t.Errorf("Context.Chars = %d, want 150", cfg.Context.Chars)
		}
		if cfg.Render.ViewportWidth != 0 || cfg.Workers != 0 {
			t.Errorf("unset fields should remain zero: %+v", cfg)
		}
	})

	t.Run("unknown field returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, `contxt:
  chars: 150
`)

		_, err := Load(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("malformed yaml returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, "output: [unclosed")

		_, err := Load(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "zero config is valid",
			cfg:     Config{},
			wantErr: nil,
		},
		{
			name: "all fields at bounds",
			cfg: Config{
				Context: ContextConfig{Chars: MaxContextChars, Lines: MaxContextLines},
				Render:  RenderConfig{ViewportWidth: MinViewportDim, ViewportHeight: MaxViewportDim, TimeoutSec: MaxTimeoutSec},
				Workers: 8,
			},
			wantErr: nil,
		},
		{
			name:    "context chars too large",
			cfg:     Config{Context: ContextConfig{Chars: MaxContextChars + 1}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative context lines",
			cfg:     Config{Context: ContextConfig{Lines: -1}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "viewport width below minimum",
			cfg:     Config{Render: RenderConfig{ViewportWidth: MinViewportDim - 1}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "timeout above maximum",
			cfg:     Config{Render: RenderConfig{TimeoutSec: MaxTimeoutSec + 1}},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "negative workers",
			cfg:     Config{Workers: -1},
			wantErr: ErrOutOfRange,
		},
		{
			name:    "output dir too long",
			cfg:     Config{Output: OutputConfig{DefaultDir: string(make([]byte, MaxPathLength+1))}},
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
