package record

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/mutjson/format"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults",
			src:  "{}\n",
			want: DefaultConfig(),
		},
		{
			name: "all fields",
			src:  "dir: data\nformat: yaml\nnested: false\nindent: 4\n",
			want: &Config{Dir: "data", Format: format.YAMLFormat, Nested: false, Indent: 4},
		},
		{
			name:    "bad format",
			src:     "format: xml\n",
			wantErr: true,
		},
		{
			name:    "bad indent",
			src:     "indent: -1\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "mj.yaml")
			if err := os.WriteFile(p, []byte(tt.src), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := LoadConfig(p)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigColumn(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Column() != Nested {
		t.Errorf("default column is %s", cfg.Column())
	}
	cfg.Nested = false
	if got := cfg.Options().Column; got != Shallow {
		t.Errorf("Options().Column = %s, want shallow", got)
	}
}
