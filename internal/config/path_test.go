package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path untouched", in: "/var/lib/salescope.db", want: "/var/lib/salescope.db"},
		{name: "tilde prefix", in: "~/data/orders.db", want: filepath.Join(home, "data", "orders.db")},
		{name: "bare tilde", in: "~", want: home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandPath_EnvVar(t *testing.T) {
	t.Setenv("SALESCOPE_TEST_DIR", "/tmp/scope")
	if got := ExpandPath("$SALESCOPE_TEST_DIR/orders.db"); got != "/tmp/scope/orders.db" {
		t.Errorf("ExpandPath() = %q, want /tmp/scope/orders.db", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	got := DefaultDBPath()
	if !strings.HasSuffix(got, filepath.Join(".config", "salescope", "salescope.db")) {
		t.Errorf("DefaultDBPath() = %q, want .config/salescope/salescope.db suffix", got)
	}
}

func TestEnsureDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "dir", "orders.db")
	if err := EnsureDir(target); err != nil {
		t.Fatalf("EnsureDir() error: %v", err)
	}
	info, err := os.Stat(filepath.Dir(target))
	if err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
