package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/censusacs/pkg/config"
)

func TestConfigPathDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	dir, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("DefaultPath() = %q, should be under home %q", dir, home)
	}

	expected := filepath.Join(home, ".config", appName, "config.toml")
	if dir != expected {
		t.Errorf("DefaultPath() = %q, want %q", dir, expected)
	}
}

func TestConfigPathXDG(t *testing.T) {
	custom := "/tmp/custom-config"
	t.Setenv("XDG_CONFIG_HOME", custom)

	dir, err := config.DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}

	expected := filepath.Join(custom, appName, "config.toml")
	if dir != expected {
		t.Errorf("DefaultPath() with XDG_CONFIG_HOME = %q, want %q", dir, expected)
	}
}
