package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error: %v", err)
	}
	if dir == "" {
		t.Fatal("GetConfigDir() returned empty string")
	}
	if filepath.Base(dir) != "shadow" {
		t.Errorf("expected dir to end with 'shadow', got %q", filepath.Base(dir))
	}
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error: %v", err)
	}
	expected := filepath.Join(tmp, "shadow")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestGetDataDir(t *testing.T) {
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir() error: %v", err)
	}
	if dir == "" {
		t.Fatal("GetDataDir() returned empty string")
	}
	if filepath.Base(dir) != "shadow" {
		t.Errorf("expected dir to end with 'shadow', got %q", filepath.Base(dir))
	}
}

func TestDerivedPaths(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
		base string
	}{
		{"config", GetConfigPath, "config.toml"},
		{"profiles", GetProfilesDir, "profiles"},
		{"log", GetLogPath, "shadow.log"},
		{"exports", GetExportsDir, "exports"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.fn()
			if err != nil {
				t.Fatalf("error: %v", err)
			}
			if filepath.Base(p) != tt.base {
				t.Errorf("expected %q, got %q", tt.base, filepath.Base(p))
			}
		})
	}
}

func TestEnsureDirs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG test not applicable on Windows")
	}
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}
	for _, fn := range []func() (string, error){GetProfilesDir, GetExportsDir} {
		dir, _ := fn()
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("expected directory %q to exist", dir)
		}
	}
}
