package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "shadow"

// GetConfigDir returns the platform-specific config directory.
// Unix: $XDG_CONFIG_HOME/shadow or ~/.config/shadow
// Windows: %APPDATA%\shadow
func GetConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appName), nil
}

// GetDataDir returns the platform-specific data directory.
// Unix: $XDG_DATA_HOME/shadow or ~/.local/share/shadow
// Windows: %LOCALAPPDATA%\shadow
func GetDataDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	default:
		base = os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, ".local", "share")
		}
	}
	return filepath.Join(base, appName), nil
}

// GetConfigPath returns the path to config.toml.
func GetConfigPath() (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "config.toml"), nil
}

// GetProfilesDir returns the directory for view profile files.
func GetProfilesDir() (string, error) {
	cfgDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "profiles"), nil
}

// GetLogPath returns the path of the interactive session log.
func GetLogPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "shadow.log"), nil
}

// GetExportsDir returns the default directory for exported files.
func GetExportsDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "exports"), nil
}

// EnsureDirs creates all required directories if they don't exist.
func EnsureDirs() error {
	dirs := []func() (string, error){GetConfigDir, GetDataDir, GetProfilesDir, GetExportsDir}
	for _, fn := range dirs {
		dir, err := fn()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
