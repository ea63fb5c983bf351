// Package config loads and validates the converter configuration. A missing
// config file is not an error; every option has a default, and validation
// runs once at load time so the rest of the program always sees a complete,
// valid value.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the pplx2md configuration directory.
//
// Resolution:
//   - $PPLX2MD_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/pplx2md if set (respects XDG on any platform)
//   - %AppData%/pplx2md on Windows
//   - ~/.config/pplx2md on macOS and Linux
func Dir() string {
	// Explicit override
	if dir := os.Getenv("PPLX2MD_CONFIG_HOME"); dir != "" {
		return dir
	}

	// XDG override (works on any platform)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pplx2md")
	}

	// Windows: use AppData
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "pplx2md")
		}
	}

	// macOS and Linux: ~/.config/pplx2md
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pplx2md")
}
