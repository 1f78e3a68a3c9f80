// Package config provides configuration loading and path management.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths contains the standard paths for slashcmd data.
type Paths struct {
	Data   string // ~/.local/share/slashcmd
	Config string // ~/.config/slashcmd
	Cache  string // ~/.cache/slashcmd
	State  string // ~/.local/state/slashcmd
}

// GetPaths returns the standard paths for slashcmd data.
func GetPaths() *Paths {
	return &Paths{
		Data:   filepath.Join(getEnvOrDefault("XDG_DATA_HOME", defaultDataHome()), "slashcmd"),
		Config: filepath.Join(getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome()), "slashcmd"),
		Cache:  filepath.Join(getEnvOrDefault("XDG_CACHE_HOME", defaultCacheHome()), "slashcmd"),
		State:  filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "slashcmd"),
	}
}

// EnsurePaths creates all required directories.
func (p *Paths) EnsurePaths() error {
	for _, dir := range []string{p.Data, p.Config, p.Cache, p.State} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// UserCommandsDir returns the user-scoped command directory.
func (p *Paths) UserCommandsDir() string {
	return filepath.Join(p.Config, "commands")
}

// SourceCacheDir returns the cache directory for remote sources.
func (p *Paths) SourceCacheDir() string {
	return filepath.Join(p.Cache, "sources")
}

// GetConfigDir returns the config directory to use.
// Prefers SLASHCMD_CONFIG_DIR, then the XDG location.
func GetConfigDir() string {
	if dir := os.Getenv("SLASHCMD_CONFIG_DIR"); dir != "" {
		return dir
	}
	return GetPaths().Config
}

// ProjectCommandsDir returns the project-scoped command directory.
func ProjectCommandsDir(directory string) string {
	return filepath.Join(directory, ".slashcmd", "commands")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultDataHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share")
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultCacheHome() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "cache")
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
