// Package types defines configuration types shared between the CLI and the
// command engine.
package types

// Config is the merged slashcmd configuration.
type Config struct {
	// ProjectDir is the project-scoped command directory
	// (<project>/.slashcmd/commands when empty).
	ProjectDir string `json:"projectDir,omitempty"`

	// UserDir is the user-scoped command directory
	// (~/.config/slashcmd/commands when empty).
	UserDir string `json:"userDir,omitempty"`

	// CacheDir is where remote sources are cloned
	// (~/.cache/slashcmd/sources when empty).
	CacheDir string `json:"cacheDir,omitempty"`

	// Sources lists remote command collections in precedence order.
	Sources []SourceConfig `json:"sources,omitempty"`

	// BashTimeoutSeconds bounds each template shell snippet.
	BashTimeoutSeconds int `json:"bashTimeoutSeconds,omitempty"`

	// Watch enables automatic registry reload on command file changes.
	Watch *bool `json:"watch,omitempty"`

	// LogLevel is the minimum log level (DEBUG|INFO|WARN|ERROR).
	LogLevel string `json:"logLevel,omitempty"`
}

// SourceConfig describes one remote command collection.
type SourceConfig struct {
	// Name is the namespace under which the source's commands register.
	// Defaults to the repository basename.
	Name string `json:"name,omitempty"`

	// URL is a git URL of the form
	// git+https://host/org/repo[@revision][:subpath].
	URL string `json:"url"`
}

// WatchEnabled reports whether the directory watcher should run.
// Watching is on unless explicitly disabled.
func (c *Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}
