package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/slashcmd/slashcmd/pkg/types"
	"github.com/tidwall/jsonc"
)

// DefaultBashTimeoutSeconds bounds each template shell snippet.
const DefaultBashTimeoutSeconds = 30

// Load loads configuration from multiple sources (priority order, later wins):
// 1. Global config (~/.config/slashcmd/slashcmd.json[c])
// 2. Project config (<dir>/.slashcmd/slashcmd.json[c])
// 3. SLASHCMD_CONFIG file
// 4. SLASHCMD_CONFIG_CONTENT inline JSON
// 5. Environment variables
func Load(directory string) (*types.Config, error) {
	config := &types.Config{}

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string, baseDir string) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if loaded[absPath] {
			return
		}
		if loadConfigFile(path, config, baseDir) == nil {
			loaded[absPath] = true
		}
	}

	// 1. Global config
	globalDir := GetConfigDir()
	loadOnce(filepath.Join(globalDir, "slashcmd.json"), globalDir)
	loadOnce(filepath.Join(globalDir, "slashcmd.jsonc"), globalDir)

	// 2. Project config
	if directory != "" {
		projectConfigDir := filepath.Join(directory, ".slashcmd")
		loadOnce(filepath.Join(projectConfigDir, "slashcmd.json"), projectConfigDir)
		loadOnce(filepath.Join(projectConfigDir, "slashcmd.jsonc"), projectConfigDir)
	}

	// 3. SLASHCMD_CONFIG file override
	if configPath := os.Getenv("SLASHCMD_CONFIG"); configPath != "" {
		loadOnce(configPath, filepath.Dir(configPath))
	}

	// 4. SLASHCMD_CONFIG_CONTENT inline JSON
	if configContent := os.Getenv("SLASHCMD_CONFIG_CONTENT"); configContent != "" {
		var inlineConfig types.Config
		if err := json.Unmarshal([]byte(configContent), &inlineConfig); err == nil {
			mergeConfig(config, &inlineConfig)
		}
	}

	// 5. Environment variables (highest priority)
	applyEnvOverrides(config)

	applyDefaults(config, directory)

	return config, nil
}

// loadConfigFile loads a single config file with interpolation support.
func loadConfigFile(path string, config *types.Config, baseDir string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err // File doesn't exist, skip
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)

	// Apply interpolation
	data = interpolate(data, baseDir)

	var fileConfig types.Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return err
	}

	mergeConfig(config, &fileConfig)
	return nil
}

// interpolate processes {env:VAR} and {file:path} placeholders.
func interpolate(data []byte, baseDir string) []byte {
	str := string(data)

	envPattern := regexp.MustCompile(`\{env:([^}]+)\}`)
	str = envPattern.ReplaceAllStringFunc(str, func(match string) string {
		varName := envPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})

	filePattern := regexp.MustCompile(`\{file:([^}]+)\}`)
	str = filePattern.ReplaceAllStringFunc(str, func(match string) string {
		filePath := filePattern.FindStringSubmatch(match)[1]

		if strings.HasPrefix(filePath, "~/") {
			filePath = filepath.Join(os.Getenv("HOME"), filePath[2:])
		} else if !filepath.IsAbs(filePath) {
			filePath = filepath.Join(baseDir, filePath)
		}

		content, err := os.ReadFile(filePath)
		if err != nil {
			return match // Keep original if file not found
		}

		// Escape for JSON string
		escaped := strings.ReplaceAll(string(content), "\\", "\\\\")
		escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
		escaped = strings.ReplaceAll(escaped, "\n", "\\n")
		escaped = strings.ReplaceAll(escaped, "\r", "\\r")
		escaped = strings.ReplaceAll(escaped, "\t", "\\t")

		return escaped
	})

	return []byte(str)
}

// mergeConfig merges source config into target.
func mergeConfig(target, source *types.Config) {
	if source.ProjectDir != "" {
		target.ProjectDir = source.ProjectDir
	}
	if source.UserDir != "" {
		target.UserDir = source.UserDir
	}
	if source.CacheDir != "" {
		target.CacheDir = source.CacheDir
	}
	if source.BashTimeoutSeconds > 0 {
		target.BashTimeoutSeconds = source.BashTimeoutSeconds
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
	}
	if source.Watch != nil {
		target.Watch = source.Watch
	}
	if len(source.Sources) > 0 {
		target.Sources = append(target.Sources, source.Sources...)
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(config *types.Config) {
	if dir := os.Getenv("SLASHCMD_CACHE_DIR"); dir != "" {
		config.CacheDir = dir
	}
	if level := os.Getenv("SLASHCMD_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if timeout := os.Getenv("SLASHCMD_BASH_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil && secs > 0 {
			config.BashTimeoutSeconds = secs
		}
	}
	// Comma-separated git URLs, appended after configured sources
	if sources := os.Getenv("SLASHCMD_SOURCES"); sources != "" {
		for _, url := range strings.Split(sources, ",") {
			url = strings.TrimSpace(url)
			if url != "" {
				config.Sources = append(config.Sources, types.SourceConfig{URL: url})
			}
		}
	}
}

// applyDefaults fills unset fields with standard locations.
func applyDefaults(config *types.Config, directory string) {
	paths := GetPaths()
	if config.ProjectDir == "" && directory != "" {
		config.ProjectDir = ProjectCommandsDir(directory)
	}
	if config.UserDir == "" {
		config.UserDir = paths.UserCommandsDir()
	}
	if config.CacheDir == "" {
		config.CacheDir = paths.SourceCacheDir()
	}
	if config.BashTimeoutSeconds <= 0 {
		config.BashTimeoutSeconds = DefaultBashTimeoutSeconds
	}
}
