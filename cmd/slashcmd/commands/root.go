// Package commands provides the CLI commands for slashcmd.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slashcmd/slashcmd/internal/command"
	"github.com/slashcmd/slashcmd/internal/config"
	"github.com/slashcmd/slashcmd/internal/logging"
	"github.com/slashcmd/slashcmd/internal/source"
	"github.com/slashcmd/slashcmd/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	logLevel   string
	prettyLogs bool
	directory  string
)

var rootCmd = &cobra.Command{
	Use:   "slashcmd",
	Short: "slashcmd - reusable parameterized prompt commands",
	Long: `slashcmd discovers command templates from project, user, and remote
sources and expands them into fully-resolved prompt text.

Command files are Markdown with a YAML frontmatter header, placed in
.slashcmd/commands/ (project) or ~/.config/slashcmd/commands/ (user), or
fetched from configured git sources.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Best effort; a missing .env is fine
		_ = godotenv.Load()

		logging.Init(logging.Config{
			Level:  logging.ParseLevel(logLevel),
			Pretty: prettyLogs,
		})
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().BoolVar(&prettyLogs, "pretty-logs", false, "Human-readable log output")
	rootCmd.PersistentFlags().StringVarP(&directory, "directory", "C", "", "Project directory (default: current directory)")

	rootCmd.SetVersionTemplate(fmt.Sprintf("slashcmd %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// workDir returns the project directory from the flag or the current
// directory.
func workDir() (string, error) {
	if directory != "" {
		return directory, nil
	}
	return os.Getwd()
}

// loadRegistry builds and populates a registry from configuration.
func loadRegistry(ctx context.Context) (*command.Registry, *types.Config, string, error) {
	dir, err := workDir()
	if err != nil {
		return nil, nil, "", err
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, nil, "", err
	}

	var opts []command.RegistryOption
	if len(cfg.Sources) > 0 {
		opts = append(opts, command.WithSources(cfg.Sources, source.NewFetcher(cfg.CacheDir)))
	}

	registry := command.NewRegistry(cfg.ProjectDir, cfg.UserDir, opts...)
	registry.Reload(ctx)
	return registry, cfg, dir, nil
}
