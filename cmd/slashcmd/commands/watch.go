package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slashcmd/slashcmd/internal/command"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch command directories and reload on changes",
	Long: `Watch the project and user command directories, reloading the
registry whenever a definition file changes. Reloads are logged at INFO
level. Useful while authoring command files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, cfg, _, err := loadRegistry(cmd.Context())
		if err != nil {
			return err
		}
		if !cfg.WatchEnabled() {
			return fmt.Errorf("watching is disabled in configuration")
		}

		watcher, err := command.NewWatcher(registry, cfg.ProjectDir, cfg.UserDir)
		if err != nil {
			return err
		}
		if watcher == nil {
			return fmt.Errorf("no command directories exist to watch")
		}
		watcher.Start()
		defer watcher.Stop()

		fmt.Printf("Watching for command changes (%d commands loaded). Ctrl-C to stop.\n",
			len(registry.Definitions()))

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-cmd.Context().Done():
		}
		return nil
	},
}
