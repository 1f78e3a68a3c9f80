package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/slashcmd/slashcmd/internal/command"
)

var runJSON bool

var runCmd = &cobra.Command{
	Use:   "run <command> [args...]",
	Short: "Expand a command into its final prompt",
	Long: `Resolve a command by name or qualified reference and expand its
template with the given positional arguments. The expanded prompt is
printed to stdout; warnings go to stderr.

Examples:
  slashcmd run review src/main.go
  slashcmd run project:frontend/review
  slashcmd run deploy -- --dry-run`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, cfg, dir, err := loadRegistry(cmd.Context())
		if err != nil {
			return err
		}

		executor := command.NewExecutor(registry, dir,
			command.WithBashTimeout(time.Duration(cfg.BashTimeoutSeconds)*time.Second))

		res, err := executor.Execute(cmd.Context(), args[0], args[1:])
		if err != nil {
			return err
		}

		if runJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		for _, warning := range res.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
		}
		if res.RequiresApproval {
			msg := res.ApprovalMessage
			if msg == "" {
				msg = "This command requires approval before its prompt is used."
			}
			fmt.Fprintf(os.Stderr, "approval required: %s\n", msg)
		}
		if res.ModelOverride != "" {
			fmt.Fprintf(os.Stderr, "model: %s\n", res.ModelOverride)
		}
		fmt.Println(res.Prompt)
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output the full result as JSON")
}
