package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/slashcmd/slashcmd/internal/command"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered commands",
	Long: `List all commands discovered from the project, user, and remote
sources, in precedence order. Commands marked disable-model-invocation
are omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, _, dir, err := loadRegistry(cmd.Context())
		if err != nil {
			return err
		}

		infos := command.NewExecutor(registry, dir).List()

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		}

		if len(infos) == 0 {
			fmt.Println("No commands found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMMAND\tARGUMENTS\tDESCRIPTION")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Namespace, info.ArgumentHint, info.Description)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}
