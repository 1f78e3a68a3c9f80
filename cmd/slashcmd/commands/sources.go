package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/slashcmd/slashcmd/internal/config"
	"github.com/slashcmd/slashcmd/internal/source"
)

var sourcesRefresh bool

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show configured remote sources and their cache state",
	Long: `Show the remote command sources from configuration along with
whether each is cached locally. With --refresh, discard cached copies
and fetch every source again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := workDir()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}

		if len(cfg.Sources) == 0 {
			fmt.Println("No remote sources configured.")
			return nil
		}

		fetcher := source.NewFetcher(cfg.CacheDir)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tURL\tSTATUS")
		for _, src := range cfg.Sources {
			remote := source.ParseURL(src.URL)
			name := src.Name
			if name == "" {
				name = remote.Name()
			}

			status := "not cached"
			if sourcesRefresh {
				if _, err := fetcher.Refresh(cmd.Context(), remote); err != nil {
					status = fmt.Sprintf("error: %v", err)
				} else {
					status = "refreshed"
				}
			} else if _, ok := fetcher.Cached(remote); ok {
				status = "cached"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\n", name, src.URL, status)
		}
		return w.Flush()
	},
}

func init() {
	sourcesCmd.Flags().BoolVar(&sourcesRefresh, "refresh", false, "Re-fetch all sources")
}
