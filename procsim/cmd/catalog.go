package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/procstate/procsim/sim"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the transition catalog with the weight of each event",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cmd.SilenceUsage = true

		path, _ := cmd.Flags().GetString("config")

		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}

		catalog, err := cfg.SimCatalog()
		if err != nil {
			return err
		}

		printCatalog(cmd.OutOrStdout(), catalog)

		return nil
	},
}

func init() {
	catalogCmd.Flags().String("config", "", "YAML configuration file")

	rootCmd.AddCommand(catalogCmd)
}

// printCatalog lists each distinct event once with its share of the draws.
func printCatalog(out io.Writer, catalog sim.Catalog) {
	seen := make(map[sim.Event]bool)

	for _, e := range catalog {
		if seen[e] {
			continue
		}

		seen[e] = true

		w := catalog.Weight(e)
		fmt.Fprintf(out, "%-20s %d/%d\n", e, w, len(catalog))
	}
}
