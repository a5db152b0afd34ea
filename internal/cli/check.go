package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/node"
)

// checkCommand creates the check command for validating flattened graphs.
func (c *CLI) checkCommand() *cobra.Command {
	var rootType string

	cmd := &cobra.Command{
		Use:   "check [graph.json]",
		Short: "Validate a flattened graph against the schema",
		Long: `Check that every reference in a flattened graph resolves, that every record
names a registered type, and that field values fit their declared kinds. The
graph is rebuilt in memory as part of the check.

Use "-" to read the graph from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			reg, err := c.loadRegistry(ctx)
			if err != nil {
				return err
			}
			f, err := readGraph(args[0])
			if err != nil {
				return err
			}
			if err := flatten.Validate(f); err != nil {
				return err
			}

			prog := newProgress(logger)
			sp := startSpinner(ctx, c.status, fmt.Sprintf("Rebuilding %d nodes...", f.Len()))
			root, err := unflatten(ctx, reg, f)
			sp.stop()
			if err != nil {
				return err
			}
			prog.done("Rebuilt graph", "nodes", f.Len())

			if rootType != "" {
				if _, err := node.Assert(root, rootType); err != nil {
					return err
				}
			}

			stats := flatten.Stats(f)
			printSuccess("%s is valid", args[0])
			printStats(f.Len(), len(stats), -1)
			printTypeCounts(stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&rootType, "root-type", "", "require the root to be this type (or a descendant)")

	return cmd
}

// printTypeCounts prints one detail line per type, sorted by name.
func printTypeCounts(counts map[string]int) {
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		printKeyValue(name, fmt.Sprintf("%d", counts[name]))
	}
}
