package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

// browseCommand creates the interactive graph browser command.
func (c *CLI) browseCommand() *cobra.Command {
	var fromSnapshot bool

	cmd := &cobra.Command{
		Use:   "browse [graph.json | snapshot]",
		Short: "Explore a graph interactively",
		Long: `Open a terminal browser positioned at the root node. Each row is a field of
the current node; rows that hold a node can be opened, and backspace returns
to the previous node.

With --snapshot the argument is a snapshot key or tag from the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := c.loadRegistry(ctx)
			if err != nil {
				return err
			}

			var root any
			if fromSnapshot {
				root, err = c.loadSnapshot(ctx, reg, args[0])
			} else {
				root, _, err = loadGraph(ctx, reg, args[0])
			}
			if err != nil {
				return err
			}
			return browse(root)
		},
	}

	cmd.Flags().BoolVar(&fromSnapshot, "snapshot", false, "read the graph from the snapshot cache")

	return cmd
}

// loadSnapshot loads a stored graph by key or tag.
func (c *CLI) loadSnapshot(ctx context.Context, reg *schema.Registry, ref string) (any, error) {
	st, ch, err := c.newStore(ctx, reg)
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	return st.Load(ctx, ref)
}

func browse(root any) error {
	n, ok := root.(*node.Node)
	if !ok || n == nil {
		return errors.New(errors.ErrCodeInvalidInput, "graph root is a %s, not a node", node.KindOf(root))
	}

	finalModel, err := tea.NewProgram(NewNodeBrowserModel(n)).Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(NodeBrowserModel); ok {
		printDetail("Visited %d nodes", fm.Visited)
	}
	return nil
}
