package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/pkg/schema"
	"github.com/matzehuels/typegraph/pkg/store"
)

// snapshotCommand creates the snapshot command group.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save, load and tag graphs in the snapshot cache",
		Long: `Snapshots are flattened graphs stored in the configured cache backend under a
key derived from their content. Tags are names that point at snapshot keys.

The memory backend only lives for one invocation; use the file or redis
backend to keep snapshots between runs.`,
	}

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotLoadCommand())
	cmd.AddCommand(c.snapshotTagCommand())
	cmd.AddCommand(c.snapshotDeleteCommand())

	return cmd
}

// withStore loads the schema, opens the store and runs fn with it.
func (c *CLI) withStore(ctx context.Context, fn func(*schema.Registry, *store.Store) error) error {
	reg, err := c.loadRegistry(ctx)
	if err != nil {
		return err
	}
	st, ch, err := c.newStore(ctx, reg)
	if err != nil {
		return err
	}
	defer ch.Close()
	return fn(reg, st)
}

// snapshotSaveCommand creates the "snapshot save" subcommand.
func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "save [graph.json]",
		Short: "Store a graph and print its snapshot key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(reg *schema.Registry, st *store.Store) error {
				root, f, err := loadGraph(ctx, reg, args[0])
				if err != nil {
					return err
				}

				sp := startSpinner(ctx, c.status, fmt.Sprintf("Saving %d nodes...", f.Len()))
				key, err := st.Save(ctx, root)
				if err == nil && tag != "" {
					sp.update("Tagging " + tag + "...")
					err = st.Tag(ctx, tag, key)
				}
				if err != nil {
					sp.fail("Save failed")
					return err
				}
				sp.success(fmt.Sprintf("Saved %d nodes", f.Len()))

				printKeyValue("Key", key)
				ref := key
				if tag != "" {
					printKeyValue("Tag", tag)
					ref = tag
				}
				printNextStep("Load it with", "typegraph snapshot load "+ref)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "also point this tag at the snapshot")

	return cmd
}

// snapshotLoadCommand creates the "snapshot load" subcommand.
func (c *CLI) snapshotLoadCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "load [key | tag]",
		Short: "Write a stored graph as flattened JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(_ *schema.Registry, st *store.Store) error {
				root, err := st.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if _, err := writeGraph(ctx, root, output); err != nil {
					return err
				}
				if output != "" && output != "-" {
					printSuccess("Loaded %s", args[0])
					printFile(output)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// snapshotTagCommand creates the "snapshot tag" subcommand.
func (c *CLI) snapshotTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [name] [key | tag]",
		Short: "Point a tag at a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(_ *schema.Registry, st *store.Store) error {
				key, err := st.Resolve(ctx, args[1])
				if err != nil {
					return err
				}
				if err := st.Tag(ctx, args[0], key); err != nil {
					return err
				}
				printSuccess("Tagged %s", StyleHighlight.Render(args[0]))
				printDetail("%s %s", iconArrow, key)
				return nil
			})
		},
	}
}

// snapshotDeleteCommand creates the "snapshot delete" subcommand.
func (c *CLI) snapshotDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [key | tag]",
		Short: "Remove a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(_ *schema.Registry, st *store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}
