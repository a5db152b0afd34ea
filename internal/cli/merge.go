package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/merge"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/observability"
)

// mergeOpts holds the command-line flags for the merge command.
type mergeOpts struct {
	output   string   // output file path ("" or "-" for stdout)
	excludes []string // Type.field selectors left untouched by the merge
}

// mergeCommand creates the merge command.
func (c *CLI) mergeCommand() *cobra.Command {
	var opts mergeOpts

	cmd := &cobra.Command{
		Use:   "merge [base.json] [incoming.json]",
		Short: "Merge an incoming graph into a base graph",
		Long: `Update the base graph in place so that it matches the incoming graph, keeping
the identity of every base node whose type did not change. Nodes are matched
by position, not by id.

Fields listed with --exclude keep their base value. Exclusions apply to the
named type and every type that extends it.`,
		Example: `  typegraph merge page.json edited.json -o page.json
  typegraph merge page.json edited.json --exclude Widget.cache --exclude Page.revision`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMerge(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVarP(&opts.excludes, "exclude", "x", nil, "Type.field to keep from the base graph (repeatable)")

	return cmd
}

func (c *CLI) runMerge(ctx context.Context, basePath, incomingPath string, opts mergeOpts) error {
	logger := loggerFromContext(ctx)

	mopts, err := merge.ParseExcludes(opts.excludes)
	if err != nil {
		return err
	}
	reg, err := c.loadRegistry(ctx)
	if err != nil {
		return err
	}

	base, _, err := loadGraph(ctx, reg, basePath)
	if err != nil {
		return fmt.Errorf("load base: %w", err)
	}
	incoming, _, err := loadGraph(ctx, reg, incomingPath)
	if err != nil {
		return fmt.Errorf("load incoming: %w", err)
	}

	result := mergeGraphs(ctx, base, incoming, mopts)

	kept := len(keptNodes(base, result))
	logger.Debug("Merged graphs", "kept", kept, "excludes", len(opts.excludes))
	if node.KindOf(base) == node.KindNode && result != base {
		logger.Warn("Root was replaced", "base", describe(base), "result", describe(result))
	}

	f, err := writeGraph(ctx, result, opts.output)
	if err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Merged %s into %s", incomingPath, basePath)
		printStats(f.Len(), len(flatten.Stats(f)), kept)
		printFile(opts.output)
	}
	return nil
}

// mergeGraphs merges incoming into base and reports the merge to the graph hooks.
func mergeGraphs(ctx context.Context, base, incoming any, opts merge.Options) any {
	start := time.Now()
	result := merge.Merge(base, incoming, opts)
	typeName := ""
	if n, ok := result.(*node.Node); ok && n != nil {
		typeName = n.TypeName()
	}
	observability.Graph().OnMerge(ctx, typeName, time.Since(start))
	return result
}

// describe names a graph root for messages.
func describe(v any) string {
	if n, ok := v.(*node.Node); ok && n != nil {
		return n.String()
	}
	return node.KindOf(v).String()
}

// keptNodes returns the nodes of result that were already part of base.
func keptNodes(base, result any) []*node.Node {
	before := make(map[*node.Node]bool)
	for _, n := range node.CollectUnique(base) {
		before[n] = true
	}
	var out []*node.Node
	for _, n := range node.CollectUnique(result) {
		if before[n] {
			out = append(out, n)
		}
	}
	return out
}
