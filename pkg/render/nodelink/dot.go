package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes scalar field values in node labels.
	// When false, only the type and identifier are shown.
	Detailed bool
}

// edge is a reference from one node to another through a field path.
type edge struct {
	from, to, path string
}

// ToDOT converts the graph reachable from root to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes are emitted in [node.CollectUnique] order, so the output is
// deterministic for a given graph.
func ToDOT(root any, opts Options) string {
	nodes := node.CollectUnique(root)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10, fontcolor=grey40];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID(), fmtLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, e := range edgesOf(n) {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.from, e.to, e.path)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *node.Node, detailed bool) string {
	label := n.TypeName() + "\n" + n.ID()
	if !detailed {
		return label
	}

	var parts []string
	n.Range(func(field string, v any) bool {
		if node.KindOf(v) == node.KindScalar {
			parts = append(parts, fmt.Sprintf("%s: %v", field, v))
		}
		return true
	})
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// edgesOf lists the direct node references held by n's fields.
func edgesOf(n *node.Node) []edge {
	var out []edge
	var visit func(v any, path string)
	visit = func(v any, path string) {
		switch x := v.(type) {
		case *node.Node:
			if x != nil {
				out = append(out, edge{from: n.ID(), to: x.ID(), path: path})
			}
		case []any:
			for i, e := range x {
				visit(e, fmt.Sprintf("%s[%d]", path, i))
			}
		case map[string]any:
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				visit(x[k], path+"."+k)
			}
		}
	}
	n.Range(func(field string, v any) bool {
		visit(v, field)
		return true
	})
	return out
}

// render parses DOT and renders it with Graphviz in the given format.
func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders a DOT graph to PNG. At scale 1 (or <= 0) Graphviz draws
// it in-process; other scales rasterize the SVG with [render.ToPNG], which
// needs librsvg.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	if scale <= 0 || scale == 1 {
		return renderDOT(ctx, dot, graphviz.PNG)
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg header with a plain
// viewBox so the diagram scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(header))
}
