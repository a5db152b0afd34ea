// Package render provides visualization output for node graphs.
//
// # Overview
//
// The graph engines never draw anything. This package and its [nodelink]
// subpackage turn a graph into pictures for inspection and debugging:
//
//   - Node-link diagrams through Graphviz (in [nodelink])
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). [Available] reports whether
// it is installed; without it both fail with an UNSUPPORTED error.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/typegraph/pkg/render/nodelink
package render
