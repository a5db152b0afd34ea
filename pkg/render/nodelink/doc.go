// Package nodelink renders node graphs as node-link diagrams.
//
// # Overview
//
// Every distinct node becomes a box labelled with its type and identifier.
// Every reference from a field to a node becomes an arrow labelled with the
// field path that holds it ("children[2]", "props.header"). Shared nodes are
// drawn once with several incoming arrows, and cycles draw as loops, so the
// picture shows identity the way the graph engines see it.
//
// # Usage
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2) // 2x via librsvg
//
// # Options
//
//   - Detailed: node labels also list scalar field values
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and PNG
// rendering. PDF and scaled PNG output require librsvg (rsvg-convert).
package nodelink
