// Package pkg provides the core libraries for typegraph.
//
// # Overview
//
// Typegraph models object graphs whose nodes are typed by a runtime schema
// with single inheritance. Graphs may share nodes and contain cycles. The pkg
// directory is organized into three areas:
//
//  1. Model - [schema] (type registry) and [node] (nodes, dispatch, traversal)
//  2. Engines - [merge] (structural update) and [flatten] (serialization)
//  3. Infrastructure - [cache], [store], [observability], [render]
//
// # Architecture
//
// The typical data flow through typegraph:
//
//	Schema file (TOML/YAML)
//	         ↓
//	    [schema] package (registry of types)
//	         ↓
//	Flattened JSON  →  [flatten] Unflatten  →  node graph
//	                                               ↓
//	                         [merge] / [node] Collect, Match, Assert
//	                                               ↓
//	    [flatten] Flatten  →  JSON, [store] snapshots, [render] diagrams
//
// # Quick Start
//
//	reg := schema.NewRegistry()
//	_, _ = schema.LoadFile(reg, "schema.toml")
//
//	f, _ := flatten.ImportJSON("page.json")
//	page, _ := flatten.UnflattenNode(reg, f)
//
//	edited, _ := flatten.UnflattenNode(reg, incoming)
//	merged := merge.Merge(page, edited, merge.Options{}.Exclude("Widget", "cache"))
//
//	_ = flatten.ExportJSON(flatten.Flatten(merged), "page.json")
//
// # Main Packages
//
// [schema] - Type registry. Types declare fields and may extend one parent;
// fields are inherited. Schema files are TOML or YAML.
//
// [node] - Typed nodes with identity, type-based dispatch ([node.Match]),
// traversal ([node.Collect]) and checked downcasts ([node.Assert]).
//
// [merge] - Updates an existing graph in place to match another while
// preserving node identity, with per-type field exclusions and custom diffs
// that cascade to descendant types.
//
// [flatten] - Converts graphs to a root reference plus a table of records
// keyed by node id, and back, preserving shared nodes and cycles.
//
// [store] - Content-addressed snapshots of flattened graphs on top of a
// [cache] backend (file, memory LRU, Redis), with named tags.
//
// [render] - Node-link diagrams via Graphviz, with SVG, PDF and PNG output.
//
// [errors] - Coded errors shared by every package.
//
// [schema]: github.com/matzehuels/typegraph/pkg/schema
// [node]: github.com/matzehuels/typegraph/pkg/node
// [node.Match]: github.com/matzehuels/typegraph/pkg/node#Match
// [node.Collect]: github.com/matzehuels/typegraph/pkg/node#Collect
// [node.Assert]: github.com/matzehuels/typegraph/pkg/node#Assert
// [merge]: github.com/matzehuels/typegraph/pkg/merge
// [flatten]: github.com/matzehuels/typegraph/pkg/flatten
// [store]: github.com/matzehuels/typegraph/pkg/store
// [cache]: github.com/matzehuels/typegraph/pkg/cache
// [observability]: github.com/matzehuels/typegraph/pkg/observability
// [render]: github.com/matzehuels/typegraph/pkg/render
// [errors]: github.com/matzehuels/typegraph/pkg/errors
package pkg
