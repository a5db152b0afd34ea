// Package flatten converts node graphs to and from a cycle-free, addressable form.
//
// # Overview
//
// A node graph may share nodes and contain cycles, so it cannot be encoded
// directly. [Flatten] turns it into a [Flattened] value: every node is written
// once into a table keyed by its identifier, and every occurrence of a node is
// replaced by a [Ref] token carrying only that identifier.
//
//	{
//	  "root":  {"$ref": "g1"},
//	  "types": {
//	    "g1": {"type": "Group", "children": [{"$ref": "c1"}]},
//	    "c1": {"type": "Circle", "radius": 5}
//	  }
//	}
//
// Each [Record] holds the node's type tag under "type" and its set field values.
// The identity field is not written: the table key is the identifier. Nil field
// values are omitted, and callables are dropped since they cannot be encoded.
//
// # Unflatten
//
// [Unflatten] walks the table back into nodes using the schema registry's
// type-aware constructor, so field values regain their node, list and record
// shapes. Nodes are cached by identifier for the duration of the call: every
// token naming the same identifier resolves to the same *node.Node, which
// preserves shared references and reconstructs cycles.
//
// A token with no matching record fails with CORRUPT_GRAPH. A record whose type
// tag is not registered fails with UNKNOWN_TYPE.
//
// # JSON
//
// A Flattened value encodes with encoding/json as is. Decoding turns every
// {"$ref": id} object back into a [Ref] and numbers into int64 or float64. The
// helpers [WriteJSON], [ReadJSON], [ExportJSON] and [ImportJSON] add indentation
// and file handling.
//
// # Concurrency
//
// Flatten and Unflatten only read their input and allocate fresh output, so
// they may run concurrently with each other but not with a merge on the same
// graph.
package flatten
