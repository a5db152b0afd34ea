// Package schema provides the runtime type registry for typegraph node graphs.
//
// # Overview
//
// A schema is a closed set of named node types organized in a single-inheritance
// hierarchy. Each type declares an ordered list of fields and optionally extends
// one parent type. The [Registry] maps type names to resolved [Type] values that
// carry an explicit parent pointer and the full field list (ancestor fields first,
// then own fields), computed once at registration so graph traversals never walk
// the inheritance chain to find fields.
//
// # Basic Usage
//
//	reg := schema.NewRegistry()
//	reg.Register(schema.Descriptor{Name: "Shape", Fields: []schema.Field{{Name: "id"}}})
//	reg.Register(schema.Descriptor{
//	    Name:    "Circle",
//	    Extends: "Shape",
//	    Fields:  []schema.Field{{Name: "radius", Kind: schema.KindScalar}},
//	})
//
//	fields, _ := reg.FieldsOf("Circle") // id, radius
//
// # Registration Rules
//
// Validation is eager. [Registry.Register] fails when:
//
//   - the name is empty, malformed or already registered (INVALID_SCHEMA)
//   - Extends names a type that is not registered yet (UNKNOWN_TYPE)
//   - a field is named "type", is declared twice, or re-declares an ancestor field
//     (INVALID_SCHEMA)
//
// Field type constraints may name types registered later, so mutually
// referencing types can be declared in any order. [Registry.Verify] reports
// constraints that never resolved (UNKNOWN_TYPE); [RegisterAll] and [Load]
// call it after registering a batch.
//
// Because a parent must exist before its children and names are write-once,
// the extends graph built through Register is always a set of chains. Schema
// files may list types in any order; [Load] sorts them parent-first and reports
// extends cycles before registering anything.
//
// # Identity Field
//
// The field name "id" is the identity field. Declaring it documents that the type
// exposes its node identifier; the value is never stored among field values and is
// never merged.
//
// # Schema Files
//
// [Load] and [LoadFile] read descriptors from TOML or YAML:
//
//	[[types]]
//	name = "Circle"
//	extends = "Shape"
//
//	[[types.fields]]
//	name = "radius"
//	kind = "scalar"
//
// # Concurrency
//
// Registration is serialized by a write lock and lookups take a read lock, so a
// registry may be populated and queried from different goroutines. Resolved
// [Type] values are immutable once Register returns and may be shared freely.
package schema
