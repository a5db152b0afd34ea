package flatten

import (
	"testing"

	"github.com/matzehuels/typegraph/pkg/errors"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

func shapes(t *testing.T) *schema.Registry {
	t.Helper()
	r := schema.NewRegistry()
	_, err := schema.RegisterAll(r, []schema.Descriptor{
		{Name: "Shape", Fields: []schema.Field{{Name: "id"}}},
		{Name: "Circle", Extends: "Shape", Fields: []schema.Field{{Name: "radius", Kind: schema.KindScalar}}},
		{Name: "Group", Fields: []schema.Field{
			{Name: "id"},
			{Name: "children", Kind: schema.KindArray, Type: "Circle"},
			{Name: "props", Kind: schema.KindMap},
			{Name: "onClick"},
		}},
		{Name: "Link", Extends: "Shape", Fields: []schema.Field{{Name: "next", Kind: schema.KindNode, Type: "Shape"}}},
	})
	if err != nil {
		t.Fatalf("RegisterAll error: %v", err)
	}
	return r
}

func mustBuild(t *testing.T, r *schema.Registry, typeName, id string, values node.Values) *node.Node {
	t.Helper()
	n, err := node.Build(r, typeName, id, values)
	if err != nil {
		t.Fatalf("Build(%s) error: %v", typeName, err)
	}
	return n
}

func TestFlattenGroupCircle(t *testing.T) {
	r := shapes(t)
	c1 := mustBuild(t, r, "Circle", "c1", node.Values{"radius": 5})
	g := mustBuild(t, r, "Group", "g1", node.Values{"children": []any{c1}})

	f := Flatten(g)

	if f.Root != (Ref{ID: "g1"}) {
		t.Errorf("Root = %#v, want Ref{g1}", f.Root)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}

	want := &Flattened{
		Root: Ref{ID: "g1"},
		Types: map[string]Record{
			"g1": {"type": "Group", "children": []any{Ref{ID: "c1"}}},
			"c1": {"type": "Circle", "radius": 5},
		},
	}
	a, _ := Marshal(f)
	b, _ := Marshal(want)
	if string(a) != string(b) {
		t.Errorf("Flatten() =\n%s\nwant\n%s", a, b)
	}

	v, err := Unflatten(r, f)
	if err != nil {
		t.Fatalf("Unflatten error: %v", err)
	}
	back, err := node.Assert(v, "Group")
	if err != nil {
		t.Fatal(err)
	}
	kids, _ := back.Get("children")
	list := kids.([]any)
	if len(list) != 1 || !node.Is(list[0], "Circle") {
		t.Fatalf("children = %v, want one Circle", list)
	}
	if radius, _ := list[0].(*node.Node).Get("radius"); radius != 5 {
		t.Errorf("radius = %v, want 5", radius)
	}
}

func TestFlattenCycle(t *testing.T) {
	r := shapes(t)
	a := mustBuild(t, r, "Link", "a", nil)
	b := mustBuild(t, r, "Link", "b", node.Values{"next": a})
	self := mustBuild(t, r, "Link", "self", nil)
	if err := a.Set("next", b); err != nil {
		t.Fatal(err)
	}
	if err := self.Set("next", self); err != nil {
		t.Fatal(err)
	}

	f := Flatten([]any{a, self})
	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want one record per node", f.Len())
	}
	if got := f.Types["self"]["next"]; got != (Ref{ID: "self"}) {
		t.Errorf("self.next = %#v", got)
	}

	v, err := Unflatten(r, f)
	if err != nil {
		t.Fatalf("Unflatten error: %v", err)
	}
	roots := v.([]any)
	ra := roots[0].(*node.Node)
	nb, _ := ra.Get("next")
	back, _ := nb.(*node.Node).Get("next")
	if back != ra {
		t.Error("cycle a -> b -> a not reconstructed")
	}
	rs := roots[1].(*node.Node)
	if next, _ := rs.Get("next"); next != rs {
		t.Error("self reference not reconstructed")
	}
}

func TestRoundTripSharedIdentity(t *testing.T) {
	r := shapes(t)
	shared := mustBuild(t, r, "Circle", "", node.Values{"radius": 1.5})
	g := mustBuild(t, r, "Group", "", node.Values{
		"children": []any{shared, mustBuild(t, r, "Circle", "", node.Values{"radius": 2}), shared},
		"props":    map[string]any{"focus": shared, "title": "hello", "tags": []any{"a", true, nil}},
	})

	data, err := Marshal(Flatten(g))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	f, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	back, err := UnflattenNode(r, f)
	if err != nil {
		t.Fatalf("UnflattenNode error: %v", err)
	}

	if !node.Equal(g, back) {
		t.Error("round trip is not structurally equal")
	}
	if back.ID() != g.ID() {
		t.Errorf("root id = %s, want %s", back.ID(), g.ID())
	}

	kids, _ := back.Get("children")
	list := kids.([]any)
	props, _ := back.Get("props")
	focus := props.(map[string]any)["focus"]
	if list[0] != list[2] || list[0] != focus {
		t.Error("shared node came back as distinct instances")
	}
	if list[0].(*node.Node).ID() != shared.ID() {
		t.Error("shared node lost its identifier")
	}
}

func TestFlattenDropsCallablesAndNils(t *testing.T) {
	r := shapes(t)
	g := mustBuild(t, r, "Group", "g", node.Values{"onClick": func() {}, "props": nil})

	rec := Flatten(g).Types["g"]
	if len(rec) != 1 || rec.TypeName() != "Group" {
		t.Errorf("record = %v, want only the type tag", rec)
	}
	if got := Flatten([]any{1, "x", nil}).Len(); got != 0 {
		t.Errorf("scalar root recorded %d nodes", got)
	}
}

func TestUnflattenErrors(t *testing.T) {
	r := shapes(t)

	tests := []struct {
		name string
		f    *Flattened
		code errors.Code
	}{
		{
			name: "dangling root",
			f:    &Flattened{Root: Ref{ID: "x"}, Types: map[string]Record{}},
			code: errors.ErrCodeCorruptGraph,
		},
		{
			name: "dangling nested ref",
			f: &Flattened{Root: Ref{ID: "g"}, Types: map[string]Record{
				"g": {"type": "Group", "children": []any{Ref{ID: "missing"}}},
			}},
			code: errors.ErrCodeCorruptGraph,
		},
		{
			name: "unknown type tag",
			f:    &Flattened{Root: Ref{ID: "h"}, Types: map[string]Record{"h": {"type": "Hexagon"}}},
			code: errors.ErrCodeUnknownType,
		},
		{
			name: "missing type tag",
			f:    &Flattened{Root: Ref{ID: "h"}, Types: map[string]Record{"h": {"radius": 1}}},
			code: errors.ErrCodeCorruptGraph,
		},
		{
			name: "field rejected by schema",
			f:    &Flattened{Root: Ref{ID: "c"}, Types: map[string]Record{"c": {"type": "Circle", "side": 1}}},
			code: errors.ErrCodeCorruptGraph,
		},
		{
			name: "constraint violated",
			f: &Flattened{Root: Ref{ID: "g"}, Types: map[string]Record{
				"g": {"type": "Group", "children": []any{Ref{ID: "g"}}},
			}},
			code: errors.ErrCodeCorruptGraph,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unflatten(r, tt.f)
			if !errors.Is(err, tt.code) {
				t.Errorf("Unflatten() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	ok := &Flattened{Root: map[string]any{"main": Ref{ID: "a"}}, Types: map[string]Record{
		"a": {"type": "Link", "next": Ref{ID: "a"}},
	}}
	if err := Validate(ok); err != nil {
		t.Errorf("Validate(ok) = %v", err)
	}

	bad := &Flattened{Root: Ref{ID: "a"}, Types: map[string]Record{
		"a": {"type": "Link", "next": map[string]any{"$ref": "b"}},
	}}
	if err := Validate(bad); !errors.Is(err, errors.ErrCodeCorruptGraph) {
		t.Errorf("Validate(bad) = %v, want CORRUPT_GRAPH", err)
	}

	untyped := &Flattened{Root: nil, Types: map[string]Record{"a": {}}}
	if err := Validate(untyped); !errors.Is(err, errors.ErrCodeCorruptGraph) {
		t.Errorf("Validate(untyped) = %v, want CORRUPT_GRAPH", err)
	}
}

func TestStats(t *testing.T) {
	r := shapes(t)
	g := mustBuild(t, r, "Group", "", node.Values{"children": []any{
		mustBuild(t, r, "Circle", "", nil),
		mustBuild(t, r, "Circle", "", nil),
	}})

	stats := Stats(Flatten(g))
	if stats["Group"] != 1 || stats["Circle"] != 2 {
		t.Errorf("Stats() = %v", stats)
	}
}
