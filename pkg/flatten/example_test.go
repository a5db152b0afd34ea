package flatten_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/typegraph/pkg/flatten"
	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

func Example() {
	reg := schema.NewRegistry()
	_, _ = schema.RegisterAll(reg, []schema.Descriptor{
		{Name: "Shape", Fields: []schema.Field{{Name: "id"}}},
		{Name: "Circle", Extends: "Shape", Fields: []schema.Field{{Name: "radius", Kind: schema.KindScalar}}},
		{Name: "Group", Fields: []schema.Field{{Name: "id"}, {Name: "children", Kind: schema.KindArray, Type: "Circle"}}},
	})

	c1 := node.Must(node.Build(reg, "Circle", "c1", node.Values{"radius": 5}))
	g := node.Must(node.Build(reg, "Group", "g1", node.Values{"children": []any{c1}}))

	f := flatten.Flatten(g)
	_ = flatten.WriteJSON(f, os.Stdout)

	back, _ := flatten.UnflattenNode(reg, f)
	fmt.Println(back, node.Collect(back))
	// Output:
	// {
	//   "root": {
	//     "$ref": "g1"
	//   },
	//   "types": {
	//     "c1": {
	//       "radius": 5,
	//       "type": "Circle"
	//     },
	//     "g1": {
	//       "children": [
	//         {
	//           "$ref": "c1"
	//         }
	//       ],
	//       "type": "Group"
	//     }
	//   }
	// }
	// Group#g1 [Group#g1 Circle#c1]
}
