package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/typegraph/pkg/node"
	"github.com/matzehuels/typegraph/pkg/schema"
)

func browserGraph(t *testing.T) (*node.Node, *node.Node) {
	t.Helper()
	reg := schema.NewRegistry()
	_, err := schema.RegisterAll(reg, []schema.Descriptor{
		{Name: "Item", Fields: []schema.Field{
			{Name: "id"},
			{Name: "name", Kind: schema.KindScalar},
			{Name: "items", Kind: schema.KindArray},
			{Name: "meta", Kind: schema.KindMap},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}
	leaf := node.Must(node.Build(reg, "Item", "leaf", node.Values{"name": "leaf"}))
	root := node.Must(node.Build(reg, "Item", "root", node.Values{
		"name":  "root",
		"items": []any{1.5, leaf},
		"meta":  map[string]any{"owner": nil},
	}))
	return root, leaf
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m NodeBrowserModel, keys ...string) NodeBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(NodeBrowserModel)
	}
	return m
}

func TestEntriesOf(t *testing.T) {
	root, _ := browserGraph(t)
	entries := entriesOf(root)

	want := []struct{ path, value string }{
		{"name", `"root"`},
		{"items[0]", "1.5"},
		{"items[1]", "→ Item#leaf"},
		{"meta.owner", "null"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i, w := range want {
		if entries[i].Path != w.path || entries[i].Value != w.value {
			t.Errorf("entry %d = %s %s, want %s %s", i, entries[i].Path, entries[i].Value, w.path, w.value)
		}
	}
	if entries[2].Target == nil || entries[0].Target != nil {
		t.Error("only node values should be openable")
	}
}

func TestNodeBrowserNavigation(t *testing.T) {
	root, leaf := browserGraph(t)
	m := NewNodeBrowserModel(root)

	m = send(m, "enter")
	if m.Current() != root {
		t.Error("enter on a scalar row should stay on the node")
	}

	m = send(m, "j", "j", "enter")
	if m.Current() != leaf {
		t.Fatalf("Current() = %s, want leaf", m.Current())
	}
	if m.Visited != 2 {
		t.Errorf("Visited = %d, want 2", m.Visited)
	}
	if !strings.Contains(m.View(), "Item#root › Item#leaf") {
		t.Error("view should show the trail")
	}

	m = send(m, "backspace")
	if m.Current() != root || m.Cursor != 2 {
		t.Errorf("back: Current() = %s, Cursor = %d; want root, 2", m.Current(), m.Cursor)
	}

	m = send(m, "backspace", "k", "k", "k", "k")
	if m.Current() != root || m.Cursor != 0 {
		t.Errorf("back at root should stay put: %s cursor %d", m.Current(), m.Cursor)
	}

	m = send(m, "j", "j", "enter", "backspace", "j", "enter")
	if m.Visited != 2 {
		t.Errorf("revisiting should not count twice: Visited = %d", m.Visited)
	}
}

func TestNodeBrowserQuit(t *testing.T) {
	root, _ := browserGraph(t)
	_, cmd := NewNodeBrowserModel(root).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"x", `"x"`},
		{int64(3), "3"},
		{true, "true"},
		{[]any{1, 2}, "[2 items]"},
		{map[string]any{"a": 1}, "{1 keys}"},
		{func() {}, "<callable>"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
