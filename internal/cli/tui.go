package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/typegraph/pkg/node"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeBrowserModel - Interactive graph navigation
// =============================================================================

// fieldEntry is one row of the browser: a field path of the current node and
// the value found there. Target is set when the value is a node.
type fieldEntry struct {
	Path   string
	Value  string
	Target *node.Node
}

// NodeBrowserModel is the bubbletea model for walking a graph node by node.
type NodeBrowserModel struct {
	Trail   []*node.Node // visited nodes, current last
	Entries []fieldEntry
	Cursor  int
	Height  int
	Offset  int
	Visited int // distinct nodes opened so far
	seen    map[*node.Node]bool
}

// NewNodeBrowserModel creates a browser positioned at root.
func NewNodeBrowserModel(root *node.Node) NodeBrowserModel {
	m := NodeBrowserModel{Height: 15, seen: make(map[*node.Node]bool)}
	m.open(root)
	return m
}

// Current returns the node being shown.
func (m NodeBrowserModel) Current() *node.Node {
	return m.Trail[len(m.Trail)-1]
}

func (m *NodeBrowserModel) open(n *node.Node) {
	m.Trail = append(m.Trail, n)
	if !m.seen[n] {
		m.seen[n] = true
		m.Visited++
	}
	m.Entries = entriesOf(n)
	m.Cursor, m.Offset = 0, 0
}

func (m *NodeBrowserModel) back() {
	if len(m.Trail) < 2 {
		return
	}
	prev := m.Trail[len(m.Trail)-1]
	m.Trail = slices.Clone(m.Trail[:len(m.Trail)-1])
	m.Entries = entriesOf(m.Current())
	m.Cursor, m.Offset = 0, 0
	for i, e := range m.Entries {
		if e.Target == prev {
			m.Cursor = i
			break
		}
	}
	m.scroll()
}

func (m *NodeBrowserModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				m.scroll()
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				m.scroll()
			}
		case "enter", "right", "l":
			if len(m.Entries) == 0 {
				return m, nil
			}
			if target := m.Entries[m.Cursor].Target; target != nil {
				m.open(target)
			}
		case "backspace", "left", "h":
			m.back()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	crumbs := make([]string, len(m.Trail))
	for i, n := range m.Trail {
		crumbs[i] = n.String()
	}
	b.WriteString(StyleTitle.Render(strings.Join(crumbs, " › ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  (no fields set)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.Entries[i].Path, m.Entries[i].Value})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Field", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Entries) {
				return lipgloss.NewStyle()
			}
			isLink := m.Entries[idx].Target != nil
			switch {
			case idx == m.Cursor && isLink:
				return listSelectedStyle
			case idx == m.Cursor:
				return lipgloss.NewStyle().Bold(true)
			case isLink:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d nodes visited", m.Cursor+1, len(m.Entries), m.Visited)))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// entriesOf lists the set fields of n, expanding lists and records one level
// so that each element gets its own row.
func entriesOf(n *node.Node) []fieldEntry {
	var out []fieldEntry
	n.Range(func(field string, v any) bool {
		switch x := v.(type) {
		case []any:
			if len(x) == 0 {
				out = append(out, fieldEntry{Path: field, Value: "[]"})
			}
			for i, e := range x {
				out = append(out, entryFor(fmt.Sprintf("%s[%d]", field, i), e))
			}
		case map[string]any:
			if len(x) == 0 {
				out = append(out, fieldEntry{Path: field, Value: "{}"})
			}
			keys := make([]string, 0, len(x))
			for k := range x {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				out = append(out, entryFor(field+"."+k, x[k]))
			}
		default:
			out = append(out, entryFor(field, v))
		}
		return true
	})
	return out
}

func entryFor(path string, v any) fieldEntry {
	e := fieldEntry{Path: path, Value: formatValue(v)}
	if n, ok := v.(*node.Node); ok && n != nil {
		e.Target = n
	}
	return e
}

// formatValue renders a field value on one line.
func formatValue(v any) string {
	switch node.KindOf(v) {
	case node.KindNull:
		return "null"
	case node.KindNode:
		return "→ " + v.(*node.Node).String()
	case node.KindList:
		return fmt.Sprintf("[%d items]", len(v.([]any)))
	case node.KindRecord:
		return fmt.Sprintf("{%d keys}", len(v.(map[string]any)))
	case node.KindCallable:
		return "<callable>"
	case node.KindScalar:
		if s, ok := v.(string); ok {
			return fmt.Sprintf("%q", s)
		}
	}
	return fmt.Sprintf("%v", v)
}
