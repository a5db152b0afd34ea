package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/typegraph/pkg/schema"
)

// schemaCommand creates the schema inspection command.
func (c *CLI) schemaCommand() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the types declared by the schema file",
		Long: `Load the schema file, verify it, and print every type with its parent and
fields. Inherited fields are listed before the type's own fields.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.loadRegistry(cmd.Context())
			if err != nil {
				return err
			}
			if typeName != "" {
				t, err := reg.Get(typeName)
				if err != nil {
					return err
				}
				fmt.Println(fieldTable(t))
				return nil
			}
			fmt.Println(typeTable(reg))
			printDetail("%d types", reg.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "show the fields of one type")

	return cmd
}

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
}

// typeTable lists every registered type sorted by name.
func typeTable(reg *schema.Registry) string {
	t := newTable("Type", "Extends", "Fields")
	for _, typ := range reg.Types() {
		parent := "-"
		if p := typ.Parent(); p != nil {
			parent = p.Name()
		}
		names := make([]string, 0, len(typ.Fields()))
		for _, f := range typ.Fields() {
			names = append(names, f.Name)
		}
		t.Row(typ.Name(), parent, strings.Join(names, ", "))
	}
	return t.Render()
}

// fieldTable lists the fields of one type with the type that declares each.
func fieldTable(typ *schema.Type) string {
	t := newTable("Field", "Kind", "Constraint", "Declared by")
	for _, f := range typ.Fields() {
		constraint := f.Type
		if constraint == "" {
			constraint = "-"
		}
		t.Row(f.Name, string(f.Kind), constraint, typ.DeclaredBy(f.Name).Name())
	}
	return t.Render()
}
