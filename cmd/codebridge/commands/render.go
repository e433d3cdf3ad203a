package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/codebridge/pkg/node"
)

const emptyTarget = "-"

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

func rowOf(values ...any) table.Row {
	return table.Row(values)
}

// renderNodes renders one row per node: kind, element name and a one-line
// summary of its target. A non-empty kinds set filters the rows.
func renderNodes(nodes []node.Any, kinds map[node.Kind]bool) string {
	tbl := newTable()
	tbl.AppendHeader(rowOf("Kind", "Element", "Target"))

	shown := 0

	for _, n := range nodes {
		if len(kinds) > 0 && !kinds[n.Kind()] {
			continue
		}

		tbl.AppendRow(rowOf(n.Kind(), node.Name(n), targetSummary(n)))

		shown++
	}

	tbl.AppendFooter(rowOf("", fmt.Sprintf("Total: %d nodes", shown), ""))

	return tbl.Render()
}

func targetSummary(n node.Any) string {
	switch v := n.(type) {
	case node.ClassNode:
		if t := v.Target(); !t.IsZero() {
			return t.Summary()
		}
	case node.MethodNode:
		if t := v.Target(); t.ID != "" {
			return t.Summary()
		}
	case node.FieldNode:
		if t := v.Target(); t != "" {
			return t
		}
	case node.ParameterNode:
		if t := v.Target(); t.Name != "" {
			return t.Schema.Summary()
		}
	case node.TypeNode:
		if t := v.Target(); !t.IsZero() || t.Nullable {
			return t.Summary()
		}
	}

	return emptyTarget
}
