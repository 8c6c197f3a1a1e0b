/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render.go
Description: Human-readable rendering of schemas as short type labels and indented trees.
*/

package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Describe returns a one-line label such as "number", "array<string>" or "number | null"
func Describe(t Type) string {
	switch t.Tag {
	case TagPrimitive:
		return string(t.Primitive)
	case TagArray:
		if t.Items == nil {
			return "array"
		}
		return fmt.Sprintf("array<%s>", Describe(t.Items.Type))
	case TagObject:
		return "object"
	case TagUnion:
		labels := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			labels = append(labels, Describe(m))
		}
		sort.Strings(labels)
		return strings.Join(labels, " | ")
	}
	return "unknown"
}

// Render prints the schema as an indented tree, one field per line. Optional fields are
// suffixed with "?".
func Render(root *Node) string {
	if root == nil {
		return "<none>\n"
	}
	var b strings.Builder
	b.WriteString(Describe(root.Type))
	b.WriteString("\n")
	renderChildren(&b, root.Type, 1)
	return b.String()
}

func renderChildren(b *strings.Builder, t Type, depth int) {
	indent := strings.Repeat("  ", depth)

	switch t.Tag {
	case TagObject:
		for _, name := range t.FieldNames() {
			n := t.Fields[name]
			marker := ""
			if n.Optional {
				marker = "?"
			}
			fmt.Fprintf(b, "%s%s%s: %s\n", indent, name, marker, Describe(n.Type))
			renderChildren(b, n.Type, depth+1)
		}
	case TagArray:
		if t.Items != nil {
			renderChildren(b, t.Items.Type, depth)
		}
	case TagUnion:
		for _, m := range t.Members {
			if m.Tag == TagObject || m.Tag == TagArray {
				fmt.Fprintf(b, "%s(%s)\n", indent, Describe(m))
				renderChildren(b, m, depth+1)
			}
		}
	}
}
