/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: changes.go
Description: Flattening of diff trees into path-addressed change lists and leaf counts,
for tables and logs.
*/

package diff

import (
	"fmt"
	"sort"

	"github.com/kleascm/jsonlens/pkg/jsonvalue"
)

// Change is a single non-unchanged leaf of a diff tree
type Change struct {
	Path     string           `json:"path"`
	Status   Status           `json:"status"`
	OldValue *jsonvalue.Value `json:"oldValue,omitempty"`
	NewValue *jsonvalue.Value `json:"newValue,omitempty"`
}

// Stats counts leaves by status
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Changed   int `json:"changed"`
	Unchanged int `json:"unchanged"`
}

// Total returns the number of leaves counted
func (s Stats) Total() int {
	return s.Added + s.Removed + s.Changed + s.Unchanged
}

// Changes lists every added, removed or changed leaf in depth-first order. Object keys are
// visited lexically; array positions are written as [i]. The root leaf has path "$".
func Changes(root *Node) []Change {
	changes := make([]Change, 0)
	walk(root, "", func(path string, n *Node) {
		if n.Status == StatusUnchanged {
			return
		}
		changes = append(changes, Change{Path: path, Status: n.Status, OldValue: n.OldValue, NewValue: n.NewValue})
	})
	return changes
}

// Count tallies the leaves of a diff tree by status
func Count(root *Node) Stats {
	var s Stats
	walk(root, "", func(_ string, n *Node) {
		switch n.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusChanged:
			s.Changed++
		case StatusUnchanged:
			s.Unchanged++
		}
	})
	return s
}

// walk visits the leaves below n
func walk(n *Node, path string, visit func(path string, leaf *Node)) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindObject:
		keys := make([]string, 0, len(n.Children))
		for k := range n.Children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			walk(n.Children[k], child, visit)
		}
	case KindArray:
		for i, item := range n.Items {
			walk(item, fmt.Sprintf("%s[%d]", path, i), visit)
		}
	default:
		if path == "" {
			path = "$"
		}
		visit(path, n)
	}
}
