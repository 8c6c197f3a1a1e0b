/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: diff.go
Description: Structural diff between two JSON values. Objects are compared key by key,
arrays position by position, and everything else by deep equality. The result is a tree of
DiffNodes whose composite statuses summarize their children.
*/

package diff

import "github.com/kleascm/jsonlens/pkg/jsonvalue"

// Status describes how one position differs between the old and new value
type Status string

const (
	StatusAdded     Status = "added"
	StatusRemoved   Status = "removed"
	StatusChanged   Status = "changed"
	StatusUnchanged Status = "unchanged"
)

// NodeKind tells which payload of a Node is populated
type NodeKind string

const (
	KindObject NodeKind = "object"
	KindArray  NodeKind = "array"
	KindLeaf   NodeKind = "leaf"
)

// Node is one position in a diff tree.
// Object comparisons fill Children, array comparisons fill Items, and leaves (including
// whole values present on only one side) carry OldValue and/or NewValue.
type Node struct {
	Status   Status           `json:"status"`
	Kind     NodeKind         `json:"kind"`
	Children map[string]*Node `json:"children,omitempty"`
	Items    []*Node          `json:"arrayItems,omitempty"`
	OldValue *jsonvalue.Value `json:"oldValue,omitempty"`
	NewValue *jsonvalue.Value `json:"newValue,omitempty"`
}

// Diff compares two JSON values. It is total and pure.
//
// Arrays are aligned strictly by index: an element inserted in the middle shows up as a
// run of changed positions followed by an added tail, not as a single insertion. A value
// whose kind changes (say number to object) is reported as changed like any other edit.
func Diff(oldValue, newValue jsonvalue.Value) *Node {
	switch {
	case oldValue.Kind() == jsonvalue.Array && newValue.Kind() == jsonvalue.Array:
		return diffArrays(oldValue, newValue)
	case oldValue.Kind() == jsonvalue.Object && newValue.Kind() == jsonvalue.Object:
		return diffObjects(oldValue, newValue)
	default:
		status := StatusChanged
		if jsonvalue.Equal(oldValue, newValue) {
			status = StatusUnchanged
		}
		return &Node{Status: status, Kind: KindLeaf, OldValue: ref(oldValue), NewValue: ref(newValue)}
	}
}

func diffArrays(oldValue, newValue jsonvalue.Value) *Node {
	oldItems := oldValue.Items()
	newItems := newValue.Items()

	n := max(len(oldItems), len(newItems))
	items := make([]*Node, 0, n)
	for i := 0; i < n; i++ {
		switch {
		case i >= len(oldItems):
			items = append(items, Added(newItems[i]))
		case i >= len(newItems):
			items = append(items, Removed(oldItems[i]))
		default:
			items = append(items, Diff(oldItems[i], newItems[i]))
		}
	}

	return &Node{Status: summarize(items), Kind: KindArray, Items: items}
}

func diffObjects(oldValue, newValue jsonvalue.Value) *Node {
	children := make(map[string]*Node, max(oldValue.Len(), newValue.Len()))
	all := make([]*Node, 0, oldValue.Len()+newValue.Len())

	for _, k := range oldValue.Keys() {
		ov, _ := oldValue.Field(k)
		var child *Node
		if nv, ok := newValue.Field(k); ok {
			child = Diff(ov, nv)
		} else {
			child = Removed(ov)
		}
		children[k] = child
		all = append(all, child)
	}
	for _, k := range newValue.Keys() {
		if _, ok := oldValue.Field(k); ok {
			continue
		}
		nv, _ := newValue.Field(k)
		child := Added(nv)
		children[k] = child
		all = append(all, child)
	}

	return &Node{Status: summarize(all), Kind: KindObject, Children: children}
}

// Added builds the node for a value present only on the new side
func Added(v jsonvalue.Value) *Node {
	return &Node{Status: StatusAdded, Kind: KindLeaf, NewValue: ref(v)}
}

// Removed builds the node for a value present only on the old side
func Removed(v jsonvalue.Value) *Node {
	return &Node{Status: StatusRemoved, Kind: KindLeaf, OldValue: ref(v)}
}

// summarize is unchanged iff every child is unchanged
func summarize(children []*Node) Status {
	for _, c := range children {
		if c.Status != StatusUnchanged {
			return StatusChanged
		}
	}
	return StatusUnchanged
}

func ref(v jsonvalue.Value) *jsonvalue.Value {
	return &v
}
