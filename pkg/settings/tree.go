package settings

import (
	"encoding/json"
	"fmt"

	"github.com/modkeeper/modkeeper/pkg/types"
)

// Field is a settable attribute of an activation node
type Field int

const (
	// FieldActive marks a package as turned on
	FieldActive Field = iota
	// FieldValidated marks a package as checked by the content loader
	FieldValidated
)

var fieldNames = map[Field]string{
	FieldActive:    "active",
	FieldValidated: "validated",
}

// String implements fmt.Stringer
func (f Field) String() string {
	return fieldNames[f]
}

// ParseField maps a field name onto the enum
func ParseField(name string) (Field, bool) {
	for f, n := range fieldNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

const (
	keyActive    = "active"
	keyValidated = "validated"
	keyMods      = "mods"
)

// Node is one package entry of the activation tree. Keys other than the
// known ones (a checksum written by the launcher, say) are kept in Extra
// and written back unchanged.
type Node struct {
	Active    bool
	Validated bool
	Mods      Tree
	Extra     map[string]json.RawMessage
}

// MarshalJSON implements json.Marshaler
func (n Node) MarshalJSON() ([]byte, error) {
	doc := make(map[string]interface{}, len(n.Extra)+3)
	for k, v := range n.Extra {
		doc[k] = v
	}
	doc[keyActive] = n.Active
	if n.Validated {
		doc[keyValidated] = true
	}
	if len(n.Mods) > 0 {
		doc[keyMods] = n.Mods
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Node) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	*n = Node{}
	if raw, ok := doc[keyActive]; ok {
		if err := json.Unmarshal(raw, &n.Active); err != nil {
			return fmt.Errorf("invalid %q: %w", keyActive, err)
		}
		delete(doc, keyActive)
	}
	if raw, ok := doc[keyValidated]; ok {
		if err := json.Unmarshal(raw, &n.Validated); err != nil {
			return fmt.Errorf("invalid %q: %w", keyValidated, err)
		}
		delete(doc, keyValidated)
	}
	if raw, ok := doc[keyMods]; ok {
		if err := json.Unmarshal(raw, &n.Mods); err != nil {
			return fmt.Errorf("invalid %q: %w", keyMods, err)
		}
		delete(doc, keyMods)
	}
	if len(doc) > 0 {
		n.Extra = doc
	}
	return nil
}

func cloneExtra(extra map[string]json.RawMessage) map[string]json.RawMessage {
	if extra == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(extra))
	for k, v := range extra {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Tree maps package path segments to their nodes
type Tree map[string]*Node

// Lookup finds the node of a package, or nil
func (t Tree) Lookup(id types.PackageIdentifier) *Node {
	current := t
	var node *Node
	for _, segment := range id.Segments() {
		if current == nil {
			return nil
		}
		node = current[segment]
		if node == nil {
			return nil
		}
		current = node.Mods
	}
	return node
}

// IsActive reports whether the package node exists and is active
func (t Tree) IsActive(id types.PackageIdentifier) bool {
	node := t.Lookup(id)
	return node != nil && node.Active
}

// Clone returns a deep copy of the tree
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		if v == nil {
			out[k] = nil
			continue
		}
		n := *v
		n.Mods = v.Mods.Clone()
		n.Extra = cloneExtra(v.Extra)
		out[k] = &n
	}
	return out
}

// Write returns a new tree with field set on the node at id. Every node on
// the path from root to leaf is copied, missing ones are created; the input
// tree is left untouched so it stays valid if the caller never commits.
func Write(tree Tree, id types.PackageIdentifier, field Field, value bool) Tree {
	return writeSegments(tree, id.Segments(), field, value)
}

func writeSegments(tree Tree, segments []string, field Field, value bool) Tree {
	if len(segments) == 0 {
		return tree
	}

	out := make(Tree, len(tree)+1)
	for k, v := range tree {
		out[k] = v
	}

	var node Node
	if existing := tree[segments[0]]; existing != nil {
		node = *existing
		node.Extra = cloneExtra(existing.Extra)
	}

	if len(segments) == 1 {
		switch field {
		case FieldActive:
			node.Active = value
		case FieldValidated:
			node.Validated = value
		}
	} else {
		node.Mods = writeSegments(node.Mods, segments[1:], field, value)
	}

	out[segments[0]] = &node
	return out
}
