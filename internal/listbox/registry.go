package listbox

import (
	"github.com/joeycumines/listbox/internal/termui/node"
)

// Roles used in the rendered tree.
const (
	RoleListbox      = "listbox"
	RoleOption       = "option"
	RoleGroup        = "group"
	RolePresentation = "presentation"
	RoleStatus       = "status"
)

// Attributes read and written on rendered nodes.
const (
	AttrValue            = "data-value"
	AttrActive           = "data-active"
	AttrDisabled         = "aria-disabled"
	AttrActiveDescendant = "aria-activedescendant"
	AttrBusy             = "aria-busy"
	AttrLabel            = "aria-label"
	AttrLabelledBy       = "aria-labelledby"
	AttrLive             = "aria-live"
	AttrTabIndex         = "tabindex"
	AttrClass            = "class"
)

// NavigableOption identifies one selectable row at the moment it was read.
// Values are rebuilt from the rendered tree on every read and are never
// persisted.
type NavigableOption struct {
	// ID is the rendered element id, unique within the list.
	ID string
	// Value is reported to OnSelect when the option is selected.
	Value string
	// Label is the visible text.
	Label string
	// Disabled options are traversed over but never landed on.
	Disabled bool
	// Node is a non-owning reference to the rendered element. It is only
	// meaningful while the option stays mounted, and may be nil for
	// snapshots that are not backed by a tree.
	Node *node.Node
}

// Snapshotter supplies the current options, in document order, without
// duplicates. Implementations must read fresh state on every call.
type Snapshotter interface {
	Options() []NavigableOption
}

// Registry reads options out of a rendered tree.
type Registry struct {
	root *node.Node
}

// NewRegistry returns a Registry scanning the subtree rooted at root.
func NewRegistry(root *node.Node) *Registry {
	return &Registry{root: root}
}

// Options scans the subtree for option nodes. Disabled state and values are
// read from the nodes on every call.
func (r *Registry) Options() []NavigableOption {
	if r == nil || r.root == nil {
		return nil
	}
	nodes := r.root.QueryAll(node.HasRole(RoleOption))
	out := make([]NavigableOption, 0, len(nodes))
	seen := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if n.ID != "" {
			if _, dup := seen[n.ID]; dup {
				continue
			}
			seen[n.ID] = struct{}{}
		}
		out = append(out, optionFromNode(n))
	}
	return out
}

func optionFromNode(n *node.Node) NavigableOption {
	value, _ := n.Attr(AttrValue)
	disabled, _ := n.Attr(AttrDisabled)
	return NavigableOption{
		ID:       n.ID,
		Value:    value,
		Label:    n.Text,
		Disabled: disabled == "true",
		Node:     n,
	}
}

func indexOf(items []NavigableOption, id string) int {
	if id == "" {
		return -1
	}
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
