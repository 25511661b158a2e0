// Package node implements a small retained tree of rendered nodes.
//
// Each node carries a role, a set of string attributes and, optionally, a
// line of text. Components build a tree while rendering, and the tree is what
// navigation code queries (for example "every option in document order") and
// what accessibility tooling inspects. A node with a Viewport is a scrollable
// container; geometry is measured in terminal lines.
package node

import (
	"sort"
	"strings"
)

// Viewport is the scroll state of a scrollable container.
type Viewport struct {
	// Height is the number of visible lines.
	Height int
	// YOffset is the first visible line of the container's content.
	YOffset int
}

// Node is one element of the tree. The zero value is a detached node with
// no role.
type Node struct {
	// ID is the element identifier. It is mirrored into the "id" attribute
	// by Markup.
	ID string
	// Role is the accessibility role (e.g. "listbox", "option").
	Role string
	// Text is the node's own content, rendered before any children.
	Text string
	// Viewport makes the node a scrollable container when non-nil.
	Viewport *Viewport

	Parent   *Node
	Children []*Node

	attrs map[string]string
}

// New creates a detached node with the given role and id.
func New(role, id string) *Node {
	return &Node{Role: role, ID: id}
}

// SetAttr sets an attribute. Setting an attribute to its current value is a
// no-op.
func (n *Node) SetAttr(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// RemoveAttr removes an attribute, if present.
func (n *Node) RemoveAttr(name string) {
	delete(n.attrs, name)
}

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.attrs[name]
	return ok
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Append adds children to the end of n, detaching each from any previous
// parent first.
func (n *Node) Append(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.Detach()
		c.Parent = n
		n.Children = append(n.Children, c)
	}
	return n
}

// RemoveChild removes c from n's children, reporting whether it was found.
func (n *Node) RemoveChild(c *Node) bool {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return true
		}
	}
	return false
}

// Detach removes n from its parent.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Root returns the topmost ancestor of n (n itself when detached).
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	for cur := d; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order (pre-order).
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// QueryAll returns every node in the subtree (n included) that matches,
// in document order, each node at most once.
func (n *Node) QueryAll(match func(*Node) bool) []*Node {
	var out []*Node
	seen := make(map[*Node]struct{})
	n.Walk(func(c *Node) {
		if _, dup := seen[c]; dup || !match(c) {
			return
		}
		seen[c] = struct{}{}
		out = append(out, c)
	})
	return out
}

// Find returns the first node in the subtree with the given id.
func (n *Node) Find(id string) *Node {
	if id == "" {
		return nil
	}
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && c.ID == id {
			found = c
		}
	})
	return found
}

// Closest returns n or its nearest ancestor that matches, or nil.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// HasRole returns a matcher for nodes with the given role.
func HasRole(role string) func(*Node) bool {
	return func(n *Node) bool { return n.Role == role }
}

// Hidden reports whether the node takes up no visual space. Visually hidden
// nodes are still part of the tree (and of Markup).
func (n *Node) Hidden() bool {
	if n.HasAttr("hidden") {
		return true
	}
	class, _ := n.Attr("class")
	for _, c := range strings.Fields(class) {
		if c == "visually-hidden" {
			return true
		}
	}
	return false
}

// ownLines is the number of lines occupied by the node's own text.
func (n *Node) ownLines() int {
	if n.Text == "" {
		return 0
	}
	return strings.Count(n.Text, "\n") + 1
}

// Lines returns the height of the subtree's content in lines.
func (n *Node) Lines() int {
	if n.Hidden() {
		return 0
	}
	total := n.ownLines()
	for _, c := range n.Children {
		total += c.Lines()
	}
	return total
}

// OffsetIn returns the line at which n starts within ancestor's content.
// The second result is false if ancestor does not contain n.
func (n *Node) OffsetIn(ancestor *Node) (int, bool) {
	offset := 0
	for cur := n; cur != ancestor; cur = cur.Parent {
		p := cur.Parent
		if p == nil {
			return 0, false
		}
		offset += p.ownLines()
		for _, sib := range p.Children {
			if sib == cur {
				break
			}
			offset += sib.Lines()
		}
	}
	return offset, true
}
