package node

import (
	"strconv"
	"strings"
)

// Markup renders the subtree as indented pseudo-HTML. The output is
// deterministic: the id comes first, then the role, then the remaining
// attributes sorted by name. It exists for debugging and for asserting on
// the accessible shape of a component.
//
//	<listbox id="lb" role="listbox" tabindex="0">
//	  <option id="lb-1" role="option" data-value="a">
//	    Apple
//	  </option>
//	</listbox>
func Markup(n *Node) string {
	var b strings.Builder
	writeMarkup(&b, n, 0)
	return b.String()
}

func writeMarkup(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	tag := n.Role
	if tag == "" {
		tag = "div"
	}

	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(tag)
	if n.ID != "" {
		writeAttr(b, "id", n.ID)
	}
	if n.Role != "" {
		writeAttr(b, "role", n.Role)
	}
	for _, name := range n.AttrNames() {
		if name == "id" || name == "role" {
			continue
		}
		v, _ := n.Attr(name)
		writeAttr(b, name, v)
	}
	b.WriteString(">\n")

	if n.Text != "" {
		for _, line := range strings.Split(n.Text, "\n") {
			b.WriteString(indent)
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	for _, c := range n.Children {
		writeMarkup(b, c, depth+1)
	}

	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">\n")
}

func writeAttr(b *strings.Builder, name, value string) {
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(strconv.Quote(value))
}
