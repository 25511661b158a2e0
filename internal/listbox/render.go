package listbox

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"

	"github.com/joeycumines/listbox/internal/termui/node"
)

// Styles controls how rows are drawn.
type Styles struct {
	Option   lipgloss.Style
	Active   lipgloss.Style
	Disabled lipgloss.Style
	Header   lipgloss.Style
	Marker   lipgloss.Style
	// MarkerChar prefixes the active row. Other rows are padded to the
	// same width.
	MarkerChar string
}

// DefaultStyles returns the default row styles.
func DefaultStyles() Styles {
	return Styles{
		Option:     lipgloss.NewStyle(),
		Active:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Disabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		Header:     lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Marker:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		MarkerChar: "›",
	}
}

// PlainStyles returns styles without color or attributes, for terminals
// where color is disabled.
func PlainStyles() Styles {
	return Styles{
		Option:     lipgloss.NewStyle(),
		Active:     lipgloss.NewStyle(),
		Disabled:   lipgloss.NewStyle(),
		Header:     lipgloss.NewStyle(),
		Marker:     lipgloss.NewStyle(),
		MarkerChar: "›",
	}
}

// View renders the visible window of the list. When the list was created
// with zones, option rows carry zone markers and the caller must Scan the
// final output.
func (m *Model) View() string {
	lines := m.lines()
	vp := m.root.Viewport
	if vp == nil {
		return strings.Join(lines, "\n")
	}

	start := min(max(vp.YOffset, 0), len(lines))
	end := min(start+vp.Height, len(lines))
	window := lines[start:end]
	if len(lines) <= vp.Height {
		return strings.Join(window, "\n")
	}

	bar := m.bar.View(len(lines), *vp)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(window, "\n"), " ", bar)
}

// lines renders every line of the list's content in document order, one
// entry per line counted by node.Lines.
func (m *Model) lines() []string {
	width := m.width
	if width > 0 && m.root.Viewport != nil && m.root.Lines() > m.root.Viewport.Height {
		// room for the gap and the scrollbar
		width = max(width-2, 1)
	}
	markerWidth := uniseg.StringWidth(m.styles.MarkerChar)
	pad := strings.Repeat(" ", markerWidth+1)

	var out []string
	var walk func(n *node.Node)
	walk = func(n *node.Node) {
		if n.Hidden() {
			return
		}
		if n.Text != "" {
			for _, text := range strings.Split(n.Text, "\n") {
				out = append(out, m.renderLine(n, text, width, pad))
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m.root)
	return out
}

func (m *Model) renderLine(n *node.Node, text string, width int, pad string) string {
	s := m.styles
	if n.Role != RoleOption {
		return s.Header.Render(truncate(text, width))
	}

	labelWidth := width
	if width > 0 {
		labelWidth = max(width-len([]rune(pad)), 1)
	}
	label := truncate(text, labelWidth)

	var line string
	switch {
	case n.HasAttr(AttrActive):
		line = s.Marker.Render(s.MarkerChar) + " " + s.Active.Render(label)
	case isDisabled(n):
		line = pad + s.Disabled.Render(label)
	default:
		line = pad + s.Option.Render(label)
	}
	if m.zones != nil {
		line = m.zones.Mark(n.ID, line)
	}
	return line
}

func isDisabled(n *node.Node) bool {
	v, _ := n.Attr(AttrDisabled)
	return v == "true"
}

// truncate shortens s to at most width terminal cells, breaking only
// between grapheme clusters and ending with an ellipsis when shortened.
// A width of zero or less leaves s unchanged.
func truncate(s string, width int) string {
	if width <= 0 || uniseg.StringWidth(s) <= width {
		return s
	}
	const ellipsis = "…"
	limit := width - 1

	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > limit {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	b.WriteString(ellipsis)
	return b.String()
}
