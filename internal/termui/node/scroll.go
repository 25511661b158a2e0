package node

// NearestScrollable returns n or its nearest ancestor that has a viewport.
func NearestScrollable(n *Node) *Node {
	if n == nil {
		return nil
	}
	return n.Closest(func(c *Node) bool { return c.Viewport != nil })
}

// ScrollIntoView adjusts container's viewport by the smallest amount that
// makes target fully visible. Targets taller than the viewport are aligned
// to the top. Only container scrolls; its ancestors are untouched. It
// reports whether the offset changed.
func ScrollIntoView(container, target *Node) bool {
	if container == nil || container.Viewport == nil || target == nil {
		return false
	}
	vp := container.Viewport
	if vp.Height <= 0 {
		return false
	}
	top, ok := target.OffsetIn(container)
	if !ok {
		return false
	}
	height := target.Lines()
	prev := vp.YOffset

	switch {
	case top < vp.YOffset || height >= vp.Height:
		vp.YOffset = top
	case top+height > vp.YOffset+vp.Height:
		vp.YOffset = top + height - vp.Height
	}

	maxOffset := container.Lines() - vp.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if vp.YOffset > maxOffset {
		vp.YOffset = maxOffset
	}
	if vp.YOffset < 0 {
		vp.YOffset = 0
	}
	return vp.YOffset != prev
}
