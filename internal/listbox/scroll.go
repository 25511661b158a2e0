package listbox

import (
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/joeycumines/listbox/internal/termui/node"
)

// DefaultScrollDebounce is how long scroll requests are held back so that a
// burst of key repeats scrolls once.
const DefaultScrollDebounce = 50 * time.Millisecond

// scrollMsg is delivered when a debounce window closes.
type scrollMsg struct {
	owner *ScrollCoordinator
	seq   uint64
}

// ScrollCoordinator debounces scroll-into-view requests for one list. Each
// request replaces the previous one; when its tick arrives, only the latest
// request runs.
type ScrollCoordinator struct {
	list   *node.Node
	delay  time.Duration
	logger *slog.Logger

	seq    uint64
	target *node.Node

	container *node.Node
	resolved  bool
}

// NewScrollCoordinator creates a coordinator for the list rooted at list.
func NewScrollCoordinator(list *node.Node, delay time.Duration, logger *slog.Logger) *ScrollCoordinator {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScrollCoordinator{list: list, delay: delay, logger: logger}
}

// Request schedules target to be scrolled into view. When first is set and
// target sits in a group, the whole group is scrolled to instead, keeping
// its heading visible.
func (c *ScrollCoordinator) Request(target *node.Node, first bool) tea.Cmd {
	if target == nil {
		return nil
	}
	if first {
		if group := target.Closest(node.HasRole(RoleGroup)); group != nil {
			target = group
		}
	}
	c.seq++
	c.target = target
	msg := scrollMsg{owner: c, seq: c.seq}
	return tea.Tick(c.delay, func(time.Time) tea.Msg { return msg })
}

// Handle runs the pending scroll if msg is this coordinator's latest tick.
// It reports whether msg belonged to this coordinator.
func (c *ScrollCoordinator) Handle(msg tea.Msg) bool {
	m, ok := msg.(scrollMsg)
	if !ok || m.owner != c {
		return false
	}
	if m.seq != c.seq {
		c.logger.Debug("listbox: scroll superseded", "seq", m.seq, "latest", c.seq)
		return true
	}
	c.Flush()
	return true
}

// Flush runs the pending scroll immediately.
func (c *ScrollCoordinator) Flush() {
	target := c.target
	c.target = nil
	if target == nil {
		return
	}
	container := c.scrollContainer()
	if container == nil {
		c.logger.Debug("listbox: no scroll container, scroll dropped", "target", target.ID)
		return
	}
	if !container.Contains(target) {
		return
	}
	node.ScrollIntoView(container, target)
}

// Invalidate forgets the cached scroll container, for when the list's
// ancestry changes.
func (c *ScrollCoordinator) Invalidate() {
	c.container = nil
	c.resolved = false
}

func (c *ScrollCoordinator) scrollContainer() *node.Node {
	if !c.resolved {
		c.container = node.NearestScrollable(c.list)
		c.resolved = true
	}
	return c.container
}
