package listbox

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/joeycumines/listbox/internal/termui/node"
)

// Direction is a navigation direction.
type Direction int

const (
	Down Direction = iota
	Up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Scroller brings a newly active option into view.
type Scroller interface {
	Request(target *node.Node, first bool) tea.Cmd
}

// NavigatorConfig wires a Navigator to its collaborators. Only Options is
// required.
type NavigatorConfig struct {
	Options  Snapshotter
	Host     *Host
	Scroller Scroller
	OnSelect func(value string)
	Logger   *slog.Logger
}

// Navigator is the active-option state machine. It holds the only state
// that survives between events: the active option and the node currently
// carrying the active marker.
type Navigator struct {
	options  Snapshotter
	host     *Host
	scroller Scroller
	onSelect func(value string)
	logger   *slog.Logger

	current *NavigableOption
	marked  *node.Node
}

// NewNavigator creates a Navigator with no active option.
func NewNavigator(cfg NavigatorConfig) *Navigator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		options:  cfg.Options,
		host:     cfg.Host,
		scroller: cfg.Scroller,
		onSelect: cfg.OnSelect,
		logger:   logger,
	}
}

// Active returns the active option.
func (n *Navigator) Active() (NavigableOption, bool) {
	if n.current == nil {
		return NavigableOption{}, false
	}
	return *n.current, true
}

// ActiveID returns the id of the active option, or "".
func (n *Navigator) ActiveID() string {
	if n.current == nil {
		return ""
	}
	return n.current.ID
}

// Next computes the option a move in dir would land on, without changing
// state. Disabled options are skipped, wrapping at either end; after as
// many attempts as there are options it gives up. An active option that is
// no longer present is treated as no active option. Landing on the last
// option notifies the host's boundary callback.
func (n *Navigator) Next(dir Direction) (NavigableOption, bool) {
	items := n.options.Options()
	count := len(items)
	if count == 0 {
		return NavigableOption{}, false
	}

	idx := -1
	if n.current != nil {
		idx = indexOf(items, n.current.ID)
	}

	for attempt := 0; attempt < count; attempt++ {
		idx = step(idx, dir, count)
		if items[idx].Disabled {
			continue
		}
		if idx == count-1 {
			n.logger.Debug("listbox: boundary reached", "id", items[idx].ID)
			n.host.boundaryReached()
		}
		return items[idx], true
	}
	return NavigableOption{}, false
}

// step moves one position from idx, where -1 means "nothing active".
func step(idx int, dir Direction, count int) int {
	if dir == Up {
		if idx <= 0 {
			return count - 1
		}
		return idx - 1
	}
	if idx < 0 || idx >= count-1 {
		return 0
	}
	return idx + 1
}

// Move applies Next. When nothing can be landed on the active option is
// cleared.
func (n *Navigator) Move(dir Direction) tea.Cmd {
	opt, ok := n.Next(dir)
	if !ok {
		return n.SetActive(nil)
	}
	return n.SetActive(&opt)
}

// SetActive makes opt the active option, or clears it when opt is nil. The
// marker is removed from the previous node before it is added to the new
// one, so no two nodes carry it at once.
func (n *Navigator) SetActive(opt *NavigableOption) tea.Cmd {
	if n.marked != nil && (opt == nil || opt.Node != n.marked) {
		n.marked.RemoveAttr(AttrActive)
		n.marked = nil
	}

	if opt == nil {
		if n.current != nil {
			n.logger.Debug("listbox: active cleared", "id", n.current.ID)
		}
		n.current = nil
		n.host.setActiveID("")
		return nil
	}

	var cmd tea.Cmd
	if opt.Node != nil {
		opt.Node.SetAttr(AttrActive, "true")
		n.marked = opt.Node
		if n.scroller != nil {
			items := n.options.Options()
			first := len(items) > 0 && items[0].ID == opt.ID
			cmd = n.scroller.Request(opt.Node, first)
		}
	}

	active := *opt
	n.current = &active
	n.logger.Debug("listbox: active changed", "id", opt.ID, "value", opt.Value)
	n.host.setActiveID(opt.ID)
	return cmd
}

// Select makes opt active and reports its value, first to the owner and
// then to the host.
func (n *Navigator) Select(opt NavigableOption) tea.Cmd {
	cmd := n.SetActive(&opt)
	if n.onSelect != nil {
		n.onSelect(opt.Value)
	}
	n.host.optionSelected(opt.Value)
	return cmd
}
