package listbox

import (
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/key"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/listbox/internal/termui/node"
	"github.com/joeycumines/listbox/internal/termui/scrollbar"
)

// Item is one option supplied by the owner.
type Item struct {
	Value    string
	Label    string
	Disabled bool
}

// Section groups items under an optional heading. Items in a section with
// an empty title are rendered without a group.
type Section struct {
	Title string
	Items []Item
}

// HitTester reports whether a terminal cell lies within a marked region.
type HitTester interface {
	InBounds(id string, x, y int) bool
}

type zoneHitTester struct {
	zones *zone.Manager
}

func (z zoneHitTester) InBounds(id string, x, y int) bool {
	info := z.zones.Get(id)
	if info == nil || info.IsZero() {
		return false
	}
	return info.StartX <= x && x <= info.EndX && info.StartY <= y && y <= info.EndY
}

// Option configures a Model.
type Option func(*Model)

// WithHost embeds the list in a host controller, such as a combo box.
func WithHost(h *Host) Option {
	return func(m *Model) { m.host = h }
}

// WithKeyboardControl arms keyboard navigation permanently.
func WithKeyboardControl(enabled bool) Option {
	return func(m *Model) { m.focus.explicit = enabled }
}

// WithAccessibilityLabel sets aria-label. It is ignored when a host
// supplies a label id.
func WithAccessibilityLabel(label string) Option {
	return func(m *Model) { m.label = label }
}

// WithHeight limits the list to height visible lines, making it a scroll
// container. Zero shows every line.
func WithHeight(height int) Option {
	return func(m *Model) { m.height = max(height, 0) }
}

// WithWidth sets the rendered width, truncating longer labels. Zero means
// unlimited.
func WithWidth(width int) Option {
	return func(m *Model) { m.width = max(width, 0) }
}

// WithScrollDebounce overrides DefaultScrollDebounce.
func WithScrollDebounce(d time.Duration) Option {
	return func(m *Model) { m.debounce = d }
}

// WithOnSelect sets the selection callback, fired once per confirmed
// selection.
func WithOnSelect(fn func(value string)) Option {
	return func(m *Model) { m.onSelect = fn }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) { m.keys = keys }
}

// WithZones marks each option row with the given zone manager so that
// mouse clicks can select options. The caller must Scan the final view.
func WithZones(zones *zone.Manager) Option {
	return func(m *Model) {
		m.zones = zones
		if zones != nil && m.hits == nil {
			m.hits = zoneHitTester{zones: zones}
		}
	}
}

// WithHitTester overrides the hit testing used for mouse clicks.
func WithHitTester(h HitTester) Option {
	return func(m *Model) { m.hits = h }
}

// WithStyles replaces DefaultStyles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithID sets the list's id instead of generating one.
func WithID(id string) Option {
	return func(m *Model) {
		if id != "" {
			m.id = id
		}
	}
}

// Model is an accessible option list for Bubble Tea programs.
//
// The list renders into a node tree (see Tree) whose root carries the
// listbox role and ARIA state. Navigation reads that tree on every key
// press and moves a data-active marker between option nodes.
type Model struct {
	id       string
	host     *Host
	focus    focusMode
	keys     KeyMap
	label    string
	height   int
	width    int
	debounce time.Duration
	onSelect func(string)
	logger   *slog.Logger
	zones    *zone.Manager
	hits     HitTester
	styles   Styles
	bar      scrollbar.Model

	frame   *node.Node
	root    *node.Node
	status  *node.Node
	loading string
	seq     int

	registry *Registry
	nav      *Navigator
	scroll   *ScrollCoordinator
}

// New creates an empty list.
func New(opts ...Option) *Model {
	m := &Model{
		id:       "listbox-" + uuid.NewString(),
		keys:     DefaultKeyMap(),
		debounce: DefaultScrollDebounce,
		styles:   DefaultStyles(),
		bar:      scrollbar.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	m.focus.host = m.host
	m.host.publishID(m.id)

	m.frame = node.New("", "")
	m.root = node.New(RoleListbox, "")
	m.frame.Append(m.root)
	if m.height > 0 {
		m.root.Viewport = &node.Viewport{Height: m.height}
	}

	m.registry = NewRegistry(m.root)
	m.scroll = NewScrollCoordinator(m.root, m.debounce, m.logger)
	m.nav = NewNavigator(NavigatorConfig{
		Options:  m.registry,
		Host:     m.host,
		Scroller: m.scroll,
		OnSelect: m.onSelect,
		Logger:   m.logger,
	})
	m.sync()
	return m
}

// ID returns the list's effective id: the host's when it has one,
// otherwise the list's own.
func (m *Model) ID() string {
	if id := m.host.listID(); id != "" {
		return id
	}
	return m.id
}

// Root returns the listbox node.
func (m *Model) Root() *node.Node { return m.root }

// Tree returns the node holding the listbox and its live region.
func (m *Model) Tree() *node.Node { return m.frame }

// Options returns a fresh snapshot of the rendered options.
func (m *Model) Options() []NavigableOption { return m.registry.Options() }

// ActiveID returns the active option's id, or "".
func (m *Model) ActiveID() string { return m.nav.ActiveID() }

// Active returns the active option.
func (m *Model) Active() (NavigableOption, bool) { return m.nav.Active() }

// Armed reports whether keyboard navigation is currently bound.
func (m *Model) Armed() bool { return m.focus.armed() }

// KeyMap returns the key bindings, enabled according to the armed state.
func (m *Model) KeyMap() KeyMap {
	m.keys.setEnabled(m.focus.armed())
	return m.keys
}

// Height returns the number of visible lines, or 0 when unbounded.
func (m *Model) Height() int { return m.height }

// SetHeight changes the number of visible lines.
func (m *Model) SetHeight(height int) {
	height = max(height, 0)
	if height == m.height {
		return
	}
	m.height = height
	if height == 0 {
		m.root.Viewport = nil
	} else if m.root.Viewport == nil {
		m.root.Viewport = &node.Viewport{Height: height}
	} else {
		m.root.Viewport.Height = height
	}
	m.scroll.Invalidate()
}

// SetWidth changes the rendered width.
func (m *Model) SetWidth(width int) { m.width = max(width, 0) }

// SetItems replaces the list's content with ungrouped items.
func (m *Model) SetItems(items []Item) {
	m.SetSections([]Section{{Items: items}})
}

// SetSections replaces the list's content. The active option is cleared.
func (m *Model) SetSections(sections []Section) {
	m.nav.SetActive(nil)
	for len(m.root.Children) > 0 {
		m.root.RemoveChild(m.root.Children[0])
	}
	if m.root.Viewport != nil {
		m.root.Viewport.YOffset = 0
	}
	m.AppendSections(sections)
}

// AppendItems adds ungrouped items to the end of the list.
func (m *Model) AppendItems(items []Item) {
	m.AppendSections([]Section{{Items: items}})
}

// AppendSections adds sections to the end of the list. Items for a section
// with the same title as the last rendered one are merged into it. The
// active option is kept.
func (m *Model) AppendSections(sections []Section) {
	for _, s := range sections {
		parent := m.lastGroup(s.Title)
		if parent == nil && s.Title != "" {
			parent = m.newGroup(s.Title)
			m.root.Append(parent)
		}
		if parent == nil {
			parent = m.root
		}
		for _, item := range s.Items {
			parent.Append(m.newOption(item))
		}
	}
	m.sync()
}

func (m *Model) lastGroup(title string) *node.Node {
	if len(m.root.Children) == 0 {
		return nil
	}
	last := m.root.Children[len(m.root.Children)-1]
	if title == "" {
		if last.Role == RoleOption {
			return m.root
		}
		return nil
	}
	if last.Role != RoleGroup {
		return nil
	}
	if header := last.Find(last.ID + "-label"); header != nil && header.Text == title {
		return last
	}
	return nil
}

func (m *Model) nextID(kind string) string {
	m.seq++
	return fmt.Sprintf("%s-%s-%d", m.ID(), kind, m.seq)
}

func (m *Model) newGroup(title string) *node.Node {
	group := node.New(RoleGroup, m.nextID("grp"))
	header := node.New(RolePresentation, group.ID+"-label")
	header.Text = title
	group.SetAttr(AttrLabelledBy, header.ID)
	return group.Append(header)
}

func (m *Model) newOption(item Item) *node.Node {
	opt := node.New(RoleOption, m.nextID("opt"))
	opt.Text = item.Label
	if opt.Text == "" {
		opt.Text = item.Value
	}
	opt.SetAttr(AttrValue, item.Value)
	if item.Disabled {
		opt.SetAttr(AttrDisabled, "true")
	}
	return opt
}

// Loading returns the loading message, or "".
func (m *Model) Loading() string { return m.loading }

// SetLoading marks the list busy and announces msg through a visually
// hidden live region. An empty msg is the same as ClearLoading.
func (m *Model) SetLoading(msg string) {
	if msg == "" {
		m.ClearLoading()
		return
	}
	m.loading = msg
	if m.status == nil {
		m.status = node.New(RoleStatus, "")
		m.status.SetAttr(AttrLive, "polite")
		m.status.SetAttr(AttrClass, "visually-hidden")
		m.frame.Append(m.status)
	}
	m.status.Text = msg
	m.sync()
}

// ClearLoading removes the busy state and the live region.
func (m *Model) ClearLoading() {
	m.loading = ""
	if m.status != nil {
		m.status.Detach()
		m.status = nil
	}
	m.sync()
}

// Focus handles the list gaining focus. It is ignored when embedded.
func (m *Model) Focus() {
	if m.focus.focus() {
		m.logger.Debug("listbox: focused", "id", m.ID())
	}
}

// Blur handles the list losing focus, clearing the active option. It is
// ignored when embedded.
func (m *Model) Blur() {
	if m.focus.blur() {
		m.logger.Debug("listbox: blurred", "id", m.ID(), "armed", m.focus.armed())
		m.nav.SetActive(nil)
		m.sync()
	}
}

// Move moves the active option in dir, regardless of the armed state.
func (m *Model) Move(dir Direction) tea.Cmd {
	cmd := m.nav.Move(dir)
	m.sync()
	return cmd
}

// SelectActive selects the active option, if any.
func (m *Model) SelectActive() tea.Cmd {
	opt, ok := m.nav.Active()
	if !ok {
		return nil
	}
	cmd := m.nav.Select(opt)
	m.sync()
	return cmd
}

// HandleKey applies msg if it matches an enabled binding. The second result
// reports whether the key was consumed; unconsumed keys belong to the
// caller. A disarmed list consumes nothing.
func (m *Model) HandleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	m.keys.setEnabled(m.focus.armed())
	switch {
	case key.Matches(msg, m.keys.Down):
		return m.Move(Down), true
	case key.Matches(msg, m.keys.Up):
		return m.Move(Up), true
	case key.Matches(msg, m.keys.Enter):
		return m.SelectActive(), true
	}
	return nil, false
}

// Init returns nil. The list starts no work of its own.
func (m *Model) Init() tea.Cmd { return nil }

// Update handles key, focus, mouse and scroll messages.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		cmd, _ := m.HandleKey(msg)
		return m, cmd
	case tea.FocusMsg:
		m.Focus()
	case tea.BlurMsg:
		m.Blur()
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			return m, m.click(msg.X, msg.Y)
		}
	case scrollMsg:
		m.scroll.Handle(msg)
	}
	return m, nil
}

func (m *Model) click(x, y int) tea.Cmd {
	if m.hits == nil {
		return nil
	}
	for _, opt := range m.registry.Options() {
		if opt.Disabled || !m.hits.InBounds(opt.ID, x, y) {
			continue
		}
		cmd := m.nav.Select(opt)
		m.sync()
		return cmd
	}
	return nil
}

// sync writes the list's ARIA state onto the root node.
func (m *Model) sync() {
	r := m.root
	r.ID = m.ID()
	r.SetAttr(AttrTabIndex, "0")

	if id := m.nav.ActiveID(); id != "" {
		r.SetAttr(AttrActiveDescendant, id)
	} else {
		r.RemoveAttr(AttrActiveDescendant)
	}

	if m.loading != "" {
		r.SetAttr(AttrBusy, "true")
	} else {
		r.RemoveAttr(AttrBusy)
	}

	if labelID := m.host.labelID(); labelID != "" {
		r.SetAttr(AttrLabelledBy, labelID)
		r.RemoveAttr(AttrLabel)
	} else if m.label != "" && !m.host.embedded() {
		r.SetAttr(AttrLabel, m.label)
		r.RemoveAttr(AttrLabelledBy)
	} else {
		r.RemoveAttr(AttrLabel)
		r.RemoveAttr(AttrLabelledBy)
	}
}
