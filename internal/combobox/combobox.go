// Package combobox implements a text field that drives an embedded listbox.
//
// The text field keeps focus the whole time. The list is armed through its
// Host while the field is focused, mirrors its active option into the
// field's aria-activedescendant, and asks for another page whenever
// navigation reaches its last option.
package combobox

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/bubbles/v2/textinput"
	"charm.land/lipgloss/v2"

	"github.com/joeycumines/listbox/internal/listbox"
	"github.com/joeycumines/listbox/internal/termui/node"
)

// LoadingMessage is announced while a page is being fetched.
const LoadingMessage = "Loading results"

// Loader fetches one page of results for query. Pages are numbered from 0.
// more reports whether a further page exists.
type Loader func(ctx context.Context, query string, page int) (sections []listbox.Section, more bool, err error)

// pageMsg carries a loaded page back to the combo box that asked for it.
type pageMsg struct {
	owner    *Model
	gen      uint64
	page     int
	sections []listbox.Section
	more     bool
	err      error
}

// Option configures a Model.
type Option func(*config)

type config struct {
	id          string
	label       string
	placeholder string
	ctx         context.Context
	logger      *slog.Logger
	onSelect    func(value string)
	listOpts    []listbox.Option
}

// WithID sets the combo box id. The list and label ids derive from it.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithLabel sets the visible label, which also labels the list.
func WithLabel(label string) Option {
	return func(c *config) { c.label = label }
}

// WithPlaceholder sets the text field's placeholder.
func WithPlaceholder(s string) Option {
	return func(c *config) { c.placeholder = s }
}

// WithContext sets the context passed to the Loader.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// WithLogger sets the logger for the combo box and its list.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithOnSelect is called with the value of each selected option.
func WithOnSelect(fn func(value string)) Option {
	return func(c *config) { c.onSelect = fn }
}

// WithListOptions passes options through to the embedded list.
func WithListOptions(opts ...listbox.Option) Option {
	return func(c *config) { c.listOpts = append(c.listOpts, opts...) }
}

// Model is a combo box: a focused text input with a listbox of results.
type Model struct {
	input    textinput.Model
	list     *listbox.Model
	loader   Loader
	ctx      context.Context
	logger   *slog.Logger
	onSelect func(string)

	id       string
	listID   string
	activeID string
	label    string

	frame *node.Node
	combo *node.Node

	query    string
	gen      uint64
	page     int
	more     bool
	loading  bool
	wantMore bool
	selected string
	err      error
}

// New creates a focused combo box that fetches results with loader.
func New(loader Loader, opts ...Option) *Model {
	cfg := config{id: "combo", ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	m := &Model{
		loader:   loader,
		ctx:      cfg.ctx,
		logger:   cfg.logger,
		onSelect: cfg.onSelect,
		id:       cfg.id,
		label:    cfg.label,
		more:     true,
	}

	m.input = textinput.New()
	m.input.Prompt = "› "
	m.input.Placeholder = cfg.placeholder
	m.input.Focus()

	host := &listbox.Host{
		SetActiveID:       func(id string) { m.activeID = id },
		SetListID:         func(id string) { m.listID = id },
		ListID:            func() string { return m.listID },
		LabelID:           m.id + "-label",
		Focused:           func() bool { return m.input.Focused() },
		OnOptionSelected:  m.optionSelected,
		OnBoundaryReached: func() { m.wantMore = true },
	}
	listOpts := append([]listbox.Option{
		listbox.WithHost(host),
		listbox.WithLogger(m.logger),
	}, cfg.listOpts...)
	m.list = listbox.New(listOpts...)

	m.frame = node.New("", m.id+"-frame")
	labelNode := node.New("", m.id+"-label")
	labelNode.Text = m.label
	m.combo = node.New("combobox", m.id)
	m.frame.Append(labelNode, m.combo, m.list.Tree())
	m.sync()
	return m
}

// List returns the embedded list.
func (m *Model) List() *listbox.Model { return m.list }

// Tree returns the node tree for the label, field and list.
func (m *Model) Tree() *node.Node { return m.frame }

// ActiveID returns the id mirrored into the field's aria-activedescendant.
func (m *Model) ActiveID() string { return m.activeID }

// Value returns the text in the field.
func (m *Model) Value() string { return m.input.Value() }

// Selected returns the most recently selected value.
func (m *Model) Selected() (string, bool) { return m.selected, m.selected != "" }

// Err returns the error from the most recent failed load.
func (m *Model) Err() error { return m.err }

// Loading reports whether a page is in flight.
func (m *Model) Loading() bool { return m.loading }

// Focus focuses the text field, arming the list.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur blurs the text field, disarming the list.
func (m *Model) Blur() {
	m.input.Blur()
}

// Init loads the first page.
func (m *Model) Init() tea.Cmd {
	return m.load(0)
}

// Update routes keys to the list first and then to the text field.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case pageMsg:
		if msg.owner != m {
			break
		}
		m.receive(msg)
	case tea.KeyPressMsg:
		if cmd, handled := m.list.HandleKey(msg); handled {
			cmds = append(cmds, cmd)
			break
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if q := m.input.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, m.load(0))
		}
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.loadMore())
	m.sync()
	return m, tea.Batch(cmds...)
}

func (m *Model) optionSelected(value string) {
	m.selected = value
	m.query = value
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.logger.Debug("combobox: selected", "value", value)
	if m.onSelect != nil {
		m.onSelect(value)
	}
}

// loadMore fetches the next page once navigation has reached the end.
func (m *Model) loadMore() tea.Cmd {
	if !m.wantMore {
		return nil
	}
	m.wantMore = false
	if m.loading || !m.more {
		return nil
	}
	return m.load(m.page)
}

// load starts fetching page for the current query. A new first page
// supersedes anything in flight.
func (m *Model) load(page int) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	if page == 0 {
		m.gen++
	}
	m.loading = true
	m.list.SetLoading(LoadingMessage)

	gen, query, ctx, loader := m.gen, m.query, m.ctx, m.loader
	m.logger.Debug("combobox: loading", "query", query, "page", page)
	return func() tea.Msg {
		sections, more, err := loader(ctx, query, page)
		return pageMsg{owner: m, gen: gen, page: page, sections: sections, more: more, err: err}
	}
}

func (m *Model) receive(msg pageMsg) {
	if msg.gen != m.gen {
		m.logger.Debug("combobox: stale page dropped", "page", msg.page)
		return
	}
	m.loading = false
	m.list.ClearLoading()
	if msg.err != nil {
		m.err = msg.err
		m.logger.Warn("combobox: load failed", "page", msg.page, "error", msg.err)
		return
	}
	m.err = nil
	if msg.page == 0 {
		m.list.SetSections(msg.sections)
	} else {
		m.list.AppendSections(msg.sections)
	}
	m.page = msg.page + 1
	m.more = msg.more
}

// sync writes the combobox ARIA state.
func (m *Model) sync() {
	c := m.combo
	c.Text = m.input.Value()
	c.SetAttr("aria-controls", m.list.ID())
	c.SetAttr("aria-autocomplete", "list")
	c.SetAttr("aria-labelledby", m.id+"-label")
	if len(m.list.Options()) > 0 {
		c.SetAttr("aria-expanded", "true")
	} else {
		c.SetAttr("aria-expanded", "false")
	}
	if m.activeID != "" {
		c.SetAttr(listbox.AttrActiveDescendant, m.activeID)
	} else {
		c.RemoveAttr(listbox.AttrActiveDescendant)
	}
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// View renders the label, field and list.
func (m *Model) View() string {
	parts := make([]string, 0, 4)
	if m.label != "" {
		parts = append(parts, labelStyle.Render(m.label))
	}
	parts = append(parts, m.input.View())
	if list := m.list.View(); list != "" {
		parts = append(parts, list)
	}
	switch {
	case m.err != nil:
		parts = append(parts, errStyle.Render(m.err.Error()))
	case m.loading:
		parts = append(parts, hintStyle.Render(LoadingMessage+"…"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
