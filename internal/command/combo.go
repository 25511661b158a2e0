package command

import (
	"context"
	"flag"
	"fmt"
	"io"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/listbox/internal/catalog"
	"github.com/joeycumines/listbox/internal/combobox"
	"github.com/joeycumines/listbox/internal/config"
	"github.com/joeycumines/listbox/internal/listbox"
)

// ComboCommand searches a catalog through a combo box that loads results
// a page at a time, and prints the selected value.
type ComboCommand struct {
	*BaseCommand
	config *config.Config

	catalog     catalogFlags
	log         logFlags
	label       string
	placeholder string
	pageSize    int

	run      programRunner
	terminal func(io.Writer) bool
}

// NewComboCommand creates a new combo command.
func NewComboCommand(cfg *config.Config) *ComboCommand {
	return &ComboCommand{
		BaseCommand: NewBaseCommand(
			"combo",
			"Search a catalog with a combo box and print the selected value",
			"combo [options]",
		),
		config:   cfg,
		run:      runProgram,
		terminal: isTerminal,
	}
}

// SetupFlags configures the flags for the combo command.
func (c *ComboCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.catalog.path, "catalog", "", "Catalog file (default: catalog.file)")
	fs.StringVar(&c.catalog.disabledWhen, "disabled-when", "", "expr predicate disabling matching options (default: catalog.disabled-when)")
	fs.StringVar(&c.label, "label", "", "Visible label of the field (default: [combo] label)")
	fs.StringVar(&c.placeholder, "placeholder", "", "Placeholder for the empty field (default: [combo] placeholder)")
	fs.IntVar(&c.pageSize, "page-size", 0, "Options fetched per page (default: combo.page-size)")
	c.log.register(fs)
}

// Execute runs the combo box.
func (c *ComboCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := rejectArgs(args, stderr); err != nil {
		return err
	}
	if !c.terminal(stdout) {
		_, _ = fmt.Fprintln(stderr, "combo needs an interactive terminal; use 'listbox pick' to print a catalog")
		return fmt.Errorf("not a terminal")
	}

	logger, closer, err := openLogger(c.log, c.config, c.Name())
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := loadCatalog(c.catalog, c.config, c.Name(), logger)
	if err != nil {
		return err
	}
	for _, w := range cat.Warnings {
		_, _ = fmt.Fprintf(stderr, "Warning: %s\n", w)
	}

	schema := config.DefaultSchema()
	pageSize := c.pageSize
	if pageSize <= 0 {
		pageSize = schema.ResolveInt(c.config, c.Name(), "combo.page-size")
	}
	label := c.label
	if label == "" {
		label = schema.ResolveCommand(c.config, c.Name(), "label")
	}
	placeholder := c.placeholder
	if placeholder == "" {
		placeholder = schema.ResolveCommand(c.config, c.Name(), "placeholder")
	}

	ctx := context.Background()
	zones := newZones(c.config, c.Name())
	if zones != nil {
		defer zones.Close()
	}
	m := newComboModel(catalogLoader(cat, pageSize), zones,
		combobox.WithLabel(label),
		combobox.WithPlaceholder(placeholder),
		combobox.WithContext(ctx),
		combobox.WithLogger(logger),
		combobox.WithListOptions(listOptions(c.config, c.Name(), logger, zones)...),
	)

	if _, err := c.run(ctx, m, stdout); err != nil {
		return err
	}
	value, ok := m.combo.Selected()
	if !ok {
		return ErrNoSelection
	}
	logger.Info("combo: selected", "value", value)
	_, _ = fmt.Fprintln(stdout, value)
	return nil
}

// catalogLoader serves combo box pages from cat.
func catalogLoader(cat *catalog.Catalog, size int) combobox.Loader {
	return func(ctx context.Context, query string, page int) ([]listbox.Section, bool, error) {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		sections, more := cat.Page(query, page, size)
		return sections, more, nil
	}
}

// comboModel is the program model behind combo.
type comboModel struct {
	combo *combobox.Model
	zones *zone.Manager
	help  help.Model
	quit  key.Binding
	done  bool
}

func newComboModel(loader combobox.Loader, zones *zone.Manager, opts ...combobox.Option) *comboModel {
	m := &comboModel{
		zones: zones,
		help:  help.New(),
		quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
	opts = append(opts, combobox.WithOnSelect(func(string) { m.done = true }))
	m.combo = combobox.New(loader, opts...)
	return m
}

func (m *comboModel) Init() tea.Cmd { return m.combo.Init() }

func (m *comboModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.combo.List().SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		if key.Matches(msg, m.quit) {
			return m, tea.Quit
		}
	case tea.FocusMsg:
		return m, m.combo.Focus()
	case tea.BlurMsg:
		m.combo.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.combo, cmd = m.combo.Update(msg)
	if m.done {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *comboModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	if m.zones != nil {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

func (m *comboModel) render() string {
	s := lipgloss.JoinVertical(lipgloss.Left,
		m.combo.View(),
		m.help.View(appKeys{list: m.combo.List().KeyMap(), quit: m.quit}),
	)
	if m.zones != nil {
		s = m.zones.Scan(s)
	}
	return s
}
