package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/listbox/internal/catalog"
	"github.com/joeycumines/listbox/internal/config"
	"github.com/joeycumines/listbox/internal/listbox"
)

// ErrNoSelection is returned when an interactive command exits without a
// selection.
var ErrNoSelection = errors.New("no option selected")

// PickCommand shows a catalog as a standalone listbox and prints the
// selected value.
type PickCommand struct {
	*BaseCommand
	config *config.Config

	catalog  catalogFlags
	log      logFlags
	label    string
	height   int
	keyboard bool

	run      programRunner
	terminal func(io.Writer) bool
}

// NewPickCommand creates a new pick command.
func NewPickCommand(cfg *config.Config) *PickCommand {
	return &PickCommand{
		BaseCommand: NewBaseCommand(
			"pick",
			"Choose an option from a catalog and print its value",
			"pick [options]",
		),
		config:   cfg,
		run:      runProgram,
		terminal: isTerminal,
	}
}

// SetupFlags configures the flags for the pick command.
func (c *PickCommand) SetupFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.catalog.path, "catalog", "", "Catalog file (default: catalog.file)")
	fs.StringVar(&c.catalog.disabledWhen, "disabled-when", "", "expr predicate disabling matching options (default: catalog.disabled-when)")
	fs.StringVar(&c.label, "label", "", "Accessible label for the list (default: [pick] label, then listbox.label)")
	fs.IntVar(&c.height, "height", -1, "Visible list lines, 0 for all (default: listbox.height)")
	fs.BoolVar(&c.keyboard, "keyboard", false, "Keep keyboard navigation armed while the terminal is unfocused")
	c.log.register(fs)
}

// Execute runs the picker.
func (c *PickCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if err := rejectArgs(args, stderr); err != nil {
		return err
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

	if !c.terminal(stdout) {
		return printCatalog(stdout, cat)
	}

	zones := newZones(c.config, c.Name())
	if zones != nil {
		defer zones.Close()
	}
	opts := listOptions(c.config, c.Name(), logger, zones)
	if c.height >= 0 {
		opts = append(opts, listbox.WithHeight(c.height))
	}
	if c.keyboard {
		opts = append(opts, listbox.WithKeyboardControl(true))
	}
	m := newPickModel(cat.Sections(), c.resolveLabel(), zones, opts...)

	if _, err := c.run(context.Background(), m, stdout); err != nil {
		return err
	}
	value, ok := m.Selected()
	if !ok {
		return ErrNoSelection
	}
	logger.Info("pick: selected", "value", value)
	_, _ = fmt.Fprintln(stdout, value)
	return nil
}

func (c *PickCommand) resolveLabel() string {
	if c.label != "" {
		return c.label
	}
	schema := config.DefaultSchema()
	if label := schema.ResolveCommand(c.config, c.Name(), "label"); label != "" {
		return label
	}
	return schema.ResolveCommand(c.config, c.Name(), "listbox.label")
}

// printCatalog writes the catalog as plain text, one option per line.
func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	section := ""
	for _, e := range cat.Entries() {
		if e.Section != section {
			section = e.Section
			if section != "" {
				_, _ = fmt.Fprintf(tw, "[%s]\n", section)
			}
		}
		state := ""
		if e.Disabled {
			state = "(disabled)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Value, e.Label, state)
	}
	return tw.Flush()
}

var titleStyle = lipgloss.NewStyle().Bold(true)

// appKeys combines the list's bindings with quit for the help line.
type appKeys struct {
	list listbox.KeyMap
	quit key.Binding
}

func (k appKeys) ShortHelp() []key.Binding {
	return append(k.list.ShortHelp(), k.quit)
}

func (k appKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// pickModel is the program model behind pick: a titled standalone list
// that quits once an option is selected.
type pickModel struct {
	list     *listbox.Model
	zones    *zone.Manager
	help     help.Model
	quit     key.Binding
	title    string
	selected string
}

func newPickModel(sections []listbox.Section, title string, zones *zone.Manager, opts ...listbox.Option) *pickModel {
	m := &pickModel{
		zones: zones,
		help:  help.New(),
		quit:  key.NewBinding(key.WithKeys("esc", "ctrl+c", "q"), key.WithHelp("esc", "quit")),
		title: title,
	}
	opts = append(opts,
		listbox.WithAccessibilityLabel(title),
		listbox.WithOnSelect(func(value string) { m.selected = value }),
	)
	m.list = listbox.New(opts...)
	m.list.SetSections(sections)
	// The program starts with the terminal focused.
	m.list.Focus()
	return m
}

// Selected returns the chosen value.
func (m *pickModel) Selected() (string, bool) { return m.selected, m.selected != "" }

func (m *pickModel) Init() tea.Cmd { return m.list.Init() }

func (m *pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyPressMsg:
		if key.Matches(msg, m.quit) {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.selected != "" {
		return m, tea.Quit
	}
	return m, cmd
}

func (m *pickModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	if m.zones != nil {
		v.MouseMode = tea.MouseModeCellMotion
	}
	return v
}

func (m *pickModel) render() string {
	s := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.title),
		m.list.View(),
		m.help.View(appKeys{list: m.list.KeyMap(), quit: m.quit}),
	)
	if m.zones != nil {
		s = m.zones.Scan(s)
	}
	return s
}
