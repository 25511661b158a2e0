package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone"
	"golang.org/x/term"

	"github.com/joeycumines/listbox/internal/catalog"
	"github.com/joeycumines/listbox/internal/config"
	"github.com/joeycumines/listbox/internal/listbox"
)

// programRunner runs a Bubble Tea model to completion and returns the final
// model. Tests replace it to drive models without a terminal.
type programRunner func(ctx context.Context, model tea.Model, stdout io.Writer) (tea.Model, error)

// runProgram runs model on the terminal behind stdout until it quits or the
// process is interrupted.
func runProgram(ctx context.Context, model tea.Model, stdout io.Writer) (tea.Model, error) {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(stdout))
	final, err := p.Run()
	if err != nil {
		return final, fmt.Errorf("failed to run program: %w", err)
	}
	return final, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// catalogFlags are the catalog flags shared by pick and combo.
type catalogFlags struct {
	path         string
	disabledWhen string
}

// loadCatalog loads the catalog named by the flags or the config, and
// applies the disabled predicate.
func loadCatalog(flags catalogFlags, cfg *config.Config, command string, logger *slog.Logger) (*catalog.Catalog, error) {
	schema := config.DefaultSchema()

	path := flags.path
	if path == "" {
		path = schema.ResolveCommand(cfg, command, "catalog.file")
	}
	if path == "" {
		return nil, fmt.Errorf("no catalog: pass --catalog or set catalog.file")
	}
	path = expandHome(path)

	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}

	predicate := flags.disabledWhen
	if predicate == "" {
		predicate = schema.ResolveCommand(cfg, command, "catalog.disabled-when")
	}
	if predicate != "" {
		n, err := cat.DisableWhere(predicate)
		if err != nil {
			return nil, fmt.Errorf("catalog.disabled-when: %w", err)
		}
		logger.Debug("catalog: disabled by predicate", "predicate", predicate, "count", n)
	}

	logger.Info("catalog: loaded", "path", path, "entries", cat.Len(), "warnings", len(cat.Warnings))
	return cat, nil
}

// listOptions returns the listbox options configured for command.
func listOptions(cfg *config.Config, command string, logger *slog.Logger, zones *zone.Manager) []listbox.Option {
	schema := config.DefaultSchema()
	opts := []listbox.Option{
		listbox.WithLogger(logger),
		listbox.WithHeight(schema.ResolveInt(cfg, command, "listbox.height")),
		listbox.WithWidth(schema.ResolveInt(cfg, command, "listbox.width")),
		listbox.WithScrollDebounce(schema.ResolveDuration(cfg, command, "listbox.scroll-debounce")),
		listbox.WithKeyboardControl(schema.ResolveBool(cfg, command, "listbox.keyboard-control")),
	}
	if schema.ResolveCommand(cfg, command, "color") == "never" {
		opts = append(opts, listbox.WithStyles(listbox.PlainStyles()))
	}
	if zones != nil {
		opts = append(opts, listbox.WithZones(zones))
	}
	return opts
}

// newZones returns a zone manager when mouse selection is enabled.
func newZones(cfg *config.Config, command string) *zone.Manager {
	if !config.DefaultSchema().ResolveBool(cfg, command, "listbox.mouse") {
		return nil
	}
	return zone.New()
}
