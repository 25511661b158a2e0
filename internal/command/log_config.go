package command

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeycumines/listbox/internal/config"
	"github.com/joeycumines/listbox/internal/logging"
)

// logFlags are the logging flags shared by interactive commands.
type logFlags struct {
	file  string
	level string
}

func (f *logFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.file, "log-file", "", "Write JSON logs to this file (default: log.file)")
	fs.StringVar(&f.level, "log-level", "", "Log level: debug, info, warn, error (default: log.level)")
}

// resolveLogConfig resolves logging options for command. Flags take
// precedence, then the config file (with env overrides), then defaults.
func resolveLogConfig(flags logFlags, cfg *config.Config, command string) (logging.Options, error) {
	schema := config.DefaultSchema()
	var opts logging.Options

	levelStr := flags.level
	if levelStr == "" {
		levelStr = schema.ResolveCommand(cfg, command, "log.level")
	}
	level, err := logging.ParseLevel(levelStr)
	if err != nil {
		return opts, err
	}
	opts.Level = level

	opts.File = flags.file
	if opts.File == "" {
		opts.File = schema.ResolveCommand(cfg, command, "log.file")
	}
	opts.File = expandHome(opts.File)

	opts.MaxSizeMB = schema.ResolveInt(cfg, command, "log.max-size-mb")
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = logging.DefaultMaxSizeMB
	}
	// Zero max-files is valid: the file is truncated on rotation.
	opts.MaxFiles = schema.ResolveInt(cfg, command, "log.max-files")
	if opts.MaxFiles < 0 {
		opts.MaxFiles = logging.DefaultMaxFiles
	}

	return opts, nil
}

// openLogger resolves and opens the logger for command. The caller must
// close the returned io.Closer.
func openLogger(flags logFlags, cfg *config.Config, command string) (*slog.Logger, io.Closer, error) {
	opts, err := resolveLogConfig(flags, cfg, command)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(opts)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
