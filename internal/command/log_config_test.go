package command

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/listbox/internal/config"
	"github.com/joeycumines/listbox/internal/logging"
)

func TestResolveLogConfig_Defaults(t *testing.T) {
	t.Setenv("LISTBOX_LOG_FILE", "")
	t.Setenv("LISTBOX_LOG_LEVEL", "")
	os.Unsetenv("LISTBOX_LOG_FILE")
	os.Unsetenv("LISTBOX_LOG_LEVEL")

	opts, err := resolveLogConfig(logFlags{}, config.NewConfig(), "pick")
	require.NoError(t, err)
	assert.Equal(t, logging.Options{
		Level:     slog.LevelInfo,
		MaxSizeMB: logging.DefaultMaxSizeMB,
		MaxFiles:  logging.DefaultMaxFiles,
	}, opts)
}

func TestResolveLogConfig_FlagOverridesConfig(t *testing.T) {
	t.Setenv("LISTBOX_LOG_FILE", "")
	t.Setenv("LISTBOX_LOG_LEVEL", "")
	os.Unsetenv("LISTBOX_LOG_FILE")
	os.Unsetenv("LISTBOX_LOG_LEVEL")

	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "warn")
	cfg.SetGlobalOption("log.file", "/should/not/use/this")
	cfg.SetGlobalOption("log.max-size-mb", "3")
	cfg.SetCommandOption("pick", "log.max-files", "0")

	opts, err := resolveLogConfig(logFlags{file: "/tmp/x.log", level: "debug"}, cfg, "pick")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, opts.Level)
	assert.Equal(t, "/tmp/x.log", opts.File)
	assert.Equal(t, 3, opts.MaxSizeMB)
	assert.Equal(t, 0, opts.MaxFiles, "zero backups is allowed")
}

func TestResolveLogConfig_ConfigAndEnv(t *testing.T) {
	cfg := config.NewConfig()
	cfg.SetGlobalOption("log.level", "error")
	cfg.SetGlobalOption("log.file", "~/listbox.log")
	cfg.SetGlobalOption("log.max-size-mb", "-1")

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LISTBOX_LOG_FILE", "")
	os.Unsetenv("LISTBOX_LOG_FILE")
	t.Setenv("LISTBOX_LOG_LEVEL", "warn")

	opts, err := resolveLogConfig(logFlags{}, cfg, "combo")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, opts.Level, "env beats config")
	assert.Equal(t, filepath.Join(home, "listbox.log"), opts.File)
	assert.Equal(t, logging.DefaultMaxSizeMB, opts.MaxSizeMB)
}

func TestResolveLogConfig_InvalidLevel(t *testing.T) {
	t.Parallel()
	_, err := resolveLogConfig(logFlags{level: "loud"}, config.NewConfig(), "pick")
	assert.EqualError(t, err, "invalid log level: loud")
}

func TestOpenLogger_WritesFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "listbox.log")

	logger, closer, err := openLogger(logFlags{file: path, level: "debug"}, config.NewConfig(), "pick")
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "a", "b"), expandHome("~/a/b"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
	assert.Equal(t, "", expandHome(""))
}
