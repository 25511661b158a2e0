package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/listbox/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	t.Setenv(config.EnvConfigPath, path)
	return path
}

func TestRun(t *testing.T) {
	isolate(t)

	for _, tc := range []struct {
		name    string
		args    []string
		wantErr bool
		want    string
	}{
		{name: "no command shows help", args: nil, want: "Available commands:"},
		{name: "help flag", args: []string{"--help"}, want: "Available commands:"},
		{name: "short help flag", args: []string{"-h"}, want: "Available commands:"},
		{name: "help command", args: []string{"help", "combo"}, want: "Command: combo"},
		{name: "version", args: []string{"version"}, want: "listbox version " + version},
		{name: "command flag help", args: []string{"pick", "-h"}},
		{name: "unknown command", args: []string{"nonexistent"}, wantErr: true},
		{name: "bad flag", args: []string{"pick", "--nope"}, wantErr: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tc.args, &stdout, &stderr)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout.String(), tc.want)
		})
	}
}

func TestRunRegistersAllCommands(t *testing.T) {
	t.Parallel()
	registry, _ := newRegistry(config.NewConfig(), "")
	assert.Equal(t,
		[]string{"combo", "completion", "config", "help", "init", "pick", "version"},
		registry.List())
}

func TestRunConfigRoundTrip(t *testing.T) {
	path := isolate(t)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"config", "listbox.height", "4"}, &stdout, &stderr))
	require.NoError(t, run([]string{"config", "listbox.height"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "listbox.height: 4\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "listbox.height 4", string(bytes.TrimSpace(data)))
}

func TestRunPickPrintsCatalog(t *testing.T) {
	isolate(t)
	catalogPath := filepath.Join(t.TempDir(), "catalog")
	require.NoError(t, os.WriteFile(catalogPath, []byte("[Fruit]\napple Apple\n"), 0644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"pick", "--catalog", catalogPath}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "[Fruit]\napple")
}
