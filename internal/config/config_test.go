package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/listbox/internal/testutil"
)

func TestConfigParsing(t *testing.T) {
	configContent := `# Global options
color auto
listbox.height 12

[pick]
label Choose a fruit

[combo]
placeholder Start typing`

	config, err := LoadFromReader(strings.NewReader(configContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if value, ok := config.GetGlobalOption("color"); !ok || value != "auto" {
		t.Errorf("Expected color=auto, got %s (exists: %v)", value, ok)
	}

	if value, ok := config.GetCommandOption("pick", "label"); !ok || value != "Choose a fruit" {
		t.Errorf("Expected pick.label=Choose a fruit, got %s (exists: %v)", value, ok)
	}

	if value, ok := config.GetCommandOption("combo", "placeholder"); !ok || value != "Start typing" {
		t.Errorf("Expected combo.placeholder=Start typing, got %s (exists: %v)", value, ok)
	}

	// Fall back to global options
	if value, ok := config.GetCommandOption("pick", "listbox.height"); !ok || value != "12" {
		t.Errorf("Expected pick listbox.height=12 (fallback), got %s (exists: %v)", value, ok)
	}

	if value, ok := config.GetCommandOption("nonexistent", "option"); ok {
		t.Errorf("Expected nonexistent option to not exist, but got %s", value)
	}

	if config.HasWarnings() {
		t.Errorf("Expected no warnings, got %v", config.Warnings)
	}
}

func TestEmptyConfig(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Failed to load empty config: %v", err)
	}
	if len(config.Global) != 0 || len(config.Commands) != 0 {
		t.Errorf("Expected empty config, got %+v", config)
	}
}

func TestConfigWarnings(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader("listbox.height tall\nmystery 1\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if len(config.Warnings) != 2 {
		t.Fatalf("Expected 2 warnings, got %v", config.Warnings)
	}
	if !strings.Contains(config.Warnings[0], "expected int") {
		t.Errorf("Expected type warning first, got %q", config.Warnings[0])
	}
	if !strings.Contains(config.Warnings[1], "unknown global option") {
		t.Errorf("Expected unknown option warning, got %q", config.Warnings[1])
	}
}

func TestOptionWithoutValue(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader("listbox.keyboard-control\n"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if v, ok := config.GetGlobalOption("listbox.keyboard-control"); !ok || v != "" {
		t.Errorf("Expected empty value, got %q (exists: %v)", v, ok)
	}
}

func TestRepeatedSectionsMerge(t *testing.T) {
	config, err := LoadFromReader(strings.NewReader(`[pick]
label First

[empty]

[pick]
label Second
listbox.height 4
`))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if got := config.Commands["pick"]; len(got) != 2 || got["label"] != "Second" || got["listbox.height"] != "4" {
		t.Errorf("Expected merged [pick] section, got %v", got)
	}
	if _, ok := config.Commands["empty"]; ok {
		t.Errorf("Expected a section without options to be omitted")
	}
}

func TestSetGlobalAndCommandOptions(t *testing.T) {
	config := NewConfig()
	config.SetGlobalOption("color", "never")
	config.SetCommandOption("combo", "label", "Fruit")

	if v, _ := config.GetGlobalOption("color"); v != "never" {
		t.Errorf("Expected color=never, got %q", v)
	}
	if v, _ := config.GetCommandOption("combo", "label"); v != "Fruit" {
		t.Errorf("Expected combo label=Fruit, got %q", v)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	config, err := LoadFromPath(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if len(config.Global) != 0 {
		t.Errorf("Expected empty config, got %v", config.Global)
	}
}

func TestLoadFromPathRejectsSymlink(t *testing.T) {
	testutil.SkipIfWindows(t, testutil.DetectPlatform(t), "symlink creation needs elevated privileges")
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.WriteFile(target, []byte("color never\n"), 0644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "config")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if _, err := LoadFromPath(link); err == nil || !strings.Contains(err.Error(), "symlink not allowed") {
		t.Fatalf("Expected symlink error, got %v", err)
	}
}

func TestLoadUsesConfigPathEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("listbox.label Fruit\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := config.GetGlobalOption("listbox.label"); v != "Fruit" {
		t.Errorf("Expected listbox.label=Fruit, got %q", v)
	}
}
