package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read config file: %v", err)
	}
	return string(data)
}

func TestSetKeyInFile_NewKeyEmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")

	if err := SetKeyInFile(path, "", "listbox.height", "8"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	if got := strings.TrimSpace(readFile(t, path)); got != "listbox.height 8" {
		t.Fatalf("expected 'listbox.height 8', got %q", got)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath returned error: %v", err)
	}
	if v, ok := cfg.GetGlobalOption("listbox.height"); !ok || v != "8" {
		t.Fatalf("expected listbox.height=8 after round-trip, got %q exists=%v", v, ok)
	}
}

func TestSetKeyInFile_UpdateExistingKey(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "# listbox settings\ncolor auto\nlistbox.label Fruit\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	if err := SetKeyInFile(path, "", "color", "never"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	want := "# listbox settings\ncolor never\nlistbox.label Fruit\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSetKeyInFile_InsertsBeforeFirstSection(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "color auto\n\n[combo]\nlabel Search\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	if err := SetKeyInFile(path, "", "listbox.mouse", "false"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	content := readFile(t, path)
	keyIdx := strings.Index(content, "listbox.mouse false")
	sectionIdx := strings.Index(content, "[combo]")
	if keyIdx < 0 || sectionIdx < 0 || keyIdx > sectionIdx {
		t.Fatalf("expected the key before [combo], got %q", content)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath returned error: %v", err)
	}
	if v, _ := cfg.GetCommandOption("combo", "label"); v != "Search" {
		t.Fatalf("expected section option preserved, got %q", v)
	}
	if v, _ := cfg.GetCommandOption("combo", "listbox.mouse"); v != "false" {
		t.Fatalf("expected global fallback listbox.mouse=false, got %q", v)
	}
}

func TestSetKeyInFile_IgnoresSectionKeys(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "[pick]\nlistbox.label Pick one\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	if err := SetKeyInFile(path, "", "listbox.label", "Global"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	want := "listbox.label Global\n[pick]\nlistbox.label Pick one\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSetKeyInFile_EmptyValue(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	if err := SetKeyInFile(path, "", "listbox.label", ""); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}
	if got := strings.TrimSpace(readFile(t, path)); got != "listbox.label" {
		t.Fatalf("expected bare key, got %q", got)
	}
}

func TestSetKeyInFile_NoTempFilesLeft(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "config")

	for _, kv := range [][2]string{
		{"color", "auto"},
		{"listbox.height", "6"},
		{"color", "always"},
	} {
		if err := SetKeyInFile(path, "", kv[0], kv[1]); err != nil {
			t.Fatalf("SetKeyInFile(%s) returned error: %v", kv[0], err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "config" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("expected only the config file, got %v", names)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Fatalf("expected mode 0644, got %v", perm)
	}
}

func TestSetKeyInFile_Sections(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "color auto\n\n[pick]\nlabel Pick one\n# trailing note\n\n[combo]\nlabel Search\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	steps := []struct{ section, key, value string }{
		{"combo", "label", "Find"},
		{"pick", "listbox.height", "4"},
		{"combo", "placeholder", "Type here"},
	}
	for _, st := range steps {
		if err := SetKeyInFile(path, st.section, st.key, st.value); err != nil {
			t.Fatalf("SetKeyInFile(%s, %s) returned error: %v", st.section, st.key, err)
		}
	}

	want := "color auto\n\n[pick]\nlabel Pick one\n# trailing note\nlistbox.height 4\n\n[combo]\nlabel Find\nplaceholder Type here\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSetKeyInFile_AppendsMissingSection(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	if err := os.WriteFile(path, []byte("color auto\n\n"), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}
	if err := SetKeyInFile(path, "pick", "label", "Fruit"); err != nil {
		t.Fatalf("SetKeyInFile returned error: %v", err)
	}

	if got, want := readFile(t, path), "color auto\n\n[pick]\nlabel Fruit\n"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath returned error: %v", err)
	}
	if cfg.HasWarnings() {
		t.Fatalf("expected a valid file, got warnings %v", cfg.Warnings)
	}
}

func TestSetKeyInFile_RejectsInvalidOptions(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")

	initial := "color auto\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatalf("failed to write initial config: %v", err)
	}

	for _, tc := range []struct {
		section, key, value, wantErr string
	}{
		{"", "nope", "1", `unknown option: "nope"`},
		{"pick", "placeholder", "x", `unknown option for [pick]: "placeholder"`},
		{"", "listbox.height", "tall", `option "listbox.height": expected int, got "tall"`},
		{"combo", "listbox.mouse", "sometimes", `option "listbox.mouse": expected bool, got "sometimes"`},
	} {
		err := SetKeyInFile(path, tc.section, tc.key, tc.value)
		if err == nil || err.Error() != tc.wantErr {
			t.Errorf("SetKeyInFile(%q, %q, %q): expected error %q, got %v", tc.section, tc.key, tc.value, tc.wantErr, err)
		}
	}

	if got := readFile(t, path); got != initial {
		t.Fatalf("expected the file untouched, got %q", got)
	}
}
