package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SetKeyInFile sets key to value in the config file at path, keeping
// comments and layout. section names a [section] block; "" is the global
// block before the first header. The option is checked against
// DefaultSchema first, so unknown keys and malformed values never reach the
// file.
//
// An existing line for key in the block is replaced in place. Otherwise the
// option goes after the block's last line, and a missing section is
// appended at the end of the file.
func SetKeyInFile(path, section, key, value string) error {
	if err := DefaultSchema().Check(section, key, value); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}
	var lines []string
	if len(data) > 0 {
		lines = strings.Split(string(data), "\n")
	}

	result := strings.Join(setOption(lines, section, key, formatOption(key, value)), "\n")
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return atomicWriteFile(path, []byte(result), 0644)
}

func formatOption(key, value string) string {
	if value == "" {
		return key
	}
	return key + " " + value
}

// sectionHeader returns the name of a "[name]" line.
func sectionHeader(line string) (string, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return "", false
	}
	return strings.TrimSpace(strings.Trim(line, "[]")), true
}

// setOption writes line for key into section. Repeated headers for the same
// section are treated as one block.
func setOption(lines []string, section, key, line string) []string {
	current := ""
	// end is the index just past the block's last non-blank line, or -1
	// while the section has not been seen.
	end := -1
	if section == "" {
		end = 0
	}
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if name, ok := sectionHeader(trimmed); ok {
			current = name
			if current == section {
				end = i + 1
			}
			continue
		}
		if current != section || trimmed == "" {
			continue
		}
		end = i + 1
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = line
			return lines
		}
	}

	if end >= 0 {
		return slices.Insert(lines, end, line)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return append(lines, "["+section+"]", line)
}

// atomicWriteFile writes data to a temporary file in the same directory and
// renames it over path, so readers never observe a partial file.
func atomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}
