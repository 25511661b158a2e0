// Package catalog loads option lists for the listbox from plain text files.
//
// The format follows the config file: one "value label words..." entry per
// line, "[Title]" starts a section, "#" starts a comment, and
// "value.disabled true" disables a previously defined value.
//
//	# fruit.catalog
//	[Fruit]
//	apple Apple
//	banana Banana
//	banana.disabled true
//
//	[Vegetables]
//	leek Leek
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/joeycumines/listbox/internal/listbox"
)

// ErrEmpty is returned when a catalog defines no entries.
var ErrEmpty = errors.New("catalog defines no entries")

const disabledSuffix = ".disabled"

// Entry is one option in a catalog.
type Entry struct {
	Section  string
	Value    string
	Label    string
	Disabled bool
}

// Catalog is an ordered set of entries with unique values.
type Catalog struct {
	entries []Entry
	index   map[string]int
	// Warnings holds problems that did not stop parsing.
	Warnings []string
}

// Load reads a catalog file. Symlinks are rejected, like config files.
func Load(path string) (*Catalog, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in catalog path: %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse reads a catalog. It returns ErrEmpty if no entries are defined.
func Parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{index: make(map[string]int)}
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(strings.Trim(line, "[]"))
			continue
		}

		name, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		if value, ok := strings.CutSuffix(name, disabledSuffix); ok && value != "" {
			if err := c.setDisabled(value, rest); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			continue
		}

		if _, dup := c.index[name]; dup {
			c.addWarning("line %d: duplicate value %q ignored", lineNo, name)
			continue
		}
		label := rest
		if label == "" {
			label = name
		}
		c.Add(Entry{Section: section, Value: name, Label: label})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalog: %w", err)
	}
	if len(c.entries) == 0 {
		return nil, ErrEmpty
	}
	return c, nil
}

func (c *Catalog) setDisabled(value, raw string) error {
	i, ok := c.index[value]
	if !ok {
		c.addWarning("%s%s refers to an undefined value", value, disabledSuffix)
		return nil
	}
	disabled := true
	if raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s%s: %q", value, disabledSuffix, raw)
		}
		disabled = b
	}
	c.entries[i].Disabled = disabled
	return nil
}

func (c *Catalog) addWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.Warnings = append(c.Warnings, msg)
	slog.Warn("[Catalog] " + msg)
}

// Add appends an entry. An entry whose value is already present replaces
// the existing one in place.
func (c *Catalog) Add(e Entry) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[e.Value]; ok {
		c.entries[i] = e
		return
	}
	c.index[e.Value] = len(c.entries)
	c.entries = append(c.entries, e)
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the entries in order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup returns the entry for value.
func (c *Catalog) Lookup(value string) (Entry, bool) {
	i, ok := c.index[value]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Sections returns every entry, grouped into sections in file order.
func (c *Catalog) Sections() []listbox.Section {
	return group(c.entries)
}

// Page returns the page-th block of size entries matching query, and
// whether more entries follow. Matching is a case-insensitive substring
// test on value and label; an empty query matches everything. A size of
// zero or less returns every match on page 0.
func (c *Catalog) Page(query string, page, size int) ([]listbox.Section, bool) {
	matched := c.Filter(query)
	if size <= 0 {
		if page > 0 {
			return nil, false
		}
		return group(matched), false
	}
	start := min(max(page, 0)*size, len(matched))
	end := min(start+size, len(matched))
	return group(matched[start:end]), end < len(matched)
}

// Filter returns the entries matching query, as described for Page.
func (c *Catalog) Filter(query string) []Entry {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return c.Entries()
	}
	var out []Entry
	for _, e := range c.entries {
		if strings.Contains(fold.String(e.Value), q) || strings.Contains(fold.String(e.Label), q) {
			out = append(out, e)
		}
	}
	return out
}

// group converts entries to sections, starting a new section whenever the
// section title changes.
func group(entries []Entry) []listbox.Section {
	var out []listbox.Section
	for _, e := range entries {
		if len(out) == 0 || out[len(out)-1].Title != e.Section {
			out = append(out, listbox.Section{Title: e.Section})
		}
		last := &out[len(out)-1]
		last.Items = append(last.Items, listbox.Item{Value: e.Value, Label: e.Label, Disabled: e.Disabled})
	}
	return out
}
