package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRegisterAndLookup(t *testing.T) {
	t.Parallel()
	s := NewSchema()
	s.RegisterAll([]ConfigOption{
		{Key: "a", Type: TypeBool, Default: "true"},
		{Key: "b", Section: "cmd", Type: TypeInt},
	})

	require.NotNil(t, s.Lookup("", "a"))
	assert.Nil(t, s.Lookup("", "b"))
	require.NotNil(t, s.Lookup("cmd", "b"))
	assert.Nil(t, s.Lookup("other", "b"))

	assert.True(t, s.IsKnown("cmd", "a"), "global keys are known in every section")
	assert.False(t, s.IsKnown("", "b"))
	assert.Equal(t, []string{"cmd"}, s.Sections())
	assert.Len(t, s.GlobalOptions(), 1)
	assert.Len(t, s.SectionOptions("cmd"), 1)

	s.Register(ConfigOption{Key: "a", Type: TypeString, Default: "x"})
	assert.Equal(t, "x", s.Lookup("", "a").Default, "last registration wins")
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()
	c := NewConfig()
	c.SetGlobalOption("listbox.scroll-debounce", "soon")
	c.SetGlobalOption("listbox.keyboard-control", "maybe")
	c.SetGlobalOption("listbox.height", "5")
	c.SetCommandOption("combo", "placeholder", "anything")
	c.SetCommandOption("combo", "log.max-files", "many")
	c.SetCommandOption("pick", "nope", "1")

	issues := ValidateConfig(c, s)
	require.Len(t, issues, 4)
	joined := strings.Join(issues, "\n")
	assert.Contains(t, joined, `global option "listbox.scroll-debounce": expected duration`)
	assert.Contains(t, joined, `global option "listbox.keyboard-control": expected bool`)
	assert.Contains(t, joined, `option "log.max-files" in [combo]: expected int`)
	assert.Contains(t, joined, `unknown option for command "pick": "nope"`)
}

func TestValidateType(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		typ   OptionType
		value string
		ok    bool
	}{
		{TypeString, "", true},
		{TypeBool, "on", true},
		{TypeBool, "sometimes", false},
		{TypeInt, "-3", true},
		{TypeInt, "3.5", false},
		{TypeDuration, "50ms", true},
		{TypeDuration, "50", false},
		{"weird", "x", false},
	} {
		err := validateType(tc.typ, tc.value)
		assert.Equal(t, tc.ok, err == nil, "%s %q: %v", tc.typ, tc.value, err)
	}
}

func TestResolvePrecedence(t *testing.T) {
	s := DefaultSchema()
	c := NewConfig()

	assert.Equal(t, "info", s.Resolve(c, "log.level"), "schema default")

	c.SetGlobalOption("log.level", "warn")
	assert.Equal(t, "warn", s.Resolve(c, "log.level"), "config beats default")

	t.Setenv("LISTBOX_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", s.Resolve(c, "log.level"), "env beats config")

	assert.Equal(t, "", s.Resolve(c, "not.registered"))
	assert.Equal(t, "10", s.Resolve(nil, "log.max-size-mb"), "a nil config resolves defaults")
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()
	c := NewConfig()

	assert.Equal(t, "Search", s.ResolveCommand(c, "combo", "label"), "section default")
	assert.Equal(t, "", s.ResolveCommand(c, "pick", "label"))

	c.SetCommandOption("combo", "label", "Fruit")
	assert.Equal(t, "Fruit", s.ResolveCommand(c, "combo", "label"))

	c.SetGlobalOption("listbox.height", "4")
	c.SetCommandOption("pick", "listbox.height", "7")
	assert.Equal(t, "7", s.ResolveCommand(c, "pick", "listbox.height"))
	assert.Equal(t, "4", s.ResolveCommand(c, "combo", "listbox.height"))
}

func TestTypedResolve(t *testing.T) {
	t.Parallel()
	s := DefaultSchema()
	c := NewConfig()

	assert.Equal(t, 50*time.Millisecond, s.ResolveDuration(c, "", "listbox.scroll-debounce"))
	assert.Equal(t, 10, s.ResolveInt(c, "", "listbox.height"))
	assert.False(t, s.ResolveBool(c, "", "listbox.keyboard-control"))
	assert.True(t, s.ResolveBool(c, "", "listbox.mouse"))

	c.SetGlobalOption("listbox.scroll-debounce", "120ms")
	c.SetGlobalOption("listbox.height", "not-a-number")
	c.SetGlobalOption("listbox.keyboard-control", "yes")
	assert.Equal(t, 120*time.Millisecond, s.ResolveDuration(c, "", "listbox.scroll-debounce"))
	assert.Equal(t, 10, s.ResolveInt(c, "", "listbox.height"), "malformed values use the default")
	assert.True(t, s.ResolveBool(c, "", "listbox.keyboard-control"))
}

func TestFormatHelp(t *testing.T) {
	t.Parallel()
	help := DefaultSchema().FormatHelp()
	assert.True(t, strings.HasPrefix(help, "Global Options:\n"))
	assert.Contains(t, help, "listbox.scroll-debounce")
	assert.Contains(t, help, "type: duration, default: 50ms")
	assert.Contains(t, help, "env: LISTBOX_LOG_FILE")
	assert.Contains(t, help, "[combo] Options:")
	assert.Contains(t, help, "[pick] Options:")

	assert.Empty(t, NewSchema().FormatHelp())
}
