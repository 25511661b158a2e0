package catalog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// PredicateEnv is the environment a disabled predicate is evaluated in.
type PredicateEnv struct {
	Value   string `expr:"value"`
	Label   string `expr:"label"`
	Section string `expr:"section"`
	Index   int    `expr:"index"`
}

// Predicate is a compiled boolean expression over an entry.
type Predicate struct {
	source  string
	program *vm.Program
}

// CompilePredicate compiles an expr-lang expression such as
//
//	section == "Fruit" && value startsWith "b"
//
// The expression must evaluate to a bool.
func CompilePredicate(source string) (*Predicate, error) {
	program, err := expr.Compile(source,
		expr.Env(PredicateEnv{}),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid predicate %q: %w", source, err)
	}
	return &Predicate{source: source, program: program}, nil
}

// String returns the expression source.
func (p *Predicate) String() string { return p.source }

// Match evaluates the predicate for entry e at position index.
func (p *Predicate) Match(e Entry, index int) (bool, error) {
	out, err := expr.Run(p.program, PredicateEnv{
		Value:   e.Value,
		Label:   e.Label,
		Section: e.Section,
		Index:   index,
	})
	if err != nil {
		return false, fmt.Errorf("predicate %q failed for %q: %w", p.source, e.Value, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q returned %T, not bool", p.source, out)
	}
	return b, nil
}

// DisableWhere disables every entry matching the expression and returns
// how many entries were disabled. Entries already disabled stay disabled.
func (c *Catalog) DisableWhere(source string) (int, error) {
	p, err := CompilePredicate(source)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range c.entries {
		ok, err := p.Match(c.entries[i], i)
		if err != nil {
			return n, err
		}
		if ok && !c.entries[i].Disabled {
			c.entries[i].Disabled = true
			n++
		}
	}
	return n, nil
}
