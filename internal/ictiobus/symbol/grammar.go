package symbol

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/util"
)

// Grammar is a named collection of symbols plus the name of the one to use
// as the root of a parse. It is built by repeated calls to Define, then
// made ready for use by a single call to Resolve.
type Grammar struct {
	defined map[string]*Symbol
	root    string
}

// NewGrammar returns an empty Grammar.
func NewGrammar() *Grammar {
	return &Grammar{defined: make(map[string]*Symbol)}
}

// Define registers sym under sym.Name. It is a Construction error for two
// symbols to share a Name.
func (g *Grammar) Define(sym *Symbol) error {
	if sym.Name == "" {
		return icterrors.Construction("", "symbol defined with no name")
	}
	if _, dup := g.defined[sym.Name]; dup {
		return icterrors.Construction(sym.Name, "symbol %q defined more than once", sym.Name)
	}
	g.defined[sym.Name] = sym
	return nil
}

// SetRoot names the symbol that Resolve and a parse call will start from.
func (g *Grammar) SetRoot(name string) {
	g.root = name
}

// Root returns the grammar's resolved root symbol. Resolve must have been
// called successfully first.
func (g *Grammar) Root() (*Symbol, error) {
	sym, ok := g.defined[g.root]
	if !ok {
		return nil, icterrors.Construction(g.root, "root symbol %q is not defined", g.root)
	}
	return sym, nil
}

// Lookup returns the symbol defined under name, if any.
func (g *Grammar) Lookup(name string) (*Symbol, bool) {
	sym, ok := g.defined[name]
	return sym, ok
}

// Resolve walks every defined symbol and replaces each Deferred reference in
// its Children with a direct pointer to the symbol it names. A name defined
// as a bare Deferred (a rule whose whole body is one reference) is first
// pointed straight at the symbol that reference names; the Deferred's own
// Reducer, if any, is not used. Resolve does not inspect tokens or reducers:
// a zero-length-matching token is only caught when the lexer first matches
// it. Resolve is idempotent-safe to call once; calling it twice is harmless
// but wasted work.
func (g *Grammar) Resolve() error {
	if _, ok := g.defined[g.root]; !ok {
		return icterrors.Construction(g.root, "root symbol %q is not defined", g.root)
	}

	for name, sym := range g.defined {
		target := sym
		for hops := 0; target.Kind == Deferred; hops++ {
			if hops > len(g.defined) {
				return icterrors.Construction(name, "symbol %q is defined only as a cycle of references", name)
			}
			next, ok := g.defined[target.Ref]
			if !ok {
				return icterrors.Construction(target.Ref, "symbol %q references undefined symbol %q", name, target.Ref)
			}
			target = next
		}
		g.defined[name] = target
	}

	visited := make(map[*Symbol]bool)
	for _, sym := range g.defined {
		if err := g.resolveChildren(sym, visited); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grammar) resolveChildren(sym *Symbol, visited map[*Symbol]bool) error {
	if visited[sym] {
		return nil
	}
	visited[sym] = true

	for i, child := range sym.Children {
		if child.Kind == Deferred {
			target, ok := g.defined[child.Ref]
			if !ok {
				return icterrors.Construction(child.Ref, "symbol %q references undefined symbol %q", sym.Name, child.Ref)
			}
			sym.Children[i] = target
			child = target
		}
		if err := g.resolveChildren(child, visited); err != nil {
			return err
		}
	}
	return nil
}

// ReachableTokens returns every distinct Token reachable from sym by
// descending through Sequence, Alternation, and Repetition children,
// following a resolved graph (no Deferred nodes remain). Cycles from
// recursive rules are handled with a visited set.
func ReachableTokens(sym *Symbol) []*lex.Token {
	seen := make(map[*Symbol]bool)
	seenTok := make(map[string]bool)
	var out []*lex.Token

	var stack util.Stack[*Symbol]
	stack.Push(sym)

	for !stack.Empty() {
		cur := stack.Pop()
		if seen[cur] {
			continue
		}
		seen[cur] = true

		if cur.Kind == Terminal {
			if !seenTok[cur.Token.ID()] {
				seenTok[cur.Token.ID()] = true
				out = append(out, cur.Token)
			}
			continue
		}

		for _, c := range cur.Children {
			if !seen[c] {
				stack.Push(c)
			}
		}
	}

	return out
}
