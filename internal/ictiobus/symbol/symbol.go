// Package symbol defines the grammar symbol graph: the immutable blueprint
// that the state package instantiates into a parse state tree. A Symbol is
// one of five kinds - Terminal, Sequence, Alternation, Repetition, or
// Deferred - matching the grammar's sum type. Deferred exists only until
// Grammar.Resolve runs; it lets a Sequence or Alternation reference a symbol
// by name before that symbol has been defined, which is how recursive rules
// are expressed.
package symbol

import (
	"fmt"

	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// Kind identifies which variant of the symbol sum type a Symbol is.
type Kind int

const (
	Terminal Kind = iota
	Sequence
	Alternation
	Repetition
	Deferred
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "Terminal"
	case Sequence:
		return "Sequence"
	case Alternation:
		return "Alternation"
	case Repetition:
		return "Repetition"
	case Deferred:
		return "Deferred"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reducer is a user-supplied function invoked during evaluation for every
// non-terminal symbol that defines one: values holds the already-reduced
// value of each of the node's children, in match order, and ctx is the
// context the parse call was given.
type Reducer func(values []any, ctx types.Context) any

// Unbounded is the sentinel value for Repetition.To meaning "no upper
// bound".
const Unbounded = -1

// Symbol is one node of the grammar's symbol graph.
type Symbol struct {
	Kind Kind

	// Name is this symbol's display name: the identifier it is registered
	// under in a Grammar, and the name used for it in trace output and
	// error messages. Every Symbol must have one.
	Name string

	// Token is set only when Kind is Terminal: the lexical definition this
	// symbol matches a single instance of.
	Token *lex.Token

	// Children holds the subordinate symbols: the sequence's elements in
	// order, the alternation's alternatives in declaration order, or, for a
	// Repetition, a single element holding the repeated symbol.
	Children []*Symbol

	// From and To bound a Repetition's match count, inclusive. To may be
	// Unbounded.
	From, To int

	// Reducer runs over this symbol's children's reduced values during
	// evaluation. nil for Terminal (which instead runs the token's
	// transform) and for a Deferred (which is never itself evaluated).
	Reducer Reducer

	// Ref names the symbol a Deferred stands in for. Meaningless on any
	// other Kind.
	Ref string
}

// Term returns a Terminal symbol matching a single instance of tok.
func Term(name string, tok *lex.Token) *Symbol {
	return &Symbol{Kind: Terminal, Name: name, Token: tok}
}

// Seq returns a Sequence symbol: children must all match, in order, for the
// sequence to match.
func Seq(name string, reducer Reducer, children ...*Symbol) *Symbol {
	return &Symbol{Kind: Sequence, Name: name, Children: children, Reducer: reducer}
}

// Alt returns an Alternation symbol: exactly one of children must match for
// the alternation to match.
func Alt(name string, reducer Reducer, children ...*Symbol) *Symbol {
	return &Symbol{Kind: Alternation, Name: name, Children: children, Reducer: reducer}
}

// Rep returns a Repetition symbol: child must match consecutively at least
// from times and at most to times (Unbounded for no maximum).
func Rep(name string, reducer Reducer, child *Symbol, from, to int) *Symbol {
	return &Symbol{Kind: Repetition, Name: name, Children: []*Symbol{child}, From: from, To: to, Reducer: reducer}
}

// Opt returns a Repetition matching child zero or one times; a shorthand for
// the common optional-element case.
func Opt(name string, reducer Reducer, child *Symbol) *Symbol {
	return Rep(name, reducer, child, 0, 1)
}

// Ref returns a Deferred symbol standing in for the symbol named ref, to be
// replaced by Grammar.Resolve. Use it to write recursive or forward-declared
// rules.
func Ref(ref string) *Symbol {
	return &Symbol{Kind: Deferred, Name: ref, Ref: ref}
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.Name)
}

// Repeated returns the symbol a Repetition repeats. Panics if s is not a
// Repetition.
func (s *Symbol) Repeated() *Symbol {
	if s.Kind != Repetition {
		panic("Repeated called on non-Repetition symbol")
	}
	return s.Children[0]
}
