// Package ictiobus is a nondeterministic parsing toolkit: declare tokens and
// grammar symbols, wire them into a Frontend, and get back a function from
// source text to a fully-reduced semantic value, or one of a small error
// taxonomy explaining why parsing failed.
//
// It's based off of the name for the buffalo fish due to the buffalo's
// relation with bison. Naturally, bison due to its popularity as a
// parser-generator tool.
package ictiobus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lechimp-p/parsr/internal/ictiobus/bnf"
	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/ictiobus/state"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

var log = slog.Default()

// SetLogger overrides the logger used for trace output (spec §6's "Trace
// output"). Trace lines are emitted at slog.LevelDebug.
func SetLogger(l *slog.Logger) {
	if l != nil {
		log = l
	}
}

// Builder accumulates token, mode, and symbol definitions before producing a
// Grammar. It is the reflective declaration surface: the host registers
// everything it knows about up front, then calls Build once.
type Builder struct {
	tokens map[string]*lex.Token
	modes  map[string]*lex.Mode
	grem   *symbol.Grammar
	start  string
	mode   string
	err    error
}

// NewGrammar returns an empty Builder.
func NewGrammar() *Builder {
	return &Builder{
		tokens: map[string]*lex.Token{},
		modes:  map[string]*lex.Mode{},
		grem:   symbol.NewGrammar(),
	}
}

// Token registers a named token usable by both the lexer modes and the
// symbol graph. id must be unique across the builder.
func (b *Builder) Token(id, human, pattern string, transform lex.Transform) *Builder {
	if b.err != nil {
		return b
	}
	if _, exists := b.tokens[id]; exists {
		b.err = icterrors.Construction(id, "token %q defined more than once", id)
		return b
	}
	tok, err := lex.NewToken(id, human, pattern, transform)
	if err != nil {
		b.err = err
		return b
	}
	b.tokens[id] = tok
	return b
}

// Mode registers a lexer mode by name, listing the ids of the tokens it
// omits and accepts in trial order, plus its push/pop transitions.
func (b *Builder) Mode(name string, omit, accept []string, pushOn map[string]string, popOn []string) *Builder {
	if b.err != nil {
		return b
	}
	m := &lex.Mode{Name: name, PushOn: pushOn, PopOn: map[string]bool{}}
	for _, id := range popOn {
		m.PopOn[id] = true
	}
	for _, id := range omit {
		tok, ok := b.tokens[id]
		if !ok {
			b.err = icterrors.Construction(name, "mode %q omits undefined token %q", name, id)
			return b
		}
		m.Omit = append(m.Omit, tok)
	}
	for _, id := range accept {
		tok, ok := b.tokens[id]
		if !ok {
			b.err = icterrors.Construction(name, "mode %q accepts undefined token %q", name, id)
			return b
		}
		m.Accept = append(m.Accept, tok)
	}
	b.modes[name] = m
	return b
}

// LookupToken returns the token previously registered under id via Token,
// or nil if no such token exists. Rule bodies built directly with the
// symbol package (symbol.Term and friends) need the actual *lex.Token
// instance to reference, since a Terminal symbol matches by token identity,
// not by name alone.
func (b *Builder) LookupToken(id string) *lex.Token {
	return b.tokens[id]
}

// Rule defines a named symbol. body may reference other rules by name via
// symbol.Ref before they are themselves defined; Build resolves forward
// references.
func (b *Builder) Rule(name string, body *symbol.Symbol) *Builder {
	if b.err != nil {
		return b
	}
	body.Name = name
	if err := b.grem.Define(body); err != nil {
		b.err = err
	}
	return b
}

// RuleBNF defines a named symbol from a BNF-shorthand body string (spec §6),
// rather than a hand-built combinator tree: `group (sym)+`, `a | b | c`,
// `?opt`, `*rep`, `{2,4}*rep` and bare names are all accepted, and names
// referenced before they are themselves defined with Rule/RuleBNF resolve the
// same way a Ref does. reducer runs over the body's matched children once
// the grammar parses it; pass nil if the body is a single already-reduced
// atom (e.g. a bare name) and no further combination is needed.
func (b *Builder) RuleBNF(name, body string, reducer symbol.Reducer) *Builder {
	if b.err != nil {
		return b
	}
	sym, err := bnf.Parse(body)
	if err != nil {
		b.err = fmt.Errorf("rule %q: %w", name, err)
		return b
	}
	sym.Name = name
	sym.Reducer = reducer
	if err := b.grem.Define(sym); err != nil {
		b.err = err
	}
	return b
}

// Start designates the root symbol and starting lexer mode.
func (b *Builder) Start(symbolName, modeName string) *Builder {
	if b.err != nil {
		return b
	}
	b.grem.SetRoot(symbolName)
	b.start = symbolName
	b.mode = modeName
	return b
}

// Build resolves the grammar and lexer and returns a Frontend producing
// values of type E. Any construction error accumulated by prior calls, or
// found during resolution, is returned here.
func Build[E any](b *Builder) (*Frontend[E], error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.mode == "" {
		return nil, icterrors.Construction(b.start, "no starting lexer mode designated")
	}
	if err := b.grem.Resolve(); err != nil {
		return nil, err
	}

	modes := make([]*lex.Mode, 0, len(b.modes))
	for _, m := range b.modes {
		modes = append(modes, m)
	}
	lx, err := lex.NewLexer(b.mode, modes...)
	if err != nil {
		return nil, err
	}

	return &Frontend[E]{lx: lx, grem: b.grem, p: state.NewParser(b.grem)}, nil
}

// Adapt wraps a Frontend[From] as a Frontend[To] via convert, so callers
// that need a uniform result type across Frontends built for different Go
// types (e.g. a server dispatching to whichever grammar a request names)
// don't need type-switch logic of their own.
func Adapt[From, To any](fe *Frontend[From], convert func(From) To) *Frontend[To] {
	return &Frontend[To]{lx: fe.lx, grem: fe.grem, p: fe.p, adapt: func(v any) (To, error) {
		fv, ok := v.(From)
		if !ok {
			var zero To
			return zero, fmt.Errorf("adapted frontend: root symbol produced %T, not %T", v, fv)
		}
		return convert(fv), nil
	}}
}

// Frontend binds one grammar and lexer to one Go result type E: the root
// symbol's reducer is expected to ultimately produce a value assignable to
// E. It is safe for concurrent use; each Parse call builds its own
// independent parse-state tree over the shared, read-only Grammar.
type Frontend[E any] struct {
	lx   *lex.Lexer
	grem *symbol.Grammar
	p    *state.Parser

	// adapt, if set (by Adapt), overrides the default type-assertion path
	// in Parse with a conversion from another Frontend's result type.
	adapt func(any) (E, error)
}

// ParseString is the same as Parse but accepts a string as input.
func (fe *Frontend[E]) ParseString(ctx context.Context, s string, evalCtx types.Context) (E, error) {
	return fe.Parse(ctx, strings.NewReader(s), evalCtx)
}

// Parse lexes r and parses the resulting tokens against the bound grammar,
// applying reducers as the parse-state tree resolves, and returns the
// result reduced at the root symbol. ctx is honored only at the lexical
// boundary (the engine itself never suspends mid-parse, per spec §5);
// evalCtx is the opaque value threaded to every reducer and transform.
func (fe *Frontend[E]) Parse(ctx context.Context, r io.Reader, evalCtx types.Context) (ir E, err error) {
	if err := ctx.Err(); err != nil {
		return ir, err
	}

	toks, err := fe.lx.LexAll(r, evalCtx)
	if err != nil {
		return ir, err
	}
	log.DebugContext(ctx, "lexed input", "tokens", len(toks))

	result, err := fe.p.Parse(toks, evalCtx)
	if err != nil {
		return ir, err
	}

	if fe.adapt != nil {
		return fe.adapt(result)
	}

	ir, ok := result.(E)
	if !ok {
		root, _ := fe.grem.Root()
		rootName := ""
		if root != nil {
			rootName = root.Name
		}
		return ir, fmt.Errorf("root symbol %q produced %T, not %T", rootName, result, ir)
	}
	return ir, nil
}
