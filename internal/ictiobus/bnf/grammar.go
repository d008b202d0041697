// Package bnf implements the self-hosted BNF shorthand desugarer (spec §4.6
// and §6): a small grammar of atoms, groups, alternation, and repetition
// prefixes, parsed by the very engine it produces symbol graphs for.
package bnf

import (
	"sync"

	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/ictiobus/state"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// bound is the reduced value of a `{n?,m?}` repetition-count prefix.
type bound struct {
	from, to int
}

var (
	once      sync.Once
	bootLex   *lex.Lexer
	bootGrem  *symbol.Grammar
	bootParse *state.Parser
	bootErr   error
)

// bootstrap builds the BNF shorthand's own grammar and lexer exactly once,
// lazily, the first time Parse is called. Grounded on spec §9's "Global
// mutable state" note: the reference implementation's bootstrap grammar is a
// process-wide singleton; here it is a lazily-initialized, concurrency-safe
// cached value rather than package-init eager state.
func bootstrap() {
	bootLex, bootErr = lex.NewLexer("default", &lex.Mode{
		Name: "default",
		Omit: []*lex.Token{wsTok},
		Accept: []*lex.Token{
			lparenTok, rparenTok, pipeTok, starTok, qmarkTok,
			lbraceTok, rbraceTok, commaTok, numberTok, nameTok,
		},
	})
	if bootErr != nil {
		return
	}

	g := symbol.NewGrammar()

	optNumber := symbol.Opt("opt-number", nil, symbol.Term("number", numberTok))

	boundRule := symbol.Seq("bound", reduceBound,
		symbol.Term("lbrace", lbraceTok),
		optNumber,
		symbol.Term("comma", commaTok),
		symbol.Opt("opt-number2", nil, symbol.Term("number", numberTok)),
		symbol.Term("rbrace", rbraceTok),
	)

	simple := symbol.Alt("simple", reduceSingle, symbol.Ref("group"), symbol.Ref("name"))

	name := symbol.Term("name", nameTok)

	nameRule := symbol.Seq("name", reduceNameAtom, name)

	repeatRule := symbol.Seq("repeat", reduceRepeat,
		symbol.Opt("opt-bound", nil, boundRule),
		symbol.Term("star", starTok),
		simple,
	)

	optionalRule := symbol.Seq("optional", reduceOptional,
		symbol.Term("qmark", qmarkTok),
		simple,
	)

	groupRule := symbol.Seq("group", reduceGroup,
		symbol.Term("lparen", lparenTok),
		symbol.Rep("sym-plus", nil, symbol.Ref("sym"), 1, symbol.Unbounded),
		symbol.Term("rparen", rparenTok),
	)

	altRule := symbol.Seq("alt", reduceAlt,
		symbol.Rep("alt-prefix", nil, symbol.Seq("alt-pair", nil, simple, symbol.Term("pipe", pipeTok)), 1, symbol.Unbounded),
		simple,
	)

	symRule := symbol.Alt("sym", reduceSingle,
		symbol.Ref("alt"),
		symbol.Ref("repeat"),
		symbol.Ref("optional"),
		symbol.Ref("group"),
		symbol.Ref("name"),
	)

	sRule := symbol.Rep("S", reduceS, symbol.Ref("sym"), 1, symbol.Unbounded)

	for _, def := range []*symbol.Symbol{sRule, symRule, repeatRule, optionalRule, groupRule, altRule, nameRule} {
		if bootErr = g.Define(def); bootErr != nil {
			return
		}
	}

	g.SetRoot("S")
	if bootErr = g.Resolve(); bootErr != nil {
		return
	}

	bootGrem = g
	bootParse = state.NewParser(g)
}

func reduceSingle(values []any, _ types.Context) any {
	return values[0]
}

func reduceNameAtom(values []any, _ types.Context) any {
	return symbol.Ref(values[0].(string))
}

func reduceBound(values []any, _ types.Context) any {
	b := bound{from: 0, to: symbol.Unbounded}
	if ns, ok := values[1].([]any); ok && len(ns) == 1 {
		b.from = ns[0].(int)
	}
	if ns, ok := values[3].([]any); ok && len(ns) == 1 {
		b.to = ns[0].(int)
	}
	return b
}

func reduceRepeat(values []any, _ types.Context) any {
	b := bound{from: 0, to: symbol.Unbounded}
	if bs, ok := values[0].([]any); ok && len(bs) == 1 {
		b = bs[0].(bound)
	}
	child := values[2].(*symbol.Symbol)
	return symbol.Rep("", nil, child, b.from, b.to)
}

func reduceOptional(values []any, _ types.Context) any {
	child := values[1].(*symbol.Symbol)
	return symbol.Opt("", nil, child)
}

func reduceGroup(values []any, _ types.Context) any {
	children := values[1].([]any)
	syms := make([]*symbol.Symbol, len(children))
	for i, v := range children {
		syms[i] = v.(*symbol.Symbol)
	}
	return collapseSymbols(syms)
}

func reduceAlt(values []any, _ types.Context) any {
	pairs := values[0].([]any)
	branches := make([]*symbol.Symbol, 0, len(pairs)+1)
	for _, p := range pairs {
		pair := p.([]any)
		branches = append(branches, pair[0].(*symbol.Symbol))
	}
	branches = append(branches, values[1].(*symbol.Symbol))
	return symbol.Alt("", nil, branches...)
}

func reduceS(values []any, _ types.Context) any {
	syms := make([]*symbol.Symbol, len(values))
	for i, v := range values {
		syms[i] = v.(*symbol.Symbol)
	}
	return collapseSymbols(syms)
}

// collapseSymbols wraps more than one symbol in an anonymous Sequence; a
// single symbol passes through unwrapped, since a one-element group or S
// production should not add a spurious Sequence layer around it.
func collapseSymbols(syms []*symbol.Symbol) *symbol.Symbol {
	if len(syms) == 1 {
		return syms[0]
	}
	return symbol.Seq("", nil, syms...)
}
