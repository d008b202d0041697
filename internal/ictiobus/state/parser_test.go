package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

func mustTok(t *testing.T, id, human, pattern string) *lex.Token {
	t.Helper()
	tok, err := lex.NewToken(id, human, pattern, nil)
	assert.NoError(t, err)
	return tok
}

func lexString(t *testing.T, lx *lex.Lexer, s string) []types.Token {
	t.Helper()
	toks, err := lx.LexString(s, nil)
	assert.NoError(t, err)
	return toks
}

func Test_Parser_sequence(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)
	bTok := mustTok(t, "b", "'b'", `b`)
	ws := mustTok(t, "ws", "whitespace", `\s+`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Omit: []*lex.Token{ws}, Accept: []*lex.Token{a, bTok}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Seq("ab", nil, symbol.Term("a", a), symbol.Term("b", bTok))))
	g.SetRoot("ab")
	assert.NoError(t, g.Resolve())

	toks := lexString(t, lx, "a b")
	result, err := runParse(t, g, toks)
	assert.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, result)
}

func runParse(t *testing.T, g *symbol.Grammar, toks []types.Token) (any, error) {
	t.Helper()
	p := NewParser(g)
	return p.Parse(toks, nil)
}

func Test_Parser_alternation(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)
	bTok := mustTok(t, "b", "'b'", `b`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{a, bTok}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Alt("ab", nil, symbol.Term("a", a), symbol.Term("b", bTok))))
	g.SetRoot("ab")
	assert.NoError(t, g.Resolve())

	result, err := runParse(t, g, lexString(t, lx, "b"))
	assert.NoError(t, err)
	assert.Equal(t, "b", result)
}

func Test_Parser_repetitionIsGreedy(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{a}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Rep("as", nil, symbol.Term("a", a), 0, symbol.Unbounded)))
	g.SetRoot("as")
	assert.NoError(t, g.Resolve())

	result, err := runParse(t, g, lexString(t, lx, "aaa"))
	assert.NoError(t, err)
	assert.Equal(t, []any{"a", "a", "a"}, result)
}

func Test_Parser_repetitionMinimumNotMet(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{a}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Rep("as", nil, symbol.Term("a", a), 2, symbol.Unbounded)))
	g.SetRoot("as")
	assert.NoError(t, g.Resolve())

	_, err = runParse(t, g, lexString(t, lx, "a"))
	assert.Error(t, err)
	icErr, ok := err.(*icterrors.Error)
	if assert.True(t, ok) {
		assert.Equal(t, icterrors.KindNotCompleted, icErr.Kind())
	}
}

func Test_Parser_sequenceWithOptionalPrefix(t *testing.T) {
	minus := mustTok(t, "minus", "'-'", `-`)
	num := mustTok(t, "num", "number", `[0-9]+`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{minus, num}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	signed := symbol.Seq("signed", nil,
		symbol.Opt("sign", nil, symbol.Term("minus", minus)),
		symbol.Term("num", num),
	)
	assert.NoError(t, g.Define(signed))
	g.SetRoot("signed")
	assert.NoError(t, g.Resolve())

	result, err := runParse(t, g, lexString(t, lx, "-5"))
	assert.NoError(t, err)
	assert.Equal(t, []any{[]any{"-"}, "5"}, result)

	result, err = runParse(t, g, lexString(t, lx, "5"))
	assert.NoError(t, err)
	assert.Equal(t, []any{[]any(nil), "5"}, result)
}

func Test_Parser_ambiguousGrammarIsReported(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{a}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Alt("dup", nil, symbol.Term("a1", a), symbol.Term("a2", a))))
	g.SetRoot("dup")
	assert.NoError(t, g.Resolve())

	_, err = runParse(t, g, lexString(t, lx, "a"))
	assert.Error(t, err)
	icErr, ok := err.(*icterrors.Error)
	if assert.True(t, ok) {
		assert.Equal(t, icterrors.KindAmbiguous, icErr.Kind())
	}
}

func Test_Parser_unexpectedTokenIsStatesExhausted(t *testing.T) {
	a := mustTok(t, "a", "'a'", `a`)
	bTok := mustTok(t, "b", "'b'", `b`)

	lx, err := lex.NewLexer("default", &lex.Mode{Name: "default", Accept: []*lex.Token{a, bTok}})
	assert.NoError(t, err)

	g := symbol.NewGrammar()
	assert.NoError(t, g.Define(symbol.Term("a", a)))
	g.SetRoot("a")
	assert.NoError(t, g.Resolve())

	_, err = runParse(t, g, lexString(t, lx, "b"))
	assert.Error(t, err)
	icErr, ok := err.(*icterrors.Error)
	if assert.True(t, ok) {
		assert.Equal(t, icterrors.KindStatesExhausted, icErr.Kind())
	}
}
