package lex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

func mustToken(t *testing.T, id, human, pattern string, tr Transform) *Token {
	t.Helper()
	tok, err := NewToken(id, human, pattern, tr)
	if !assert.NoErrorf(t, err, "building token %s", id) {
		t.FailNow()
	}
	return tok
}

func Test_Lexer_singleMode(t *testing.T) {
	ws := mustToken(t, "ws", "whitespace", `\s+`, nil)
	num := mustToken(t, "num", "number", `[0-9]+`, nil)
	plus := mustToken(t, "plus", "'+'", `\+`, nil)

	lx, err := NewLexer("default", &Mode{
		Name:   "default",
		Omit:   []*Token{ws},
		Accept: []*Token{num, plus},
	})
	assert.NoError(t, err)

	toks, err := lx.LexString("12 + 34", nil)
	assert.NoError(t, err)

	assert.Equal(t, []string{"num", "plus", "num", "$"}, classIDs(toks))
	assert.Equal(t, "12", toks[0].Lexeme())
	assert.Equal(t, "34", toks[2].Lexeme())
}

func Test_Lexer_firstMatchWinsOverLongestMatch(t *testing.T) {
	// "if" should win over the generic identifier even though both match,
	// because it is listed first in Accept.
	kw := mustToken(t, "if", "'if'", `if`, nil)
	ident := mustToken(t, "ident", "identifier", `[a-z]+`, nil)

	lx, err := NewLexer("default", &Mode{
		Name:   "default",
		Accept: []*Token{kw, ident},
	})
	assert.NoError(t, err)

	toks, err := lx.LexString("if", nil)
	assert.NoError(t, err)
	assert.Equal(t, "if", toks[0].Class().ID())
}

func Test_Lexer_modeStackPushPop(t *testing.T) {
	quote := mustToken(t, "quote", "'\"'", `"`, nil)
	text := mustToken(t, "text", "string text", `[^"]+`, nil)
	num := mustToken(t, "num", "number", `[0-9]+`, nil)
	ws := mustToken(t, "ws", "whitespace", `\s+`, nil)

	lx, err := NewLexer("default",
		&Mode{
			Name:   "default",
			Omit:   []*Token{ws},
			Accept: []*Token{quote, num},
			PushOn: map[string]string{"quote": "instring"},
		},
		&Mode{
			Name:   "instring",
			Accept: []*Token{text, quote},
			PopOn:  map[string]bool{"quote": true},
		},
	)
	assert.NoError(t, err)

	toks, err := lx.LexString(`12 "hi" 34`, nil)
	assert.NoError(t, err)

	assert.Equal(t, []string{"num", "quote", "text", "quote", "num", "$"}, classIDs(toks))
	assert.Equal(t, "hi", toks[2].Lexeme())
}

func Test_Lexer_noMatchIsLexerError(t *testing.T) {
	num := mustToken(t, "num", "number", `[0-9]+`, nil)

	lx, err := NewLexer("default", &Mode{Name: "default", Accept: []*Token{num}})
	assert.NoError(t, err)

	_, err = lx.LexString("12x", nil)
	assert.Error(t, err)
}

func Test_Lexer_transformReceivesContext(t *testing.T) {
	num := mustToken(t, "num", "number", `[0-9]+`, func(v any, ctx types.Context) any {
		scale, _ := ctx.Get("scale")
		s, _ := scale.(int)
		if s == 0 {
			s = 1
		}
		return len(v.(string)) * s
	})

	lx, err := NewLexer("default", &Mode{Name: "default", Accept: []*Token{num}})
	assert.NoError(t, err)

	toks, err := lx.LexString("123", types.Context{"scale": 10})
	assert.NoError(t, err)
	assert.Equal(t, 30, toks[0].Value())
}

func Test_Lexer_Lex_viaReader(t *testing.T) {
	num := mustToken(t, "num", "number", `[0-9]+`, nil)
	lx, err := NewLexer("default", &Mode{Name: "default", Accept: []*Token{num}})
	assert.NoError(t, err)

	stream, err := lx.Lex(strings.NewReader("7"), nil)
	assert.NoError(t, err)
	assert.True(t, stream.HasNext())
	assert.Equal(t, "7", stream.Next().Lexeme())
	assert.True(t, stream.HasNext())
	assert.Equal(t, "$", stream.Next().Class().ID())
	assert.False(t, stream.HasNext())
}

func Test_Lexer_zeroLengthTokenIsRejected(t *testing.T) {
	// A pattern that can match the empty string would otherwise loop the
	// lexer in place forever instead of making progress.
	maybeDigits := mustToken(t, "digits", "digits", `[0-9]*`, nil)

	lx, err := NewLexer("default", &Mode{Name: "default", Accept: []*Token{maybeDigits}})
	assert.NoError(t, err)

	_, err = lx.LexString("abc", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty string")
}

func classIDs(toks []types.Token) []string {
	ids := make([]string, len(toks))
	for i, t := range toks {
		ids[i] = t.Class().ID()
	}
	return ids
}
