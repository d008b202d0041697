package bnf

import (
	"strconv"

	"github.com/lechimp-p/parsr/internal/ictiobus/lex"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// Tokens of the BNF shorthand grammar (spec §6):
//
//	S      := (sym)+
//	sym    := repeat | optional | group | alt | name
//	repeat := ({n?,m?})? '*' simple
//	optional := '?' simple
//	group  := '(' sym+ ')'
//	alt    := (simple '|')+ simple
//	simple := group | name
var (
	wsTok     = mustTok("ws", "whitespace", `\s+`, nil)
	lparenTok = mustTok("lparen", "'('", `\(`, nil)
	rparenTok = mustTok("rparen", "')'", `\)`, nil)
	pipeTok   = mustTok("pipe", "'|'", `\|`, nil)
	starTok   = mustTok("star", "'*'", `\*`, nil)
	qmarkTok  = mustTok("qmark", "'?'", `\?`, nil)
	lbraceTok = mustTok("lbrace", "'{'", `\{`, nil)
	rbraceTok = mustTok("rbrace", "'}'", `\}`, nil)
	commaTok  = mustTok("comma", "','", `,`, nil)
	numberTok = mustTok("number", "number", `\d+`, func(v any, _ types.Context) any {
		n, _ := strconv.Atoi(v.(string))
		return n
	})
	nameTok = mustTok("name", "name", `\w+`, nil)
)

func mustTok(id, human, pattern string, transform lex.Transform) *lex.Token {
	tok, err := lex.NewToken(id, human, pattern, transform)
	if err != nil {
		panic("bnf: invalid built-in token " + id + ": " + err.Error())
	}
	return tok
}
