package ictiobus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// arithWithComments builds spec scenario 2's grammar: one binary arithmetic
// expression, tokenized by two lexer modes so that a C-style block comment
// is scanned (and discarded) without its contents ever reaching the
// "default" mode's token set.
func arithWithComments(t *testing.T) *Frontend[int] {
	t.Helper()

	b := NewGrammar()
	b.Token("number", "number", `-?\d+`, func(v any, _ types.Context) any {
		n := 0
		neg := false
		s := v.(string)
		for i, r := range s {
			if i == 0 && r == '-' {
				neg = true
				continue
			}
			n = n*10 + int(r-'0')
		}
		if neg {
			n = -n
		}
		return n
	})
	b.Token("op", "operator", `[+\-*/%]`, nil)
	b.Token("ws", "whitespace", ` +`, nil)
	b.Token("cstart", "'/*'", `/\*`, nil)
	b.Token("cend", "'*/'", `\*/`, nil)
	b.Token("star", "'*'", `\*`, nil)
	b.Token("ctext", "comment text", `[^*]+`, nil)

	b.Mode("default", []string{"ws", "cstart"}, []string{"number", "op"}, map[string]string{"cstart": "comment"}, nil)
	b.Mode("comment", []string{"cend", "star", "ctext"}, nil, nil, []string{"cend"})

	binExpr := symbol.Seq("bin_expr", reduceBinExpr,
		symbol.Term("left", b.LookupToken("number")),
		symbol.Term("op", b.LookupToken("op")),
		symbol.Term("right", b.LookupToken("number")),
	)
	b.Rule("bin_expr", binExpr)
	b.Rule("expr", symbol.Alt("expr", reduceFirst,
		symbol.Ref("bin_expr"),
		symbol.Term("number", b.LookupToken("number")),
	))

	b.Start("expr", "default")

	fe, err := Build[int](b)
	require.NoError(t, err)
	return fe
}

func reduceFirst(values []any, _ types.Context) any {
	return values[0]
}

func reduceBinExpr(values []any, _ types.Context) any {
	left := values[0].(int)
	op := values[1].(string)
	right := values[2].(int)
	switch op {
	case "+":
		return left + right
	case "-":
		return left - right
	case "*":
		return left * right
	case "/":
		return left / right
	case "%":
		return left % right
	default:
		panic("unreachable operator " + op)
	}
}

func Test_Frontend_arithmeticWithComments(t *testing.T) {
	fe := arithWithComments(t)

	cases := []struct {
		in   string
		want int
	}{
		{"1 + 2", 3},
		{"1 + 2 /* foo */", 3},
		{"4 / -2", -2},
	}

	for _, c := range cases {
		got, err := fe.ParseString(context.Background(), c.in, types.Context{})
		assert.NoErrorf(t, err, "parsing %q", c.in)
		assert.Equalf(t, c.want, got, "parsing %q", c.in)
	}
}

// modeStackGrammar builds spec scenario 5's grammar: tokens a, b, c, and
// "/b"; the default mode has no whitespace token at all, so a literal space
// there is a lexer error, while the mode pushed on "b" omits spaces, and
// "/b" pops back out of it.
func modeStackGrammar(t *testing.T) *Frontend[[]string] {
	t.Helper()

	b := NewGrammar()
	b.Token("a", "'a'", `a`, nil)
	b.Token("b", "'b'", `b`, nil)
	b.Token("c", "'c'", `c`, nil)
	b.Token("slashb", "'/b'", `/b`, nil)
	b.Token("ws", "whitespace", ` +`, nil)

	b.Mode("default", nil, []string{"a", "b", "c", "slashb"}, map[string]string{"b": "afterb"}, nil)
	b.Mode("afterb", []string{"ws"}, []string{"a", "b", "c", "slashb"}, nil, []string{"slashb"})

	b.Rule("letters", symbol.Rep("letters", reduceLetters, symbol.Alt("letter", reduceFirst,
		symbol.Term("a", b.LookupToken("a")),
		symbol.Term("b", b.LookupToken("b")),
		symbol.Term("c", b.LookupToken("c")),
		symbol.Term("slashb", b.LookupToken("slashb")),
	), 1, symbol.Unbounded))

	b.Start("letters", "default")

	fe, err := Build[[]string](b)
	require.NoError(t, err)
	return fe
}

func reduceLetters(values []any, _ types.Context) any {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.(string)
	}
	return out
}

func Test_Frontend_modeStacking(t *testing.T) {
	fe := modeStackGrammar(t)

	got, err := fe.ParseString(context.Background(), "ab   c /ba", types.Context{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "/b", "a"}, got)

	_, err = fe.ParseString(context.Background(), "a b c /ba", types.Context{})
	assert.Error(t, err)
}

// Scenario 6: A := repeat(B), B := repeat(A), both able to match zero
// tokens, recurse into each other without ever consuming one. The engine
// must report InfiniteStateExpansion rather than overflow the call stack.
func Test_Frontend_mutualEmptyRecursionIsInfiniteExpansion(t *testing.T) {
	b := NewGrammar()
	b.Token("a", "'a'", `a`, nil)

	b.Rule("A", symbol.Rep("A", nil, symbol.Ref("B"), 0, symbol.Unbounded))
	b.Rule("B", symbol.Rep("B", nil, symbol.Ref("A"), 0, symbol.Unbounded))

	b.Start("A", "default")
	b.Mode("default", nil, []string{"a"}, nil, nil)

	fe, err := Build[any](b)
	require.NoError(t, err)

	_, err = fe.ParseString(context.Background(), "", types.Context{})
	require.Error(t, err)
	icErr, ok := err.(*icterrors.Error)
	if assert.True(t, ok) {
		assert.Equal(t, icterrors.KindInfiniteStateExpansion, icErr.Kind())
	}
}
