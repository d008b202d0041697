// Package calc builds the S-expression calculator grammar used as the
// built-in demo frontend for cmd/parsesh and cmd/parsrd when no grammar file
// is supplied: `(+ 10 2)` -> 12, `(* 5 (+ (- 7 3) 2))` -> 30.
package calc

import (
	"fmt"

	"github.com/lechimp-p/parsr/internal/ictiobus"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// New builds the Frontend for the calculator grammar: tokens lp, rp, number
// (parsed to int), op (one of + - * / %, kept as the raw one-character
// string), and an
// omitted run of spaces; symbols op_expr := lp op expr expr rp and
// expr := op_expr | number.
func New() (*ictiobus.Frontend[int], error) {
	b := ictiobus.NewGrammar()

	b.Token("lp", "'('", `\(`, nil)
	b.Token("rp", "')'", `\)`, nil)
	b.Token("number", "number", `-?\d+`, func(v any, _ types.Context) any {
		var n int
		fmt.Sscanf(v.(string), "%d", &n)
		return n
	})
	b.Token("op", "operator", `[+\-*/%]`, nil)
	b.Token("space", "whitespace", ` +`, nil)

	b.Mode("default", []string{"space"}, []string{"lp", "rp", "number", "op"}, nil, nil)

	opExpr := symbol.Seq("op_expr", reduceOpExpr,
		symbol.Term("lp", b.LookupToken("lp")),
		symbol.Term("op", b.LookupToken("op")),
		symbol.Ref("expr"),
		symbol.Ref("expr"),
		symbol.Term("rp", b.LookupToken("rp")),
	)
	b.Rule("op_expr", opExpr)
	b.Rule("expr", symbol.Alt("expr", reduceSingle,
		symbol.Ref("op_expr"),
		symbol.Term("number", b.LookupToken("number")),
	))

	b.Start("expr", "default")

	return ictiobus.Build[int](b)
}

func reduceSingle(values []any, _ types.Context) any {
	return values[0]
}

func reduceOpExpr(values []any, _ types.Context) any {
	op := values[1].(string)
	left := values[2].(int)
	right := values[3].(int)

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
