package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// reduce applies sym's reducer, if it has one, to childValues. With no
// reducer the default value for a Sequence or Repetition is the slice of
// its children's values itself, in match order.
func reduce(sym *symbol.Symbol, childValues []any, ctx types.Context) any {
	if sym.Reducer != nil {
		return sym.Reducer(childValues, ctx)
	}
	return childValues
}
