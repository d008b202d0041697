package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// rootState wraps the grammar's root symbol and collects the completions it
// reports after the most recent token (and at end of input); completions
// reached before a later token arrived are discarded when that token is
// pushed, since they do not cover the whole input. More than one remaining
// completion means the grammar was genuinely ambiguous on this input; zero
// means input ran out before a full match was reached.
type rootState struct {
	sym         *symbol.Symbol
	child       state
	completions []any
}

func newRootState(b *buildCtx, sym *symbol.Symbol) *rootState {
	r := &rootState{sym: sym}
	r.child = instantiate(b, sym, func(v any, _ bool) {
		r.completions = append(r.completions, v)
	}, func() {})
	return r
}

func (r *rootState) pushToken(b *buildCtx, tok types.Token) bool {
	r.completions = nil
	return r.child.pushToken(b, tok)
}

func (r *rootState) dead() bool {
	return r.child.dead()
}

func (r *rootState) expected() []string {
	return r.child.expected()
}

func (r *rootState) end(b *buildCtx) {
	r.child.end(b)
}
