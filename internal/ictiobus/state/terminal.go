package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// termState is the live instance of a Terminal symbol: it waits for exactly
// one token of the right class and then resolves, one way or the other. It
// never settles during construction, since a token always consumes at least
// one character.
type termState struct {
	sym     *symbol.Symbol
	valid   onValid
	invalid onInvalid

	resolved bool
}

func newTermState(sym *symbol.Symbol, valid onValid, invalid onInvalid) *termState {
	return &termState{sym: sym, valid: valid, invalid: invalid}
}

func (t *termState) pushToken(b *buildCtx, tok types.Token) bool {
	if t.resolved || b.err != nil {
		return false
	}

	if !tok.Class().Equal(t.sym.Token) {
		t.resolved = true
		t.invalid()
		return false
	}

	t.resolved = true
	b.tokenConsumed()
	t.valid(tok.Value(), true)
	return true
}

func (t *termState) dead() bool {
	return t.resolved
}

func (t *termState) expected() []string {
	if t.resolved {
		return nil
	}
	return []string{t.sym.Token.Human()}
}

// end does nothing: a Terminal can only ever resolve by consuming a token,
// so if one never arrived it simply stays unresolved, and whatever
// container holds it treats that as this branch having nothing to offer.
func (t *termState) end(*buildCtx) {}
