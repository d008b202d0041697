package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// altState is the live instance of an Alternation symbol. Every alternative
// is instantiated up front and kept alive even after one of them validates,
// so that a second alternative validating later is caught as ambiguity by
// whatever is collecting completions (ordinarily the root) rather than
// silently discarded.
type altState struct {
	sym     *symbol.Symbol
	valid   onValid
	invalid onInvalid

	active []state

	everValid       bool
	invalidReported bool
}

func newAltState(b *buildCtx, sym *symbol.Symbol, valid onValid, invalid onInvalid) *altState {
	s := &altState{sym: sym, valid: valid, invalid: invalid}

	if !b.enter(sym) {
		return s
	}
	for _, child := range sym.Children {
		branch := instantiate(b, child, func(v any, consumedChild bool) {
			s.everValid = true
			if s.sym.Reducer != nil {
				s.valid(s.sym.Reducer([]any{v}, b.ctx), consumedChild)
			} else {
				s.valid(v, consumedChild)
			}
		}, func() {})
		if !branch.dead() {
			s.active = append(s.active, branch)
		}
	}
	b.exit()

	s.checkExhausted()
	return s
}

func (s *altState) pushToken(b *buildCtx, tok types.Token) bool {
	if b.err != nil || s.dead() {
		return false
	}

	consumed := false
	snapshot := s.active
	s.active = nil

	for _, branch := range snapshot {
		if branch.pushToken(b, tok) {
			consumed = true
		}
		if !branch.dead() {
			s.active = append(s.active, branch)
		}
	}

	s.checkExhausted()
	return consumed
}

func (s *altState) checkExhausted() {
	if len(s.active) == 0 && !s.everValid && !s.invalidReported {
		s.invalidReported = true
		s.invalid()
	}
}

func (s *altState) dead() bool {
	return len(s.active) == 0
}

// end gives every still-live alternative a chance to finalize (one may
// contain a Repetition waiting on one more element) before anything left
// unresolved is dropped.
func (s *altState) end(b *buildCtx) {
	snapshot := s.active
	s.active = nil

	for _, branch := range snapshot {
		branch.end(b)
		if !branch.dead() {
			s.active = append(s.active, branch)
		}
	}

	s.checkExhausted()
}

func (s *altState) expected() []string {
	var out []string
	for _, branch := range s.active {
		out = append(out, branch.expected()...)
	}
	return out
}
