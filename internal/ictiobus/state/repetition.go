package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// repState is the live instance of a Repetition symbol. Unlike Alternation,
// a Repetition does not report every admissible length as a separate
// completion: it greedily extends for as long as it can, and once it
// genuinely cannot extend further - the next attempt fails to match, the
// upper bound is reached, or input ends - it commits to the longest length
// it reached. Only that single, longest completion is ever reported.
type repState struct {
	sym     *symbol.Symbol
	valid   onValid
	invalid onInvalid

	from, to int

	bestCount  int
	bestPrefix []any

	current          state
	currentTok       *types.Token
	consumedThisStep bool
	finalized        bool
}

func newRepState(b *buildCtx, sym *symbol.Symbol, valid onValid, invalid onInvalid) *repState {
	r := &repState{sym: sym, valid: valid, invalid: invalid, from: sym.From, to: sym.To}

	if !b.enter(sym) {
		return r
	}
	r.startAttempt(b, nil, false)
	b.exit()

	return r
}

// startAttempt begins trying to match one more repetition past prefix. If
// the upper bound is already reached it finalizes immediately instead.
// consumed reports whether reaching this point already consumed the token
// currently in flight (if any), which decides whether the new attempt may
// have a go at that same token or must wait for the next one.
func (r *repState) startAttempt(b *buildCtx, prefix []any, consumed bool) {
	count := len(prefix)
	if r.to != symbol.Unbounded && count >= r.to {
		r.current = nil
		r.finalize(b, consumed)
		return
	}

	next := instantiate(b, r.sym.Repeated(), func(v any, consumedChild bool) {
		newPrefix := append(append([]any{}, prefix...), v)
		r.bestCount = len(newPrefix)
		r.bestPrefix = newPrefix

		if !b.enter(r.sym) {
			return
		}
		r.startAttempt(b, newPrefix, consumedChild)
		b.exit()

		if r.current != nil && r.currentTok != nil && !consumedChild {
			if r.current.pushToken(b, *r.currentTok) {
				r.consumedThisStep = true
			}
		}
	}, func() {
		r.current = nil
		r.finalize(b, false)
	})

	if next.dead() {
		r.current = nil
		return
	}
	r.current = next
}

func (r *repState) finalize(b *buildCtx, consumed bool) {
	if r.finalized {
		return
	}
	r.finalized = true

	if r.bestCount >= r.from {
		r.valid(reduce(r.sym, r.bestPrefix, b.ctx), consumed)
	} else {
		r.invalid()
	}
}

func (r *repState) pushToken(b *buildCtx, tok types.Token) bool {
	if b.err != nil || r.current == nil {
		return false
	}

	r.currentTok = &tok
	r.consumedThisStep = false

	if r.current.pushToken(b, tok) {
		r.consumedThisStep = true
	}

	r.currentTok = nil
	return r.consumedThisStep
}

func (r *repState) dead() bool {
	return r.current == nil
}

func (r *repState) expected() []string {
	if r.current == nil {
		return nil
	}
	return r.current.expected()
}

// end abandons any in-flight attempt at one more repetition and commits to
// the longest length already reached, after first giving that in-flight
// attempt itself a chance to finalize (it may contain its own Repetition
// still waiting on one more element, which may in turn resolve and start
// yet another attempt here before genuinely running out of options).
func (r *repState) end(b *buildCtx) {
	for r.current != nil {
		cur := r.current
		cur.end(b)
		if r.current != cur {
			// cur resolving during end cascaded into startAttempt or
			// finalize, which already updated r.current; go around again
			// in case the replacement also needs ending.
			continue
		}
		if !cur.dead() {
			r.current = nil
			r.finalize(b, false)
		}
		return
	}
}
