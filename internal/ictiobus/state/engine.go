// Package state instantiates a symbol.Symbol grammar into a live parse
// state tree and drives it token by token. The tree is nondeterministic:
// wherever the grammar allows more than one continuation (an Alternation's
// alternatives, a Repetition's choice of stopping or continuing), every
// live continuation is kept and fed each subsequent token, rather than
// picking one and backtracking on failure.
//
// Every node in the tree exposes the same small protocol: pushToken feeds it
// the next input token, dead reports whether it has anything left to try,
// expected reports what it would have accepted for error messages, and end
// signals that input has run out. There is no separate evaluation step: a
// node hands its already-reduced value to its parent when it resolves.
// Containers (Sequence, Alternation, Repetition) additionally react to a
// child resolving valid or invalid through plain callbacks; a child that
// resolves before ever seeing a token (an empty Repetition, an Alternation
// arm that is itself empty) resolves during construction, synchronously,
// which is how the tree supports rules that match zero tokens.
//
// A completed branch of an Alternation or Repetition does not stop that
// branch's exploration: the branch that just became valid reports itself to
// its parent and keeps running, in case a longer or alternate match is also
// possible. This is what lets the engine detect genuine grammar ambiguity
// at the root, rather than committing to the first match found.
package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// onValid is called by a newly-settled or newly-pushed node every time it
// resolves to a valid match, with the value that node's subtree reduces to
// and whether resolving just now actually consumed the token currently
// being pushed (false for a resolution reached by rejecting that token, or
// reached during construction or end-of-input before any token was offered
// to it). A container uses this to decide whether a freshly spawned
// continuation should get a chance at the same token (the token is still
// unclaimed) or must wait for the next one (the token was already spent).
// onValid may be called more than once over a container's lifetime: each
// call is an independently viable completion.
type onValid func(value any, consumed bool)

// onInvalid is called at most once, when a node has nothing further to offer
// and never made an onValid call; a node that has reported at least one
// completion retires without calling it.
type onInvalid func()

// state is the common protocol implemented by every node kind. There is no
// separate evaluation pass over a materialized tree: a container applies
// its symbol's reducer to its children's already-reduced values at the
// moment it resolves valid, so the value handed to onValid is always the
// final, fully-evaluated result for that node. This is observably identical
// to a post-order walk, since children always resolve strictly before their
// parent does.
type state interface {
	// pushToken feeds tok to every live terminal in this subtree. It
	// returns whether at least one of them consumed it.
	pushToken(b *buildCtx, tok types.Token) bool

	// dead reports whether this subtree has nothing left to try: every
	// live avenue has resolved, one way or another.
	dead() bool

	// expected lists the human names of tokens this subtree's currently
	// live terminals would accept.
	expected() []string

	// end signals that no further tokens will arrive. A Repetition still
	// waiting on one more attempt abandons that attempt and commits to the
	// longest length it already reached; containers holding one propagate
	// end to their own live children first so an inner Repetition gets the
	// same chance to commit before an outer one gives up.
	end(b *buildCtx)
}

// buildCtx is shared by every node instantiated for a single parse. It
// tracks recursion through zero-width settling so that a left-recursive or
// otherwise unguarded grammar is reported as InfiniteStateExpansion instead
// of overflowing the call stack, and it carries the first fatal error
// encountered so deeply-nested callbacks can simply stop instead of
// threading an error return through every closure.
type buildCtx struct {
	ctx            types.Context
	zeroWidthDepth int
	maxDepth       int
	err            error
	deepestSymbol  string
}

const defaultMaxZeroWidthDepth = 250

func newBuildCtx(ctx types.Context) *buildCtx {
	return &buildCtx{ctx: ctx, maxDepth: defaultMaxZeroWidthDepth}
}

// enter records recursion into sym without having consumed a token, failing
// the whole build with InfiniteStateExpansion once the bound is exceeded.
// It returns false if the build has already failed (by this or an earlier
// check) and the caller should stop immediately.
func (b *buildCtx) enter(sym *symbol.Symbol) bool {
	if b.err != nil {
		return false
	}
	b.zeroWidthDepth++
	b.deepestSymbol = sym.Name
	if b.zeroWidthDepth > b.maxDepth {
		b.err = icterrors.InfiniteStateExpansion(b.deepestSymbol, b.maxDepth)
		return false
	}
	return true
}

func (b *buildCtx) exit() {
	b.zeroWidthDepth--
}

// tokenConsumed resets the zero-width recursion counter: a node that just
// consumed an actual character of input cannot be part of an unguarded
// epsilon cycle.
func (b *buildCtx) tokenConsumed() {
	b.zeroWidthDepth = 0
}

// instantiate builds the live state for sym, wiring valid/invalid as the
// callbacks to invoke whenever this particular instance resolves. It
// performs the initial zero-width settle synchronously: valid or invalid may
// already have been called by the time instantiate returns.
func instantiate(b *buildCtx, sym *symbol.Symbol, valid onValid, invalid onInvalid) state {
	if b.err != nil {
		return deadState{}
	}

	switch sym.Kind {
	case symbol.Terminal:
		return newTermState(sym, valid, invalid)
	case symbol.Sequence:
		return newSeqState(b, sym, valid, invalid)
	case symbol.Alternation:
		return newAltState(b, sym, valid, invalid)
	case symbol.Repetition:
		return newRepState(b, sym, valid, invalid)
	default:
		// Deferred symbols never reach here: Grammar.Resolve replaces every
		// one with its target before a parse ever begins.
		panic("instantiate called on unresolved Deferred symbol " + sym.Name)
	}
}

// deadState is returned in place of a real state once the build has already
// failed, so that callers can keep treating the tree uniformly instead of
// checking for nil everywhere.
type deadState struct{}

func (deadState) pushToken(*buildCtx, types.Token) bool { return false }
func (deadState) dead() bool                            { return true }
func (deadState) expected() []string                    { return nil }
func (deadState) end(*buildCtx)                         {}
