package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// seqState is the live instance of a Sequence symbol. Because an earlier
// element may itself be an Alternation or Repetition that forks into more
// than one valid completion, a Sequence can end up with more than one live
// continuation in flight at once, each one matching the remaining elements
// against a different interpretation of what came before. active holds
// every such continuation currently still in progress.
type seqState struct {
	sym     *symbol.Symbol
	valid   onValid
	invalid onInvalid

	active           []state
	pendingAdd       []state
	currentTok       *types.Token
	consumedThisStep bool

	everValid       bool
	invalidReported bool
}

func newSeqState(b *buildCtx, sym *symbol.Symbol, valid onValid, invalid onInvalid) *seqState {
	s := &seqState{sym: sym, valid: valid, invalid: invalid}

	if len(sym.Children) == 0 {
		s.everValid = true
		s.valid(reduce(sym, nil, b.ctx), false)
		return s
	}

	if !b.enter(sym) {
		return s
	}
	first := s.buildContinuation(b, sym.Children, nil, false)
	b.exit()

	if first != nil {
		s.active = append(s.active, first)
	}
	s.checkExhausted()
	return s
}

// buildContinuation instantiates the next unmatched element of remaining,
// wiring it so that when it validates, the rest of the sequence is built in
// turn. When remaining is empty the whole sequence has matched and s.valid
// fires with the accumulated, reduced value. The returned state is the live
// node to track for remaining[0]; it is nil if that element already
// resolved (valid or invalid) during construction.
func (s *seqState) buildContinuation(b *buildCtx, remaining []*symbol.Symbol, prefix []any, consumed bool) state {
	if len(remaining) == 0 {
		s.everValid = true
		s.valid(reduce(s.sym, prefix, b.ctx), consumed)
		return nil
	}

	head, rest := remaining[0], remaining[1:]

	var built state
	built = instantiate(b, head, func(v any, consumedChild bool) {
		newPrefix := append(append([]any{}, prefix...), v)

		if !b.enter(s.sym) {
			return
		}
		next := s.buildContinuation(b, rest, newPrefix, consumedChild)
		b.exit()

		if next == nil {
			return
		}
		if s.currentTok != nil && !consumedChild {
			if next.pushToken(b, *s.currentTok) {
				s.consumedThisStep = true
			}
		}
		if !next.dead() {
			s.pendingAdd = append(s.pendingAdd, next)
		}
	}, func() {})

	if built.dead() {
		return nil
	}
	return built
}

func (s *seqState) pushToken(b *buildCtx, tok types.Token) bool {
	if b.err != nil || s.dead() {
		return false
	}

	s.currentTok = &tok
	s.consumedThisStep = false

	snapshot := s.active
	s.active = nil
	s.pendingAdd = nil

	for _, branch := range snapshot {
		if branch.pushToken(b, tok) {
			s.consumedThisStep = true
		}
		if !branch.dead() {
			s.active = append(s.active, branch)
		}
	}

	s.active = append(s.active, s.pendingAdd...)
	s.pendingAdd = nil
	s.currentTok = nil

	s.checkExhausted()
	return s.consumedThisStep
}

func (s *seqState) checkExhausted() {
	if len(s.active) == 0 && !s.everValid && !s.invalidReported {
		s.invalidReported = true
		s.invalid()
	}
}

func (s *seqState) dead() bool {
	return len(s.active) == 0
}

// end signals that no further tokens are coming. Each live continuation is
// given the chance to finalize (a Repetition inside it may commit to its
// best length so far), which can itself synchronously produce new
// continuations for the remainder of the sequence; those are drained the
// same way until nothing new appears.
func (s *seqState) end(b *buildCtx) {
	queue := append([]state{}, s.active...)
	s.active = nil

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		cur.end(b)
		if !cur.dead() {
			s.active = append(s.active, cur)
		}

		if len(s.pendingAdd) > 0 {
			queue = append(queue, s.pendingAdd...)
			s.pendingAdd = nil
		}
	}

	s.checkExhausted()
}

func (s *seqState) expected() []string {
	var out []string
	for _, branch := range s.active {
		out = append(out, branch.expected()...)
	}
	return out
}
