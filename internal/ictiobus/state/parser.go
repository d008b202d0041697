package state

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// Parser drives one grammar's state tree over a token stream. A Parser
// holds no state between calls to Parse; each call builds its own state
// tree, so the same Parser may be reused, concurrently included, across any
// number of parses.
type Parser struct {
	grammar *symbol.Grammar
}

// NewParser returns a Parser for g. g.Resolve must already have succeeded.
func NewParser(g *symbol.Grammar) *Parser {
	return &Parser{grammar: g}
}

// Parse feeds tokens through the grammar's state tree in order and returns
// the single reduced value of the unique valid completion of the root
// symbol. A TokenEndOfText sentinel at the end of tokens, if present, is not
// itself fed to the tree; it only marks where input ends.
//
// Parse returns a *icterrors.Error of KindStatesExhausted if some token has
// no live continuation willing to accept it, KindNotCompleted if input ends
// with no root completion reached, KindInfiniteStateExpansion if
// constructing the tree recursed without bound, and KindAmbiguous if more
// than one distinct root completion was reached.
func (p *Parser) Parse(tokens []types.Token, ctx types.Context) (any, error) {
	root, err := p.grammar.Root()
	if err != nil {
		return nil, err
	}

	b := newBuildCtx(ctx)
	rs := newRootState(b, root)
	if b.err != nil {
		return nil, b.err
	}

	for _, tok := range tokens {
		if tok.Class().Equal(types.TokenEndOfText) {
			continue
		}

		if !rs.pushToken(b, tok) {
			if b.err != nil {
				return nil, b.err
			}
			return nil, icterrors.StatesExhausted(root.Name, rs.expected())
		}
		if b.err != nil {
			return nil, b.err
		}
	}

	rs.end(b)
	if b.err != nil {
		return nil, b.err
	}

	switch len(rs.completions) {
	case 0:
		return nil, icterrors.NotCompleted(root.Name)
	case 1:
		return rs.completions[0], nil
	default:
		return nil, icterrors.Ambiguous(root.Name, len(rs.completions))
	}
}
