package bnf

import (
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
)

// Parse parses one BNF-shorthand rule body (spec §6's `sym` production) and
// returns the symbol graph it desugars to, ready to pass to a Grammar's
// Rule/Define call. Forward references inside src (atoms naming rules the
// caller has not yet registered) come back as Deferred nodes for the
// caller's own Grammar.Resolve to fix up; this package's own bootstrap
// grammar never leaves one of its own Deferred nodes unresolved.
func Parse(src string) (*symbol.Symbol, error) {
	once.Do(bootstrap)
	if bootErr != nil {
		return nil, bootErr
	}

	toks, err := bootLex.LexString(src, nil)
	if err != nil {
		return nil, err
	}

	result, err := bootParse.Parse(toks, nil)
	if err != nil {
		return nil, err
	}
	return result.(*symbol.Symbol), nil
}
