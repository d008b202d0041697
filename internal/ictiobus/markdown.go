package ictiobus

import (
	"fmt"
	"io"
	"strings"

	"github.com/lechimp-p/parsr/internal/ictiobus/bnf"
	"github.com/lechimp-p/parsr/internal/ictiobus/symbol"
)

// FromMarkdown builds a Builder from a Markdown document containing fenced
// "tokens" and "grammar" blocks (see bnf.ExtractMarkdown), registering every
// extracted token into a single lexer mode named "default" and every
// extracted rule into the grammar, then designating root as the start
// symbol. It is the documented-grammar counterpart to hand-assembling a
// Builder with Token/Mode/Rule calls in Go source.
//
// Each token line is `id pattern`, optionally prefixed with `~` to mark the
// token omitted from the token stream (e.g. whitespace or comments):
// `~ws \s+`. Lines without the prefix are accepted tokens of that mode, and
// each is also defined as a Terminal rule under its id, so grammar lines can
// name it like any other rule.
func FromMarkdown(r io.Reader, root string) (*Builder, error) {
	spec, err := bnf.ExtractMarkdown(r)
	if err != nil {
		return nil, fmt.Errorf("extract markdown grammar: %w", err)
	}

	b := NewGrammar()

	var omit, accept []string
	for _, line := range spec.TokenLines {
		omitted := strings.HasPrefix(line, "~")
		if omitted {
			line = strings.TrimSpace(strings.TrimPrefix(line, "~"))
		}

		id, pattern, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("token line missing pattern: %q", line)
		}
		pattern = strings.TrimSpace(pattern)

		b.Token(id, id, pattern, nil)
		if omitted {
			omit = append(omit, id)
		} else {
			accept = append(accept, id)
			b.Rule(id, symbol.Term(id, b.LookupToken(id)))
		}
	}
	b.Mode("default", omit, accept, nil, nil)

	for name, sym := range spec.Rules {
		b.Rule(name, sym)
	}

	b.Start(root, "default")
	return b, nil
}
