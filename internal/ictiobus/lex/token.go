// Package lex implements the mode-stacked lexer: Tokens are declared with a
// name, a pattern, and an optional transform; Modes group Tokens into an
// ordered omit-then-accept trial list and declare which tokens push or pop
// them on the mode stack; a Lexer walks source text left to right, at each
// position trying the active mode's tokens in declared order and taking the
// first one that matches.
package lex

import (
	"fmt"
	"regexp"

	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// Transform converts the raw value captured by a Token's pattern (the full
// lexeme, or a map of named capture groups to their captured text if the
// pattern defines any) into the value callers and reducers actually see.
// ctx is the same context supplied to the parse call the token was matched
// during.
type Transform func(value any, ctx types.Context) any

// Token is a terminal symbol's lexical definition: an identifying name, a
// pattern it is recognized by, and an optional transform applied to produce
// the match's value.
type Token struct {
	id        string
	human     string
	pattern   string
	re        *regexp.Regexp
	transform Transform
}

// NewToken compiles pattern and returns a Token usable in any Mode's omit or
// accept list. id is the token's identity for grammar and error-reporting
// purposes; human is a reader-facing name used in expected-token lists.
// transform may be nil, in which case the match's value is its raw captured
// value unchanged.
func NewToken(id, human, pattern string, transform Transform) (*Token, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("token %s: bad pattern: %w", id, err)
	}

	return &Token{
		id:        id,
		human:     human,
		pattern:   pattern,
		re:        re,
		transform: transform,
	}, nil
}

// ID returns the token's identity.
func (t *Token) ID() string { return t.id }

// Human returns the token's reader-facing name.
func (t *Token) Human() string { return t.human }

// Equal returns whether o is a Token (pointer or value) with the same ID.
func (t *Token) Equal(o any) bool {
	switch other := o.(type) {
	case *Token:
		return other != nil && other.id == t.id
	case Token:
		return other.id == t.id
	default:
		return false
	}
}

func (t *Token) String() string {
	return fmt.Sprintf("Token<%s /%s/>", t.id, t.pattern)
}

// rawValue extracts the raw capture value from a regexp match: if the
// pattern has named groups, a map of group name to captured text; otherwise
// the full matched lexeme.
func rawValue(re *regexp.Regexp, lexeme string, submatches []int) any {
	names := re.SubexpNames()
	hasNamed := false
	for _, n := range names {
		if n != "" {
			hasNamed = true
			break
		}
	}
	if !hasNamed {
		return lexeme
	}

	groups := make(map[string]string)
	for i, name := range names {
		if name == "" || i*2+1 >= len(submatches) {
			continue
		}
		s, e := submatches[i*2], submatches[i*2+1]
		if s < 0 || e < 0 {
			continue
		}
		groups[name] = lexeme[s-submatches[0] : e-submatches[0]]
	}
	return groups
}

// match attempts to recognize t at text[pos:]. It returns nil, nil if t does
// not match there. A zero-length match is reported as a Construction-kind
// error rather than silently looping the lexer in place forever.
func (t *Token) match(text string, pos int, ctx types.Context) (*matchRecord, error) {
	rest := text[pos:]
	loc := t.re.FindStringSubmatchIndex(rest)
	if loc == nil {
		return nil, nil
	}
	if loc[1] == 0 {
		return nil, icterrors.Construction(t.id, "token %s matches the empty string at position %d; patterns must consume at least one character", t.id, pos)
	}

	lexeme := rest[loc[0]:loc[1]]
	value := rawValue(t.re, lexeme, loc)
	if t.transform != nil {
		value = t.transform(value, ctx)
	}

	line, linePos, fullLine := lineInfoAt(text, pos)

	return &matchRecord{
		class:    t,
		lexeme:   lexeme,
		value:    value,
		start:    pos,
		end:      pos + len(lexeme),
		line:     line,
		linePos:  linePos,
		fullLine: fullLine,
	}, nil
}
