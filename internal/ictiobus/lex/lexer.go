package lex

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
	"github.com/lechimp-p/parsr/internal/util"
)

// Lexer scans source text into a flat sequence of tokens using a stack of
// Modes. It holds no per-call state; a single Lexer can be reused across any
// number of Lex calls.
type Lexer struct {
	modes map[string]*Mode
	start string
}

// NewLexer validates modes and the named start mode and returns a Lexer
// ready to scan text. It is a Construction-kind error for start to be
// undefined, for any mode to appear twice, or for a PushOn target to name a
// mode that isn't in modes.
func NewLexer(start string, modes ...*Mode) (*Lexer, error) {
	byName := make(map[string]*Mode, len(modes))
	for _, m := range modes {
		if _, dup := byName[m.Name]; dup {
			return nil, icterrors.Construction(m.Name, "duplicate lexer mode %q", m.Name)
		}
		byName[m.Name] = m
	}

	if _, ok := byName[start]; !ok {
		return nil, icterrors.Construction(start, "start mode %q is not defined", start)
	}

	for _, m := range modes {
		for tokID, target := range m.PushOn {
			if _, ok := byName[target]; !ok {
				return nil, icterrors.Construction(m.Name, "mode %q pushes to undefined mode %q on token %q", m.Name, target, tokID)
			}
		}
	}

	return &Lexer{modes: byName, start: start}, nil
}

// Lex reads all of r and scans it into a token stream under ctx. The
// returned stream is fully materialized; Peek and Next never themselves
// fail, since any lexical error is surfaced by Lex itself.
func (lx *Lexer) Lex(r io.Reader, ctx types.Context) (types.TokenStream, error) {
	toks, err := lx.LexAll(r, ctx)
	if err != nil {
		return nil, err
	}
	return newSliceStream(toks), nil
}

// LexAll reads all of r and returns the flat slice of tokens it scans to,
// ending with a single TokenEndOfText sentinel.
func (lx *Lexer) LexAll(r io.Reader, ctx types.Context) ([]types.Token, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return lx.LexString(string(data), ctx)
}

// LexString is LexAll without the io.Reader indirection. text is normalized
// to Unicode NFC first, so patterns written against one precomposed form of
// an accented character also match a decomposed equivalent in the source.
func (lx *Lexer) LexString(text string, ctx types.Context) ([]types.Token, error) {
	text = norm.NFC.String(text)

	var stack util.Stack[*Mode]
	stack.Push(lx.modes[lx.start])

	var out []types.Token
	pos := 0

	for pos < len(text) {
		cur := stack.Peek()

		m, err := lx.tryMatch(cur, text, pos, ctx)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, icterrors.Lexer(text, pos, cur.Name, cur.expectedNames())
		}

		if cur.PopOn[m.class.ID()] {
			stack.Pop()
		}
		if target, ok := cur.PushOn[m.class.ID()]; ok {
			stack.Push(lx.modes[target])
		}

		if !cur.isOmitted(m.class.ID()) {
			out = append(out, *m)
		}

		pos = m.end
		if stack.Empty() {
			// popped the last mode on the stack; nothing further can be
			// scanned even if text remains.
			break
		}
	}

	line, linePos, fullLine := lineInfoAt(text, len(text))
	out = append(out, matchRecord{
		class:    types.TokenEndOfText,
		lexeme:   "",
		value:    "",
		start:    len(text),
		end:      len(text),
		line:     line,
		linePos:  linePos,
		fullLine: fullLine,
	})

	return out, nil
}

func (lx *Lexer) tryMatch(m *Mode, text string, pos int, ctx types.Context) (*matchRecord, error) {
	for _, t := range m.trialOrder() {
		rec, err := t.match(text, pos, ctx)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, nil
}

// sliceStream adapts a materialized []types.Token to types.TokenStream.
type sliceStream struct {
	toks []types.Token
	pos  int
}

func newSliceStream(toks []types.Token) *sliceStream {
	return &sliceStream{toks: toks}
}

func (s *sliceStream) Next() types.Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	t := s.toks[s.pos]
	s.pos++
	return t
}

func (s *sliceStream) Peek() types.Token {
	if s.pos >= len(s.toks) {
		return nil
	}
	return s.toks[s.pos]
}

func (s *sliceStream) HasNext() bool {
	return s.pos < len(s.toks)
}

func (s *sliceStream) String() string {
	var sb strings.Builder
	for i, t := range s.toks {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
