package lex

import (
	"fmt"
	"strings"

	"github.com/lechimp-p/parsr/internal/ictiobus/types"
)

// matchRecord is the concrete types.Token produced by a successful Token
// match: the class that matched, the raw and transformed values, and enough
// position bookkeeping to point at the offending text in an error.
type matchRecord struct {
	class    types.TokenClass
	lexeme   string
	value    any
	start    int
	end      int
	line     int
	linePos  int
	fullLine string
}

func (m matchRecord) Class() types.TokenClass { return m.class }
func (m matchRecord) Lexeme() string          { return m.lexeme }
func (m matchRecord) Value() any              { return m.value }
func (m matchRecord) Start() int              { return m.start }
func (m matchRecord) End() int                { return m.end }
func (m matchRecord) Line() int               { return m.line }
func (m matchRecord) LinePos() int            { return m.linePos }
func (m matchRecord) FullLine() string        { return m.fullLine }

func (m matchRecord) String() string {
	lexeme := m.lexeme
	if len(lexeme) > 20 {
		lexeme = lexeme[:17] + "..."
	}
	return fmt.Sprintf("(%s %q)@%d:%d", m.class.ID(), lexeme, m.line, m.linePos)
}

// lineInfoAt returns the 1-indexed line number, 1-indexed char-of-line, and
// full text of the line that byte offset pos falls on within text.
func lineInfoAt(text string, pos int) (line, linePos int, fullLine string) {
	line = 1
	lineStart := 0
	for i := 0; i < pos && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	lineEnd := strings.IndexByte(text[lineStart:], '\n')
	if lineEnd == -1 {
		fullLine = text[lineStart:]
	} else {
		fullLine = text[lineStart : lineStart+lineEnd]
	}

	linePos = pos - lineStart + 1
	return
}
