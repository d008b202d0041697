// Package icterrors holds the error taxonomy returned by the parsing engine.
// Every error defined here is fatal to the parse or grammar-construction call
// that produced it; none are retried or caught internally.
package icterrors

import (
	"fmt"
	"strings"
)

// Kind identifies which member of the error taxonomy an Error is.
type Kind int

const (
	// KindLexer means no token in the active lexer mode matched at some
	// position in the source text.
	KindLexer Kind = iota

	// KindStatesExhausted means a token arrived and no live alternative in
	// the parse state tree accepted it.
	KindStatesExhausted

	// KindNotCompleted means the input was consumed in full but no branch of
	// the parse state tree reached a completed root alternative.
	KindNotCompleted

	// KindAmbiguous means more than one distinct root completion exists.
	KindAmbiguous

	// KindInfiniteStateExpansion means state tree construction exceeded the
	// recursion bound without consuming a token.
	KindInfiniteStateExpansion

	// KindConstruction means a problem was found while instantiating a
	// grammar: an undefined symbol name, a zero-length-matching token, a
	// duplicate reducer, or a non-callable reducer.
	KindConstruction
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "LexerError"
	case KindStatesExhausted:
		return "StatesExhausted"
	case KindNotCompleted:
		return "NotCompleted"
	case KindAmbiguous:
		return "Ambiguous"
	case KindInfiniteStateExpansion:
		return "InfiniteStateExpansion"
	case KindConstruction:
		return "ConstructionError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the error type returned from every fallible operation in the
// engine. It carries a human-readable message plus whatever positional or
// symbol context is available for the Kind in question.
type Error struct {
	kind Kind
	msg  string

	// Symbol is the name of the grammar symbol most relevant to the error,
	// if any (the offending state's symbol, or the symbol being constructed).
	Symbol string

	// Pos is the byte offset into the source text the error occurred at.
	// Only meaningful for KindLexer.
	Pos int

	// Mode is the name of the active lexer mode. Only meaningful for
	// KindLexer.
	Mode string

	// Expected is the set of terminal names that would have been accepted.
	// Meaningful for KindLexer and KindStatesExhausted.
	Expected []string

	wrap error
}

func (e *Error) Error() string {
	return e.msg
}

// Unwrap gives the error e wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

// Kind returns which member of the taxonomy e is.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is reports whether target is also an *Error of the same Kind, so that
// errors.Is(err, other) matches any error of other's Kind regardless of
// message; callers more commonly switch on Kind() directly.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.kind == e.kind
}

func windowOf(text string, pos int) string {
	end := pos + 10
	if end > len(text) {
		end = len(text)
	}
	if pos > len(text) {
		pos = len(text)
	}

	w := text[pos:end]
	w = strings.ReplaceAll(w, "\n", `\n`)
	w = strings.ReplaceAll(w, "\t", `\t`)
	return w
}

// Lexer creates the error returned when no token in mode matches at pos in
// text. expected is the union of terminal names that mode would have
// accepted.
func Lexer(text string, pos int, mode string, expected []string) error {
	win := windowOf(text, pos)
	msg := fmt.Sprintf("lexical error at position %d in mode %q: no token matches %q", pos, mode, win)
	if len(expected) > 0 {
		msg += fmt.Sprintf(" (expected one of: %s)", strings.Join(expected, ", "))
	}

	return &Error{
		kind:     KindLexer,
		msg:      msg,
		Pos:      pos,
		Mode:     mode,
		Expected: expected,
	}
}

// StatesExhausted creates the error returned when a token arrives but no
// live alternative in the state tree accepts it.
func StatesExhausted(symbol string, expected []string) error {
	msg := fmt.Sprintf("unexpected token while matching %s", symbol)
	if len(expected) > 0 {
		msg += fmt.Sprintf("; expected one of: %s", strings.Join(expected, ", "))
	}

	return &Error{
		kind:     KindStatesExhausted,
		msg:      msg,
		Symbol:   symbol,
		Expected: expected,
	}
}

// NotCompleted creates the error returned when input is exhausted but no
// branch of symbol reached a completed state.
func NotCompleted(symbol string) error {
	return &Error{
		kind:   KindNotCompleted,
		msg:    fmt.Sprintf("input ended before %s was fully matched", symbol),
		Symbol: symbol,
	}
}

// Ambiguous creates the error returned when more than one distinct root
// completion exists for symbol.
func Ambiguous(symbol string, count int) error {
	return &Error{
		kind:   KindAmbiguous,
		msg:    fmt.Sprintf("grammar is ambiguous: %d distinct parses of %s", count, symbol),
		Symbol: symbol,
	}
}

// InfiniteStateExpansion creates the error returned when state tree
// construction recurses past the configured depth bound without consuming a
// token, naming the deepest symbol reached.
func InfiniteStateExpansion(deepestSymbol string, depth int) error {
	return &Error{
		kind:   KindInfiniteStateExpansion,
		msg:    fmt.Sprintf("state expansion exceeded depth %d at symbol %s without consuming a token; grammar may have an unguarded cycle", depth, deepestSymbol),
		Symbol: deepestSymbol,
	}
}

// Construction creates a grammar-instantiation-time error. technical is the
// Error() message; symbol (optional) names the offending symbol.
func Construction(symbol string, technicalFormat string, a ...interface{}) error {
	return &Error{
		kind:   KindConstruction,
		msg:    fmt.Sprintf(technicalFormat, a...),
		Symbol: symbol,
	}
}

// Wrap returns a copy of err with wrapped set as its cause, such that
// errors.Unwrap(err) returns wrapped. err must have been created by one of
// this package's constructors.
func Wrap(err error, wrapped error) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	cp := *e
	cp.wrap = wrapped
	return &cp
}
