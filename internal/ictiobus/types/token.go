package types

// Token is a match record: a lexeme read from text combined with the token
// class it is an instance of, the value produced by running that class's
// transform (if any) over the match, and enough positional information to
// support error reporting.
type Token interface {
	// Class returns the TokenClass of the Token.
	Class() TokenClass

	// Lexeme returns the text that was matched, as it appears in the source
	// text, before any transform is applied.
	Lexeme() string

	// Value returns the transformed value carried by this match: the result
	// of the token's transform function if one is defined, else a mapping of
	// named capture groups to their captured strings if the token's pattern
	// has any, else the raw lexeme.
	Value() any

	// Start returns the byte offset into the source text that the match
	// begins at.
	Start() int

	// End returns the byte offset into the source text one past the last
	// byte of the match.
	End() int

	// LinePos returns the 1-indexed character-of-line that the token appears
	// on in the source text.
	LinePos() int

	// Line returns the 1-indexed line number of the line that the token
	// appears on in the source text.
	Line() int

	// FullLine returns the full text of the line in source that the token
	// appears on, including both anything that came before the token as well
	// as after it on the line.
	FullLine() string

	// String is the string representation.
	String() string
}
