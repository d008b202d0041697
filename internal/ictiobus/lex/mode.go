package lex

// Mode is one state of the lexer's mode stack. At any position in the text,
// only the mode on top of the stack is consulted: its Omit tokens are tried
// first, in the order given, then its Accept tokens, also in order. The
// first token whose pattern matches wins; ordering a more specific token
// ahead of a more general one (e.g. a keyword before a generic identifier)
// is the caller's responsibility.
type Mode struct {
	// Name identifies the mode. It is also the name used to target it from
	// another mode's PushOn.
	Name string

	// Omit lists tokens that are recognized and consumed but never appear in
	// the lexer's output (whitespace, comments).
	Omit []*Token

	// Accept lists tokens that are recognized, consumed, and emitted.
	Accept []*Token

	// PushOn maps a token ID to the name of the mode to push onto the stack
	// when that token is matched while this mode is active. The push
	// happens after any pop triggered by the same token.
	PushOn map[string]string

	// PopOn is the set of token IDs that, when matched while this mode is
	// active, pop this mode off the stack.
	PopOn map[string]bool
}

// trialOrder returns every token this mode tries, omit tokens first, in the
// exact order match attempts are made.
func (m *Mode) trialOrder() []*Token {
	all := make([]*Token, 0, len(m.Omit)+len(m.Accept))
	all = append(all, m.Omit...)
	all = append(all, m.Accept...)
	return all
}

func (m *Mode) isOmitted(id string) bool {
	for _, t := range m.Omit {
		if t.id == id {
			return true
		}
	}
	return false
}

// expectedNames returns the human names of every token this mode would try,
// for use in lexer error messages.
func (m *Mode) expectedNames() []string {
	names := make([]string, 0, len(m.Omit)+len(m.Accept))
	for _, t := range m.trialOrder() {
		names = append(names, t.Human())
	}
	return names
}
