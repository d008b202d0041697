// Package serr maps the parsing engine's icterrors taxonomy onto HTTP status
// codes and stable error-code strings for cmd/parsrd's API consumers.
package serr

import (
	"errors"
	"net/http"

	"github.com/lechimp-p/parsr/internal/ictiobus/icterrors"
)

// Mapped is the HTTP-facing shape of an error: the status to respond with,
// a stable machine-readable code, and the message to show the caller.
type Mapped struct {
	Status  int
	Code    string
	Message string
}

// codeByKind gives the stable error-code string for each icterrors.Kind.
// These strings are part of the API contract and must not change once a
// client may depend on them.
var codeByKind = map[icterrors.Kind]string{
	icterrors.KindLexer:                  "lex_error",
	icterrors.KindStatesExhausted:        "unexpected_token",
	icterrors.KindNotCompleted:           "incomplete_input",
	icterrors.KindAmbiguous:              "ambiguous_grammar",
	icterrors.KindInfiniteStateExpansion: "unbounded_expansion",
	icterrors.KindConstruction:           "grammar_construction_error",
}

// statusByKind gives the HTTP status for each icterrors.Kind. Every member
// here is a client-supplied-bad-input condition (400/422) except
// KindInfiniteStateExpansion and KindConstruction, which indicate the bound
// grammar itself is broken rather than anything about the request (500).
var statusByKind = map[icterrors.Kind]int{
	icterrors.KindLexer:                  http.StatusBadRequest,
	icterrors.KindStatesExhausted:        http.StatusBadRequest,
	icterrors.KindNotCompleted:           http.StatusBadRequest,
	icterrors.KindAmbiguous:              http.StatusUnprocessableEntity,
	icterrors.KindInfiniteStateExpansion: http.StatusInternalServerError,
	icterrors.KindConstruction:           http.StatusInternalServerError,
}

// Map translates err into its HTTP-facing form. An err that does not wrap an
// *icterrors.Error maps to a generic 500.
func Map(err error) Mapped {
	var icErr *icterrors.Error
	if !errors.As(err, &icErr) {
		return Mapped{Status: http.StatusInternalServerError, Code: "internal_error", Message: "an internal server error occurred"}
	}

	status, ok := statusByKind[icErr.Kind()]
	if !ok {
		status = http.StatusInternalServerError
	}
	code, ok := codeByKind[icErr.Kind()]
	if !ok {
		code = "internal_error"
	}

	return Mapped{Status: status, Code: code, Message: icErr.Error()}
}
