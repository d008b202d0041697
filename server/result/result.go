// Package result contains the Result type used to write out parsrd's HTTP
// API responses, and the envelope all of its response bodies take.
package result

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/text/language"
)

// Envelope is the JSON body every parsrd response takes: exactly one of
// Data or Error is populated.
type Envelope struct {
	Data  interface{} `json:"data,omitempty"`
	Error *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the JSON shape of Envelope.Error.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OK returns a Result containing an HTTP-200 with respObj as its data, along
// with a more detailed message (if desired; if none is provided it defaults
// to a generic one) that is not displayed to the caller, only logged.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	internalMsgFmt := "OK"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Response(http.StatusOK, respObj, internalMsgFmt, msgArgs...)
}

// BadRequest returns a Result containing an HTTP-400 with code and userMsg
// as the caller-visible error, along with an internal message for the log.
func BadRequest(code, userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt := "bad request"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusBadRequest, code, userMsg, internalMsgFmt, msgArgs...)
}

// Unauthorized returns a Result containing an HTTP-401 along with the proper
// WWW-Authenticate header.
func Unauthorized(code, userMsg string, internalMsg ...interface{}) Result {
	internalMsgFmt := "unauthorized"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	if userMsg == "" {
		userMsg = "you are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, code, userMsg, internalMsgFmt, msgArgs...).
		WithHeader("WWW-Authenticate", `Basic realm="parsrd", charset="utf-8"`)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	internalMsgFmt := "not found"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusNotFound, "not_found", "the requested resource was not found", internalMsgFmt, msgArgs...)
}

// InternalServerError returns a Result containing an HTTP-500. internalMsg,
// if given, is a format string passed to fmt.Sprintf along with any
// following arguments.
func InternalServerError(internalMsg ...interface{}) Result {
	internalMsgFmt := "internal server error"
	var msgArgs []interface{}
	if len(internalMsg) >= 1 {
		internalMsgFmt = internalMsg[0].(string)
		msgArgs = internalMsg[1:]
	}

	return Err(http.StatusInternalServerError, "internal_error", "an internal server error occurred", internalMsgFmt, msgArgs...)
}

// Response builds a Result carrying respObj as its Envelope.Data.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		Status:      status,
		InternalMsg: msg,
		envelope:    Envelope{Data: respObj},
	}
}

// Err builds a Result carrying code and userMsg as its Envelope.Error.
func Err(status int, code, userMsg, internalMsg string, v ...interface{}) Result {
	msg := fmt.Sprintf(internalMsg, v...)
	return Result{
		Status:      status,
		InternalMsg: msg,
		envelope:    Envelope{Error: &ErrorBody{Code: code, Message: userMsg}},
	}
}

// Result is a prepared HTTP response, ready to have WriteResponse called on
// it once, from within an endpoint handler.
type Result struct {
	Status      int
	InternalMsg string

	envelope Envelope
	hdrs     [][2]string

	// set by PrepareMarshaledResponse.
	bodyBytes []byte
}

// WithHeader returns a copy of r with an additional header queued to be set
// when it is written.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

// WithContentLanguage returns a copy of r with its Content-Language header
// set to the canonical BCP 47 form of tag (e.g. "en-us" becomes "en-US").
// An unparseable tag is left out rather than written malformed.
func (r Result) WithContentLanguage(tag string) Result {
	parsed, err := language.Parse(tag)
	if err != nil {
		return r
	}
	return r.WithHeader("Content-Language", parsed.String())
}

// PrepareMarshaledResponse marshals the envelope to bodyBytes if it has not
// already been done. Calling it more than once has no further effect.
func (r *Result) PrepareMarshaledResponse() error {
	if r.bodyBytes != nil {
		return nil
	}
	body, err := json.Marshal(r.envelope)
	if err != nil {
		return err
	}
	r.bodyBytes = body
	return nil
}

// WriteResponse marshals the envelope and writes it, along with the status
// code and any queued headers, to w.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	if err := r.PrepareMarshaledResponse(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"internal_error","message":"could not marshal response"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.WriteHeader(r.Status)
	w.Write(r.bodyBytes)
}

// Log records the outcome of the request that produced r at a level derived
// from its status: 5xx logs as an error, 4xx as a warning, anything else as
// debug trace.
func (r Result) Log(req *http.Request) {
	attrs := []any{"method", req.Method, "path", req.URL.Path, "status", r.Status, "msg", r.InternalMsg}
	switch {
	case r.Status >= 500:
		slog.Error("request failed", attrs...)
	case r.Status >= 400:
		slog.Warn("request rejected", attrs...)
	default:
		slog.Debug("request handled", attrs...)
	}
}
