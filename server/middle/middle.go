// Package middle contains the HTTP middleware chain used by cmd/parsrd.
package middle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lechimp-p/parsr/server/result"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler
// which wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// ctxKey is a key in the context of a request populated by this package's
// middleware.
type ctxKey int

const (
	ctxRequestID ctxKey = iota
	ctxAPIKeyOK
)

// RequestIDFrom gets the request ID that RequestID attached to req's
// context, or "" if it was never run for this request.
func RequestIDFrom(req *http.Request) string {
	id, _ := req.Context().Value(ctxRequestID).(string)
	return id
}

// statusRecorder wraps a ResponseWriter so Logging can observe the status
// code a handler actually wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestID generates a fresh UUID per request, stashes it in the request's
// context, and echoes it back as the X-Request-Id response header, so a
// caller can correlate a response with the server-side log lines for it.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(req.Context(), ctxRequestID, id)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// Logging logs one structured line per request via slog once the handler
// returns, including the request ID RequestID attached (if that middleware
// ran ahead of this one in the chain).
func Logging() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, req)
			slog.Info("request",
				"request_id", RequestIDFrom(req),
				"method", req.Method,
				"path", req.URL.Path,
				"status", sr.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Recoverer returns a Middleware that catches a panic from the rest of the
// chain, writes a generic HTTP-500 in its place, and logs the panic and
// stack trace rather than letting it crash the server.
func Recoverer() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer panicTo500(w, req)
			next.ServeHTTP(w, req)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.InternalServerError(
			"panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack()),
		)
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}

// APIKeyAuth returns a Middleware that requires the X-Api-Key request header
// to match hash, a bcrypt hash of the expected key (as produced by
// bcrypt.GenerateFromPassword). Requests without a matching key get an
// HTTP-401 and never reach next; the comparison's constant-time-ish failure
// delay comes from bcrypt itself, not from an added sleep.
func APIKeyAuth(hash []byte) Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			key := req.Header.Get("X-Api-Key")
			if key == "" || bcrypt.CompareHashAndPassword(hash, []byte(key)) != nil {
				r := result.Unauthorized("bad_api_key", "missing or incorrect API key")
				r.WriteResponse(w)
				r.Log(req)
				return
			}
			ctx := context.WithValue(req.Context(), ctxAPIKeyOK, true)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// HashAPIKey is the inverse of APIKeyAuth's comparison: it produces the
// bcrypt hash a Config's admin_api_key_hash should store. cost mirrors the value
// the teacher's user-password hashing uses.
func HashAPIKey(key string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 12)
	if err != nil {
		return nil, fmt.Errorf("hash API key: %w", err)
	}
	return hash, nil
}
