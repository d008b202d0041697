/*
Parsrd runs an HTTP daemon wrapping the parsr engine: POST a grammar's source
text to /parse and get back its fully-reduced value, or a mapped error.

Usage:

	parsrd [flags]

The flags are:

	-c, --config FILE
		Load daemon configuration from the given TOML file. Defaults to
		"parsrd.toml" in the current directory; it is not an error for the
		default to be missing.

	-l, --addr ADDRESS
		Listen on the given address, overriding the config file's addr.

	-g, --grammar FILE
		Load the grammar to serve from the given Markdown file (see
		internal/ictiobus.FromMarkdown), overriding the config file's
		grammar_file. If neither is given, the built-in S-expression
		calculator demo grammar is served at root symbol "expr".

	--log-level LEVEL
		One of debug, info, warn, error. Overrides the config file's
		log_level.
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/lechimp-p/parsr/internal/calc"
	"github.com/lechimp-p/parsr/internal/ictiobus"
	"github.com/lechimp-p/parsr/internal/ictiobus/types"
	"github.com/lechimp-p/parsr/server/middle"
	"github.com/lechimp-p/parsr/server/result"
	"github.com/lechimp-p/parsr/server/serr"
)

// Config is parsrd's daemon configuration, loadable from a TOML file and
// overridable by CLI flags.
type Config struct {
	Addr        string `toml:"addr"`
	GrammarFile string `toml:"grammar_file"`
	GrammarRoot string `toml:"grammar_root"`
	LogLevel    string `toml:"log_level"`

	// AdminAPIKeyHash, if non-empty, is a bcrypt hash (see
	// middle.HashAPIKey) that callers of /parse must present via the
	// X-Api-Key header. Left empty, /parse requires no authentication.
	AdminAPIKeyHash string `toml:"admin_api_key_hash"`
}

func defaultConfig() Config {
	return Config{
		Addr:        "localhost:8080",
		GrammarRoot: "expr",
		LogLevel:    "info",
	}
}

var (
	flagConfig   = pflag.StringP("config", "c", "parsrd.toml", "Load daemon configuration from the given TOML file.")
	flagAddr     = pflag.StringP("addr", "l", "", "Listen on the given address.")
	flagGrammar  = pflag.StringP("grammar", "g", "", "Load the grammar to serve from the given Markdown file.")
	flagLogLevel = pflag.String("log-level", "", "One of debug, info, warn, error.")
)

func main() {
	pflag.Parse()

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(*flagConfig, &cfg); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "could not read config %q: %s\n", *flagConfig, err)
		os.Exit(1)
	}
	if pflag.Lookup("addr").Changed {
		cfg.Addr = *flagAddr
	}
	if pflag.Lookup("grammar").Changed {
		cfg.GrammarFile = *flagGrammar
	}
	if pflag.Lookup("log-level").Changed {
		cfg.LogLevel = *flagLogLevel
	}

	slog.SetLogLoggerLevel(parseLevel(cfg.LogLevel))

	frontend, err := loadFrontend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build grammar: %s\n", err)
		os.Exit(1)
	}

	instanceID := uuid.NewString()
	startedAt := time.Now()

	r := chi.NewRouter()
	r.Use(chiMiddleware(middle.RequestID()))
	r.Use(chiMiddleware(middle.Logging()))
	r.Use(chiMiddleware(middle.Recoverer()))

	r.Get("/healthz", handleHealthz(instanceID, startedAt))
	r.Group(func(r chi.Router) {
		if cfg.AdminAPIKeyHash != "" {
			r.Use(chiMiddleware(middle.APIKeyAuth([]byte(cfg.AdminAPIKeyHash))))
		}
		r.Post("/parse", handleParse(frontend))
	})

	slog.Info("parsrd listening", "addr", cfg.Addr, "instance_id", instanceID)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %s\n", err)
		os.Exit(1)
	}
}

// chiMiddleware adapts a middle.Middleware (an ordinary func(http.Handler)
// http.Handler) to chi's middleware signature, which is the same shape but
// named differently; this is purely so call sites read as chi idioms.
func chiMiddleware(m middle.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return m(next) }
}

func loadFrontend(cfg Config) (*ictiobus.Frontend[any], error) {
	if cfg.GrammarFile == "" {
		fe, err := calc.New()
		if err != nil {
			return nil, err
		}
		return anyFrontend(fe), nil
	}

	f, err := os.Open(cfg.GrammarFile)
	if err != nil {
		return nil, fmt.Errorf("open grammar file: %w", err)
	}
	defer f.Close()

	b, err := ictiobus.FromMarkdown(f, cfg.GrammarRoot)
	if err != nil {
		return nil, err
	}
	return ictiobus.Build[any](b)
}

// anyFrontend adapts a Frontend[int] (the built-in calculator) to the
// Frontend[any] shape the rest of main deals in, so the HTTP handlers don't
// need to know which source produced the grammar being served.
func anyFrontend(fe *ictiobus.Frontend[int]) *ictiobus.Frontend[any] {
	return ictiobus.Adapt[int, any](fe, func(v int) any { return v })
}

type parseRequest struct {
	Text    string         `json:"text"`
	Context map[string]any `json:"context"`
}

func handleParse(fe *ictiobus.Frontend[any]) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body parseRequest
		if err := decodeJSON(req, &body); err != nil {
			r := result.BadRequest("malformed_request", err.Error())
			r.WriteResponse(w)
			r.Log(req)
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), 10*time.Second)
		defer cancel()

		value, err := fe.ParseString(ctx, body.Text, types.Context(body.Context))
		if err != nil {
			mapped := serr.Map(err)
			r := result.Err(mapped.Status, mapped.Code, mapped.Message, "parse failed: %s", err)
			r.WriteResponse(w)
			r.Log(req)
			return
		}

		r := result.OK(value)
		r.WriteResponse(w)
		r.Log(req)
	}
}

type healthzResponse struct {
	Status     string `json:"status"`
	InstanceID string `json:"instance_id"`
	UptimeSecs int64  `json:"uptime_seconds"`
}

func handleHealthz(instanceID string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r := result.OK(healthzResponse{
			Status:     "ok",
			InstanceID: instanceID,
			UptimeSecs: int64(time.Since(startedAt).Seconds()),
		})
		r.WriteResponse(w)
	}
}

func decodeJSON(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
