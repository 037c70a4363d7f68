// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fableden/fableden/internal/auth"
)

// Gate guards protected routes with bearer-token verification.
//
// Each request moves through exactly one of two terminal outcomes:
// the token verifies and the identity is attached to the request context
// before the next handler runs (authenticated), or the gate writes a 401
// and the chain stops (rejected). There is no state shared across
// requests: no session, no counter, no rate limiting.
type Gate struct {
	tokens  *auth.TokenCodec
	logger  *slog.Logger
	observe func(outcome string)
}

// NewGate creates a token gate. observe is called with "valid" or "invalid"
// per verification and may be nil.
func NewGate(tokens *auth.TokenCodec, logger *slog.Logger, observe func(outcome string)) *Gate {
	if observe == nil {
		observe = func(string) {}
	}
	return &Gate{tokens: tokens, logger: logger, observe: observe}
}

// Require wraps a handler so it only runs for verified identities.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.observe("invalid")
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidToken})
			return
		}

		identity, err := g.tokens.Verify(token)
		if err != nil {
			g.observe("invalid")
			// Malformed and tampered tokens get the same response; the
			// reason is only interesting to us.
			g.logger.Debug("token rejected", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgInvalidToken})
			return
		}

		g.observe("valid")
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// cors allows cross-origin browser clients, mirroring the permissive policy
// the service has always shipped with.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panicking handler into a 500 for that request instead of
// taking down the handling of unrelated requests.
func recoverer(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("handler panicked", "panic", rec, "path", r.URL.Path)
				writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgInternal})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
