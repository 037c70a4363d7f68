// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fableden/fableden/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGate_Require(t *testing.T) {
	codec, err := auth.NewTokenCodec([]byte("test-secret"))
	require.NoError(t, err)

	identity := auth.Identity{AccountID: ulid.Make(), Username: "alice"}
	token, err := codec.Issue(identity)
	require.NoError(t, err)

	t.Run("attaches identity and reports outcome", func(t *testing.T) {
		var outcomes []string
		gate := NewGate(codec, discardLogger(), func(outcome string) {
			outcomes = append(outcomes, outcome)
		})

		var seen *auth.Identity
		handler := gate.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = IdentityFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/characters", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)
		assert.Equal(t, identity.AccountID, seen.AccountID)
		assert.Equal(t, "alice", seen.Username)
		assert.Equal(t, []string{"valid"}, outcomes)
	})

	t.Run("rejected requests never reach the handler", func(t *testing.T) {
		var outcomes []string
		gate := NewGate(codec, discardLogger(), func(outcome string) {
			outcomes = append(outcomes, outcome)
		})

		called := false
		handler := gate.Require(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		for _, header := range []string{"", "Bearer ", "Bearer garbage", "Basic dXNlcjpwYXNz"} {
			req := httptest.NewRequest(http.MethodGet, "/characters", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		}

		assert.False(t, called)
		assert.Equal(t, []string{"invalid", "invalid", "invalid", "invalid"}, outcomes)
	})

	t.Run("nil observe is allowed", func(t *testing.T) {
		gate := NewGate(codec, discardLogger(), nil)
		handler := gate.Require(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/characters", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestIdentityFrom_MissingIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, IdentityFrom(req.Context()))
}

func TestRecoverer(t *testing.T) {
	handler := recoverer(discardLogger(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong.")
}

func TestCORS_PassThrough(t *testing.T) {
	handler := cors(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
