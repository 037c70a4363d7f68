// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/samber/oops"

	"github.com/fableden/fableden/pkg/errutil"
)

// errorResponse is the JSON body for every failure.
type errorResponse struct {
	Error string `json:"error"`
}

// Canonical client-facing messages. Invalid credentials and unknown usernames
// share one message so the API cannot be used to enumerate accounts.
const (
	msgInvalidCredentials = "Invalid username or password."
	msgUsernameTaken      = "Username already taken."
	msgInvalidToken       = "Invalid or missing token."
	msgUserNotFound       = "Could not find user."
	msgInternal           = "Something went wrong."
)

// errorDetail controls whether the oops error message is safe to show.
// Validation codes carry user-actionable messages; everything else gets a
// canned message so internals never leak.
var errorStatus = map[string]struct {
	status  int
	message string
}{
	"AUTH_INVALID_USERNAME":    {http.StatusBadRequest, ""},
	"AUTH_EMPTY_PASSWORD":      {http.StatusBadRequest, ""},
	"CHARACTER_INVALID":        {http.StatusBadRequest, ""},
	"AUTH_USERNAME_TAKEN":      {http.StatusBadRequest, msgUsernameTaken},
	"AUTH_INVALID_CREDENTIALS": {http.StatusUnauthorized, msgInvalidCredentials},
	"AUTH_INVALID_TOKEN":       {http.StatusUnauthorized, msgInvalidToken},
	"ACCOUNT_NOT_FOUND":        {http.StatusUnauthorized, msgUserNotFound},
	"CHARACTER_NOT_FOUND":      {http.StatusNotFound, "Character not found."},
	"MONSTER_NOT_FOUND":        {http.StatusNotFound, "Monster not found."},
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Debug("failed to write response body", "error", err)
	}
}

// writeError maps an error to an HTTP status and a client-safe message.
// Unknown errors become 500 with a generic body; the detail goes to the log,
// never to the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := msgInternal

	if oopsErr, ok := oops.AsOops(err); ok {
		code, _ := oopsErr.Code().(string)
		if entry, known := errorStatus[code]; known {
			status = entry.status
			message = entry.message
			if message == "" {
				message = oopsErr.Error()
			}
		}
	}

	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}
