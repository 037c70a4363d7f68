// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"encoding/json"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/fableden/fableden/internal/sheet"
)

// maxBodyBytes bounds request bodies; credential payloads are tiny.
const maxBodyBytes = 1 << 20

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signUpResponse struct {
	Username string    `json:"username"`
	ID       ulid.ULID `json:"id"`
	Token    string    `json:"token"`
}

type signInResponse struct {
	Characters []*sheet.Character `json:"characters"`
	Token      string             `json:"token"`
}

type charactersResponse struct {
	Characters []*sheet.Character `json:"characters"`
}

// handleSignUp registers a new account: 201 with the identity and a fresh
// token, or 400 when the username is taken or the input is invalid.
func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.authSvc.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		s.recordSignup("failure")
		writeError(w, s.logger, err)
		return
	}

	s.recordSignup("success")
	writeJSON(w, http.StatusCreated, signUpResponse{
		Username: result.Username,
		ID:       result.ID,
		Token:    result.Token,
	})
}

// handleSignIn authenticates and returns the owned characters plus a token.
// All credential failures share one 401 body.
func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.authSvc.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		s.recordSignin("failure")
		writeError(w, s.logger, err)
		return
	}

	s.recordSignin("success")
	writeJSON(w, http.StatusOK, signInResponse{
		Characters: result.Characters,
		Token:      result.Token,
	})
}

// handleUserCharacters returns the characters owned by the account named in
// the userId query parameter. 401 with a generic body when the account does
// not exist or the id does not parse.
func (s *Server) handleUserCharacters(w http.ResponseWriter, r *http.Request) {
	accountID, err := ulid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: msgUserNotFound})
		return
	}

	characters, err := s.authSvc.OwnedCharacters(r.Context(), accountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, charactersResponse{Characters: characters})
}

// decodeBody decodes a JSON request body, answering 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body."})
		return false
	}
	return true
}

func (s *Server) recordSignup(outcome string) {
	if s.metrics != nil {
		s.metrics.SignupsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) recordSignin(outcome string) {
	if s.metrics != nil {
		s.metrics.SigninsTotal.WithLabelValues(outcome).Inc()
	}
}
