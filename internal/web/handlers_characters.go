// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/fableden/fableden/internal/sheet"
)

type createCharacterRequest struct {
	Name      string              `json:"name"`
	Race      string              `json:"race"`
	Class     string              `json:"class"`
	Level     int                 `json:"level"`
	MaxHP     int                 `json:"maxHP"`
	Abilities sheet.AbilityScores `json:"abilities"`
}

// handleListCharacters returns the caller's characters in insertion order.
func (s *Server) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	characters, err := s.sheetSvc.List(r.Context(), identity.AccountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, charactersResponse{Characters: characters})
}

// handleCreateCharacter creates a character owned by the caller.
func (s *Server) handleCreateCharacter(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	var req createCharacterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	char, err := s.sheetSvc.Create(r.Context(), identity.AccountID, sheet.CreateParams{
		Name:      req.Name,
		Race:      req.Race,
		Class:     req.Class,
		Level:     req.Level,
		MaxHP:     req.MaxHP,
		Abilities: req.Abilities,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, char)
}

// handleGetCharacter returns one of the caller's characters.
func (s *Server) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Character not found."})
		return
	}

	char, err := s.sheetSvc.Get(r.Context(), identity.AccountID, id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, char)
}

// handleDeleteCharacter removes one of the caller's characters.
func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Character not found."})
		return
	}

	if err := s.sheetSvc.Delete(r.Context(), identity.AccountID, id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
