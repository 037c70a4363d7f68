// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FableDen Contributors

package web

import (
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/fableden/fableden/internal/bestiary"
)

type monstersResponse struct {
	Monsters []*bestiary.Monster `json:"monsters"`
}

// handleListMonsters returns the monster catalog.
func (s *Server) handleListMonsters(w http.ResponseWriter, r *http.Request) {
	monsters, err := s.monsters.List(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, monstersResponse{Monsters: monsters})
}

// handleGetMonster returns a single catalog entry.
func (s *Server) handleGetMonster(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Monster not found."})
		return
	}

	monster, err := s.monsters.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, monster)
}
