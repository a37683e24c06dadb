/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studiocasthq/studiocast/internal/models"
)

type appendChunkRequest struct {
	ChunkIndex      int               `json:"chunkIndex"`
	ExpectedVersion int               `json:"expectedVersion"`
	Shows           []models.PlanShow `json:"shows"`
}

func (a *API) handleChunkAppend(w http.ResponseWriter, r *http.Request) {
	var req appendChunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	schedule, err := a.scheduling.AppendShows(r.Context(), chi.URLParam(r, "scheduleUID"), req.Shows, req.ChunkIndex, req.ExpectedVersion)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schedule":       schedule,
		"uploadProgress": schedule.PlanDocument.Metadata.UploadProgress,
	})
}
