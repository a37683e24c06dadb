/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studiocasthq/studiocast/internal/auth"
)

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	result, err := a.scheduling.Validate(r.Context(), chi.URLParam(r, "scheduleUID"))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type publishRequest struct {
	ExpectedVersion int `json:"expectedVersion"`
}

func (a *API) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	result, err := a.scheduling.Publish(r.Context(), chi.URLParam(r, "scheduleUID"), req.ExpectedVersion, auth.ActorUID(r.Context()))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
