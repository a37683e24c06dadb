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
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

func (a *API) handleSnapshotsList(w http.ResponseWriter, r *http.Request) {
	filter := scheduling.SnapshotFilter{
		Reason: r.URL.Query().Get("reason"),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	snapshots, total, err := a.scheduling.ListSnapshots(r.Context(), chi.URLParam(r, "scheduleUID"), filter)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "snapshots": snapshots})
}

type createSnapshotRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleSnapshotsCreate(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
	}

	snapshot, err := a.scheduling.CreateSnapshot(r.Context(), chi.URLParam(r, "scheduleUID"), req.Reason, auth.ActorUID(r.Context()))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

func (a *API) handleSnapshotsGet(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.scheduling.GetSnapshot(r.Context(), chi.URLParam(r, "snapshotUID"))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *API) handleSnapshotRestore(w http.ResponseWriter, r *http.Request) {
	schedule, err := a.scheduling.RestoreFromSnapshot(
		r.Context(),
		chi.URLParam(r, "scheduleUID"),
		chi.URLParam(r, "snapshotUID"),
		auth.ActorUID(r.Context()),
	)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}
