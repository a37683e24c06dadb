/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/studiocasthq/studiocast/internal/auth"
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

type bulkCreateRequest struct {
	Schedules []createScheduleRequest `json:"schedules"`
}

func (a *API) handleSchedulesBulkCreate(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	actorUID := auth.ActorUID(r.Context())
	inputs := make([]scheduling.CreateScheduleInput, len(req.Schedules))
	for i := range req.Schedules {
		inputs[i] = req.Schedules[i].toInput(actorUID)
	}

	result, err := a.scheduling.BulkCreateSchedules(r.Context(), inputs, actorUID)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type bulkUpdateRequest struct {
	Schedules []struct {
		UID string `json:"uid"`
		updateScheduleRequest
	} `json:"schedules"`
}

func (a *API) handleSchedulesBulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	actorUID := auth.ActorUID(r.Context())
	items := make([]scheduling.BulkUpdateItem, len(req.Schedules))
	for i := range req.Schedules {
		items[i] = scheduling.BulkUpdateItem{
			ScheduleUID: req.Schedules[i].UID,
			Update:      req.Schedules[i].toInput(actorUID),
		}
	}

	result, err := a.scheduling.BulkUpdateSchedules(r.Context(), items, actorUID)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
