/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiocasthq/studiocast/internal/auth"
	"github.com/studiocasthq/studiocast/internal/models"
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

type createScheduleRequest struct {
	Name           string            `json:"name"`
	ClientUID      string            `json:"clientUid"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	Shows          []models.PlanShow `json:"shows"`
	ExpectedChunks int               `json:"expectedChunks"`
	Metadata       map[string]any    `json:"metadata"`
}

func (req *createScheduleRequest) toInput(actorUID string) scheduling.CreateScheduleInput {
	return scheduling.CreateScheduleInput{
		Name:           req.Name,
		ClientUID:      req.ClientUID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Shows:          req.Shows,
		ExpectedChunks: req.ExpectedChunks,
		Metadata:       req.Metadata,
		ActorUID:       actorUID,
	}
}

type updateScheduleRequest struct {
	Name            *string              `json:"name"`
	StartDate       *time.Time           `json:"startDate"`
	EndDate         *time.Time           `json:"endDate"`
	PlanDocument    *models.PlanDocument `json:"planDocument"`
	Metadata        map[string]any       `json:"metadata"`
	ExpectedVersion int                  `json:"expectedVersion"`
}

func (req *updateScheduleRequest) toInput(actorUID string) scheduling.UpdateScheduleInput {
	return scheduling.UpdateScheduleInput{
		Name:            req.Name,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		PlanDocument:    req.PlanDocument,
		Metadata:        req.Metadata,
		ExpectedVersion: req.ExpectedVersion,
		ActorUID:        actorUID,
	}
}

func (a *API) handleSchedulesList(w http.ResponseWriter, r *http.Request) {
	filter := scheduling.ListFilter{
		ClientUID:      r.URL.Query().Get("client"),
		Status:         models.ScheduleStatus(r.URL.Query().Get("status")),
		IncludeDeleted: r.URL.Query().Get("includeDeleted") == "true",
		Limit:          queryInt(r, "limit", 0),
		Offset:         queryInt(r, "offset", 0),
	}
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		filter.To = &to
	}

	schedules, total, err := a.scheduling.ListSchedules(r.Context(), filter)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "schedules": schedules})
}

func (a *API) handleSchedulesCreate(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	schedule, err := a.scheduling.CreateSchedule(r.Context(), req.toInput(auth.ActorUID(r.Context())))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

func (a *API) handleSchedulesGet(w http.ResponseWriter, r *http.Request) {
	schedule, err := a.scheduling.GetSchedule(r.Context(), chi.URLParam(r, "scheduleUID"))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (a *API) handleSchedulesUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	schedule, err := a.scheduling.UpdateSchedule(r.Context(), chi.URLParam(r, "scheduleUID"), req.toInput(auth.ActorUID(r.Context())))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

func (a *API) handleSchedulesDelete(w http.ResponseWriter, r *http.Request) {
	err := a.scheduling.DeleteSchedule(r.Context(), chi.URLParam(r, "scheduleUID"), auth.ActorUID(r.Context()))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSchedulesDuplicate(w http.ResponseWriter, r *http.Request) {
	clone, err := a.scheduling.DuplicateSchedule(r.Context(), chi.URLParam(r, "scheduleUID"), auth.ActorUID(r.Context()))
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}
