/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/audit"
	"github.com/studiocasthq/studiocast/internal/auth"
	"github.com/studiocasthq/studiocast/internal/models"
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

// API exposes HTTP handlers.
type API struct {
	db         *gorm.DB
	jwtSecret  []byte
	scheduling *scheduling.Service
	auditSvc   *audit.Service
	logger     zerolog.Logger
}

// New creates the API router wrapper.
func New(db *gorm.DB, jwtSecret []byte, schedulingSvc *scheduling.Service, auditSvc *audit.Service, logger zerolog.Logger) *API {
	return &API{
		db:         db,
		jwtSecret:  jwtSecret,
		scheduling: schedulingSvc,
		auditSvc:   auditSvc,
		logger:     logger,
	}
}

// Routes mounts all API endpoints.
func (a *API) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)

		r.Group(func(pr chi.Router) {
			pr.Use(auth.Middleware(a.jwtSecret))

			pr.Route("/schedules", func(r chi.Router) {
				r.Get("/", a.handleSchedulesList)
				r.Post("/", a.handleSchedulesCreate)
				r.Post("/bulk", a.handleSchedulesBulkCreate)
				r.Patch("/bulk", a.handleSchedulesBulkUpdate)
				r.Get("/overview", a.handleOverview)

				r.Route("/{scheduleUID}", func(r chi.Router) {
					r.Get("/", a.handleSchedulesGet)
					r.Patch("/", a.handleSchedulesUpdate)
					r.Delete("/", a.handleSchedulesDelete)
					r.Post("/duplicate", a.handleSchedulesDuplicate)
					r.Post("/chunks", a.handleChunkAppend)
					r.Post("/validate", a.handleValidate)
					r.Post("/publish", a.handlePublish)

					r.Route("/snapshots", func(r chi.Router) {
						r.Get("/", a.handleSnapshotsList)
						r.Post("/", a.handleSnapshotsCreate)
						r.With(a.requireRoles(models.RoleAdmin, models.RoleManager)).
							Post("/{snapshotUID}/restore", a.handleSnapshotRestore)
					})
				})
			})

			pr.Get("/snapshots/{snapshotUID}", a.handleSnapshotsGet)
			pr.With(a.requireRoles(models.RoleAdmin, models.RoleManager)).
				Get("/audit", a.handleAuditList)
		})
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleAuditList(w http.ResponseWriter, r *http.Request) {
	filters := audit.QueryFilters{
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}
	if actor := r.URL.Query().Get("actor"); actor != "" {
		filters.ActorUID = &actor
	}
	if action := r.URL.Query().Get("action"); action != "" {
		a := models.AuditAction(action)
		filters.Action = &a
	}
	if resource := r.URL.Query().Get("resource"); resource != "" {
		filters.ResourceUID = &resource
	}

	logs, total, err := a.auditSvc.Query(r.Context(), filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": total, "logs": logs})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// requireRoles gates a route to actors carrying one of the allowed roles.
// With authentication disabled requests carry no claims and pass through.
func (a *API) requireRoles(allowed ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(a.jwtSecret) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, role := range allowed {
				if claims.HasRole(string(role)) {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

// writeEngineError maps engine error kinds onto HTTP statuses. Validation
// failures carry the full violation list so callers can render every
// problem at once.
func (a *API) writeEngineError(w http.ResponseWriter, err error) {
	var engineErr *scheduling.Error
	kind := scheduling.KindOf(err)

	body := map[string]any{"error": string(kind)}
	if errors.As(err, &engineErr) {
		body["message"] = engineErr.Message
		if engineErr.Details != nil {
			body["details"] = engineErr.Details
		}
		if len(engineErr.Violations) > 0 {
			body["validationErrors"] = engineErr.Violations
		}
	}

	switch kind {
	case scheduling.KindMalformed, scheduling.KindValidationFailed:
		writeJSON(w, http.StatusBadRequest, body)
	case scheduling.KindNotFound:
		writeJSON(w, http.StatusNotFound, body)
	case scheduling.KindConflict:
		writeJSON(w, http.StatusConflict, body)
	default:
		a.logger.Error().Err(err).Msg("unhandled engine error")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
