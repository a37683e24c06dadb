/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"time"

	"github.com/studiocasthq/studiocast/internal/models"
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

func (a *API) handleOverview(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	filter := scheduling.OverviewFilter{
		Year:   queryInt(r, "year", now.Year()),
		Month:  time.Month(queryInt(r, "month", int(now.Month()))),
		Status: models.ScheduleStatus(r.URL.Query().Get("status")),
	}
	for _, client := range r.URL.Query()["client"] {
		if client != "" {
			filter.ClientUIDs = append(filter.ClientUIDs, client)
		}
	}

	overview, err := a.scheduling.MonthlyOverview(r.Context(), filter)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
