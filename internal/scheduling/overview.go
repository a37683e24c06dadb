/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/studiocasthq/studiocast/internal/models"
)

// OverviewFilter selects the month, an optional set of clients, and an
// optional status for an overview.
type OverviewFilter struct {
	Year       int
	Month      time.Month
	ClientUIDs []string
	Status     models.ScheduleStatus
}

// digest sorts the client set so equivalent filters share a cache entry.
func (f OverviewFilter) digest() string {
	clients := append([]string(nil), f.ClientUIDs...)
	sort.Strings(clients)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s|%s", f.Year, f.Month, strings.Join(clients, ","), f.Status)))
	return hex.EncodeToString(sum[:12])
}

// OverviewEntry summarizes one schedule inside a monthly overview.
type OverviewEntry struct {
	UID        string                `json:"uid"`
	Name       string                `json:"name"`
	Status     models.ScheduleStatus `json:"status"`
	Version    int                   `json:"version"`
	StartDate  time.Time             `json:"startDate"`
	EndDate    time.Time             `json:"endDate"`
	TotalShows int                   `json:"totalShows"`
}

// ClientOverview groups a client's schedules for the month.
type ClientOverview struct {
	ClientUID  string          `json:"clientUid"`
	ClientName string          `json:"clientName"`
	Schedules  []OverviewEntry `json:"schedules"`
}

// Overview is the monthly cross-client summary.
type Overview struct {
	Year      int              `json:"year"`
	Month     time.Month       `json:"month"`
	Clients   []ClientOverview `json:"clients"`
	Drafts    int              `json:"drafts"`
	Published int              `json:"published"`
}

// MonthlyOverview summarizes every schedule whose date range touches the
// given month, grouped by client. Results are cached until the next
// schedule mutation invalidates them.
func (s *Service) MonthlyOverview(ctx context.Context, filter OverviewFilter) (*Overview, error) {
	if filter.Year < 1 || filter.Month < time.January || filter.Month > time.December {
		return nil, Malformed("overview requires a valid year and month")
	}
	if filter.Status != "" && filter.Status != models.ScheduleDraft && filter.Status != models.SchedulePublished {
		return nil, Malformed("unknown schedule status %q", filter.Status)
	}

	digest := filter.digest()
	if s.cache != nil {
		var cached Overview
		if s.cache.GetOverview(ctx, digest, &cached) {
			return &cached, nil
		}
	}

	monthStart := time.Date(filter.Year, filter.Month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	query := s.db.WithContext(ctx).
		Preload("Client").
		Where("start_date < ? AND end_date > ?", monthEnd, monthStart)
	if len(filter.ClientUIDs) > 0 {
		query = query.Joins("JOIN clients ON clients.id = schedules.client_id").
			Where("clients.uid IN ?", filter.ClientUIDs)
	}
	if filter.Status != "" {
		query = query.Where("schedules.status = ?", filter.Status)
	}

	var schedules []models.Schedule
	if err := query.Order("start_date").Find(&schedules).Error; err != nil {
		return nil, Internal(err)
	}

	overview := &Overview{Year: filter.Year, Month: filter.Month}
	byClient := make(map[string]*ClientOverview)
	var order []string
	for i := range schedules {
		sched := &schedules[i]
		entry := OverviewEntry{
			UID:        sched.UID,
			Name:       sched.Name,
			Status:     sched.Status,
			Version:    sched.Version,
			StartDate:  sched.StartDate,
			EndDate:    sched.EndDate,
			TotalShows: sched.PlanDocument.Metadata.TotalShows,
		}
		switch sched.Status {
		case models.SchedulePublished:
			overview.Published++
		default:
			overview.Drafts++
		}

		clientUID := ""
		clientName := ""
		if sched.Client != nil {
			clientUID = sched.Client.UID
			clientName = sched.Client.Name
		}
		group, ok := byClient[clientUID]
		if !ok {
			group = &ClientOverview{ClientUID: clientUID, ClientName: clientName}
			byClient[clientUID] = group
			order = append(order, clientUID)
		}
		group.Schedules = append(group.Schedules, entry)
	}
	for _, uid := range order {
		overview.Clients = append(overview.Clients, *byClient[uid])
	}

	if s.cache != nil {
		s.cache.SetOverview(ctx, digest, overview)
	}
	return overview, nil
}
