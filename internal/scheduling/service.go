/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package scheduling implements the schedule publishing and validation
// engine: draft mutation (including chunked uploads), exhaustive draft
// validation, transactional publish, snapshot/restore, and bulk operations.
package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/cache"
	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/lookup"
	"github.com/studiocasthq/studiocast/internal/models"
)

// Service is the scheduling engine. All cross-request coordination happens
// in the store through the schedule version column; the service itself
// holds no per-schedule state.
type Service struct {
	db             *gorm.DB
	lookup         *lookup.Gateway
	bus            *events.Bus
	cache          *cache.Cache
	logger         zerolog.Logger
	publishTimeout time.Duration
}

// NewService creates the scheduling engine. cache may be nil when the
// overview cache is not configured.
func NewService(db *gorm.DB, gateway *lookup.Gateway, bus *events.Bus, c *cache.Cache, logger zerolog.Logger, publishTimeout time.Duration) *Service {
	return &Service{
		db:             db,
		lookup:         gateway,
		bus:            bus,
		cache:          c,
		logger:         logger.With().Str("component", "scheduling").Logger(),
		publishTimeout: publishTimeout,
	}
}

// loadSchedule fetches a schedule by external uid within db.
func (s *Service) loadSchedule(ctx context.Context, db *gorm.DB, uid string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := db.WithContext(ctx).First(&schedule, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("schedule", uid)
	}
	if err != nil {
		return nil, Internal(err)
	}
	return &schedule, nil
}

// GetSchedule returns a schedule by external uid.
func (s *Service) GetSchedule(ctx context.Context, uid string) (*models.Schedule, error) {
	return s.loadSchedule(ctx, s.db, uid)
}

// ListFilter narrows ListSchedules.
type ListFilter struct {
	ClientUID      string
	Status         models.ScheduleStatus
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// ListSchedules returns schedules matching filter plus the total count.
func (s *Service) ListSchedules(ctx context.Context, filter ListFilter) ([]models.Schedule, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Schedule{})
	if filter.IncludeDeleted {
		query = query.Unscoped()
	}

	if filter.ClientUID != "" {
		clients, err := s.lookup.Clients(ctx, []string{filter.ClientUID})
		if err != nil {
			return nil, 0, Internal(err)
		}
		clientID, ok := clients[filter.ClientUID]
		if !ok {
			return nil, 0, NotFound("client", filter.ClientUID)
		}
		query = query.Where("client_id = ?", clientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("end_date > ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("start_date < ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, Internal(err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var schedules []models.Schedule
	if err := query.Order("start_date DESC").Limit(limit).Offset(filter.Offset).Find(&schedules).Error; err != nil {
		return nil, 0, Internal(err)
	}
	return schedules, total, nil
}

// DeleteSchedule soft-deletes a schedule.
func (s *Service) DeleteSchedule(ctx context.Context, uid, actorUID string) error {
	schedule, err := s.loadSchedule(ctx, s.db, uid)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(schedule).Error; err != nil {
		return Internal(err)
	}

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventScheduleDeleted, events.Payload{
		"schedule_uid": schedule.UID,
		"actor_uid":    actorUID,
	})
	return nil
}

// invalidateOverview drops cached overview responses after any mutation
// that changes what the overview would report.
func (s *Service) invalidateOverview(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateOverview(ctx)
	}
}

// resolveUser maps an actor uid to the internal user id, or nil when the
// actor is unknown (system actions, tests).
func (s *Service) resolveUser(ctx context.Context, db *gorm.DB, actorUID string) *string {
	if actorUID == "" {
		return nil
	}
	var user models.User
	if err := db.WithContext(ctx).Select("id").First(&user, "uid = ?", actorUID).Error; err != nil {
		return nil
	}
	return &user.ID
}
