/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/idgen"
	"github.com/studiocasthq/studiocast/internal/models"
)

// Service handles audit logging by subscribing to events and storing audit entries.
type Service struct {
	db     *gorm.DB
	bus    *events.Bus
	logger zerolog.Logger
}

// NewService creates a new audit service.
func NewService(db *gorm.DB, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		bus:    bus,
		logger: logger.With().Str("component", "audit").Logger(),
	}
}

// Start subscribes to engine events and logs them as audit entries. It
// blocks until ctx is cancelled; run it in its own goroutine.
func (s *Service) Start(ctx context.Context) {
	s.logger.Info().Msg("audit service starting")

	scheduleCreated := s.bus.Subscribe(events.EventScheduleCreated)
	scheduleUpdated := s.bus.Subscribe(events.EventScheduleUpdated)
	scheduleDeleted := s.bus.Subscribe(events.EventScheduleDeleted)
	scheduleDuplicated := s.bus.Subscribe(events.EventScheduleDuplicated)
	schedulePublished := s.bus.Subscribe(events.EventSchedulePublished)
	scheduleRestored := s.bus.Subscribe(events.EventScheduleRestored)
	snapshotCreated := s.bus.Subscribe(events.EventSnapshotCreated)
	chunkComplete := s.bus.Subscribe(events.EventChunkComplete)
	bulkCreate := s.bus.Subscribe(events.EventBulkCreate)
	bulkUpdate := s.bus.Subscribe(events.EventBulkUpdate)

	defer func() {
		s.bus.Unsubscribe(events.EventScheduleCreated, scheduleCreated)
		s.bus.Unsubscribe(events.EventScheduleUpdated, scheduleUpdated)
		s.bus.Unsubscribe(events.EventScheduleDeleted, scheduleDeleted)
		s.bus.Unsubscribe(events.EventScheduleDuplicated, scheduleDuplicated)
		s.bus.Unsubscribe(events.EventSchedulePublished, schedulePublished)
		s.bus.Unsubscribe(events.EventScheduleRestored, scheduleRestored)
		s.bus.Unsubscribe(events.EventSnapshotCreated, snapshotCreated)
		s.bus.Unsubscribe(events.EventChunkComplete, chunkComplete)
		s.bus.Unsubscribe(events.EventBulkCreate, bulkCreate)
		s.bus.Unsubscribe(events.EventBulkUpdate, bulkUpdate)
	}()

	s.logger.Info().Msg("audit service started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("audit service stopping")
			return

		case payload := <-scheduleCreated:
			s.logAuditEntry(ctx, models.AuditActionScheduleCreate, payload)

		case payload := <-scheduleUpdated:
			s.logAuditEntry(ctx, models.AuditActionScheduleUpdate, payload)

		case payload := <-scheduleDeleted:
			s.logAuditEntry(ctx, models.AuditActionScheduleDelete, payload)

		case payload := <-scheduleDuplicated:
			s.logAuditEntry(ctx, models.AuditActionScheduleDuplicate, payload)

		case payload := <-schedulePublished:
			s.logAuditEntry(ctx, models.AuditActionSchedulePublish, payload)

		case payload := <-scheduleRestored:
			s.logAuditEntry(ctx, models.AuditActionScheduleRestore, payload)

		case payload := <-snapshotCreated:
			s.logAuditEntry(ctx, models.AuditActionSnapshotCreate, payload)

		case payload := <-chunkComplete:
			s.logAuditEntry(ctx, models.AuditActionChunkComplete, payload)

		case payload := <-bulkCreate:
			s.logAuditEntry(ctx, models.AuditActionBulkCreate, payload)

		case payload := <-bulkUpdate:
			s.logAuditEntry(ctx, models.AuditActionBulkUpdate, payload)
		}
	}
}

// logAuditEntry creates an audit log entry from an event payload.
func (s *Service) logAuditEntry(ctx context.Context, action models.AuditAction, payload events.Payload) {
	entry := &models.AuditLog{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Action:    action,
		Details:   make(map[string]any),
	}

	if actorUID, ok := payload["actor_uid"].(string); ok {
		entry.ActorUID = actorUID
	}
	if scheduleUID, ok := payload["schedule_uid"].(string); ok && scheduleUID != "" {
		entry.ResourceType = resourceType(scheduleUID)
		entry.ResourceUID = scheduleUID
	}
	if snapshotUID, ok := payload["snapshot_uid"].(string); ok && snapshotUID != "" {
		entry.ResourceType = resourceType(snapshotUID)
		entry.ResourceUID = snapshotUID
	}

	for k, v := range payload {
		switch k {
		case "actor_uid":
			// Already extracted
		default:
			entry.Details[k] = v
		}
	}

	if err := s.Log(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("action", string(action)).
			Msg("failed to log audit entry")
	}
}

// resourceType classifies a resource by its identifier prefix.
func resourceType(uid string) string {
	if kind, ok := idgen.KindOf(uid); ok {
		return string(kind)
	}
	return "unknown"
}

// Log records an audit entry directly (for non-event-bus actions).
func (s *Service) Log(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Details == nil {
		entry.Details = make(map[string]any)
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return err
	}

	s.logger.Debug().
		Str("action", string(entry.Action)).
		Str("id", entry.ID).
		Msg("audit entry logged")

	return nil
}

// QueryFilters defines filters for querying audit logs.
type QueryFilters struct {
	ActorUID    *string
	Action      *models.AuditAction
	ResourceUID *string
	StartTime   *time.Time
	EndTime     *time.Time
	Limit       int
	Offset      int
}

// Query retrieves audit logs with filters.
func (s *Service) Query(ctx context.Context, filters QueryFilters) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.AuditLog{})

	if filters.ActorUID != nil {
		query = query.Where("actor_uid = ?", *filters.ActorUID)
	}
	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}
	if filters.ResourceUID != nil {
		query = query.Where("resource_uid = ?", *filters.ResourceUID)
	}
	if filters.StartTime != nil {
		query = query.Where("timestamp >= ?", *filters.StartTime)
	}
	if filters.EndTime != nil {
		query = query.Where("timestamp <= ?", *filters.EndTime)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Order("timestamp DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
