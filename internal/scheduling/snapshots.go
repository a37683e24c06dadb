/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/idgen"
	"github.com/studiocasthq/studiocast/internal/models"
)

// CreateSnapshot captures the schedule's current plan document, version,
// and status as an immutable point-in-time copy. A blank reason records
// as manual.
func (s *Service) CreateSnapshot(ctx context.Context, scheduleUID, reason, actorUID string) (*models.ScheduleSnapshot, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = models.SnapshotReasonManual
	}

	snapshot, err := s.writeSnapshot(ctx, s.db, schedule, reason, actorUID)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.EventSnapshotCreated, events.Payload{
		"schedule_uid": schedule.UID,
		"snapshot_uid": snapshot.UID,
		"reason":       reason,
		"actor_uid":    actorUID,
	})

	return snapshot, nil
}

func (s *Service) writeSnapshot(ctx context.Context, db *gorm.DB, schedule *models.Schedule, reason, actorUID string) (*models.ScheduleSnapshot, error) {
	snapshot := &models.ScheduleSnapshot{
		ID:           uuid.NewString(),
		UID:          idgen.New(idgen.KindSnapshot),
		ScheduleID:   schedule.ID,
		PlanDocument: schedule.PlanDocument,
		Version:      schedule.Version,
		Status:       schedule.Status,
		Reason:       reason,
		CreatedByID:  s.resolveUser(ctx, db, actorUID),
	}
	if err := db.WithContext(ctx).Create(snapshot).Error; err != nil {
		return nil, Internal(err)
	}
	return snapshot, nil
}

// SnapshotFilter narrows and pages a snapshot listing.
type SnapshotFilter struct {
	Reason string
	Limit  int
	Offset int
}

// ListSnapshots returns a schedule's snapshots, newest first.
func (s *Service) ListSnapshots(ctx context.Context, scheduleUID string, filter SnapshotFilter) ([]models.ScheduleSnapshot, int64, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.WithContext(ctx).Model(&models.ScheduleSnapshot{}).Where("schedule_id = ?", schedule.ID)
	if filter.Reason != "" {
		query = query.Where("reason = ?", filter.Reason)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, Internal(err)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var snapshots []models.ScheduleSnapshot
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, 0, Internal(err)
	}
	return snapshots, total, nil
}

// GetSnapshot returns a single snapshot by uid.
func (s *Service) GetSnapshot(ctx context.Context, snapshotUID string) (*models.ScheduleSnapshot, error) {
	var snapshot models.ScheduleSnapshot
	err := s.db.WithContext(ctx).First(&snapshot, "uid = ?", snapshotUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("snapshot", snapshotUID)
	}
	if err != nil {
		return nil, Internal(err)
	}
	return &snapshot, nil
}

// RestoreFromSnapshot overwrites a draft's plan document with a snapshot's
// copy. A safety snapshot of the pre-restore state is taken inside the
// same transaction, so the overwrite is never destructive. Published
// schedules cannot be restored into; reopen them first.
func (s *Service) RestoreFromSnapshot(ctx context.Context, scheduleUID, snapshotUID, actorUID string) (*models.Schedule, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}
	if schedule.Status == models.SchedulePublished {
		return nil, Conflict("cannot restore into a published schedule", map[string]any{
			"schedule_uid": schedule.UID,
		})
	}

	snapshot, err := s.GetSnapshot(ctx, snapshotUID)
	if err != nil {
		return nil, err
	}
	if snapshot.ScheduleID != schedule.ID {
		return nil, NotFound("snapshot", snapshotUID)
	}

	expectedVersion := schedule.Version
	now := time.Now().UTC()
	var safety *models.ScheduleSnapshot
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		safety, err = s.writeSnapshot(ctx, tx, schedule, models.SnapshotReasonBeforeRestore, actorUID)
		if err != nil {
			return err
		}

		doc := snapshot.PlanDocument
		doc.Metadata.LastEditedBy = actorUID
		doc.Metadata.LastEditedAt = &now

		res := tx.Model(&models.Schedule{}).
			Where("id = ? AND version = ?", schedule.ID, expectedVersion).
			Select("PlanDocument", "Version").
			Updates(&models.Schedule{PlanDocument: doc, Version: expectedVersion + 1})
		if res.Error != nil {
			return Internal(res.Error)
		}
		if res.RowsAffected == 0 {
			return Conflict("schedule version mismatch", map[string]any{
				"expected_version": expectedVersion,
			})
		}
		return nil
	})
	if txErr != nil {
		var engineErr *Error
		if errors.As(txErr, &engineErr) {
			return nil, engineErr
		}
		return nil, Internal(txErr)
	}

	restored, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventScheduleRestored, events.Payload{
		"schedule_uid": schedule.UID,
		"snapshot_uid": snapshot.UID,
		"safety_uid":   safety.UID,
		"actor_uid":    actorUID,
		"from_version": snapshot.Version,
		"new_version":  restored.Version,
	})

	s.logger.Info().
		Str("schedule_uid", schedule.UID).
		Str("snapshot_uid", snapshot.UID).
		Msg("schedule restored from snapshot")

	return restored, nil
}
