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
	"github.com/studiocasthq/studiocast/internal/telemetry"
)

// PublishResult reports the outcome of materializing a draft.
type PublishResult struct {
	Schedule     *models.Schedule `json:"schedule"`
	ShowsCreated int              `json:"showsCreated"`
	ShowsDeleted int              `json:"showsDeleted"`
}

// Publish validates a draft and materializes its plan document into show
// rows inside a single transaction. Prior published shows for the
// schedule are soft-deleted and replaced wholesale, so re-publishing an
// unchanged draft is idempotent.
func (s *Service) Publish(ctx context.Context, scheduleUID string, expectedVersion int, actorUID string) (*PublishResult, error) {
	started := time.Now()
	result, err := s.publish(ctx, scheduleUID, expectedVersion, actorUID)
	if err != nil {
		telemetry.RecordPublish("failure", time.Since(started))
		return nil, err
	}
	telemetry.RecordPublish("success", time.Since(started))
	return result, nil
}

func (s *Service) publish(ctx context.Context, scheduleUID string, expectedVersion int, actorUID string) (*PublishResult, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	if schedule.Status == models.SchedulePublished {
		return nil, Conflict("schedule is already published", map[string]any{
			"schedule_uid": schedule.UID,
		})
	}
	if expectedVersion != schedule.Version {
		return nil, Conflict("schedule version mismatch", map[string]any{
			"expected_version": expectedVersion,
			"actual_version":   schedule.Version,
		})
	}
	if schedule.PlanDocument.Shows == nil {
		return nil, Malformed("schedule %q has no plan document shows", schedule.UID)
	}
	if progress := schedule.PlanDocument.Metadata.UploadProgress; progress != nil && !progress.IsComplete {
		return nil, Conflict("upload is not complete", progressDetails(progress))
	}

	validation, err := s.validateDraft(ctx, s.db, schedule)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return nil, ValidationFailed(validation.Errors)
	}

	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()

	result := &PublishResult{}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := retirePublishedShows(tx, schedule.ID)
		if err != nil {
			return Internal(err)
		}
		result.ShowsDeleted = deleted

		created, err := s.materializeShows(ctx, tx, schedule)
		if err != nil {
			return err
		}
		result.ShowsCreated = created

		now := time.Now().UTC()
		res := tx.Model(&models.Schedule{}).
			Where("id = ? AND version = ?", schedule.ID, expectedVersion).
			Select("Status", "Version", "PublishedAt", "PublishedByID").
			Updates(&models.Schedule{
				Status:        models.SchedulePublished,
				Version:       expectedVersion + 1,
				PublishedAt:   &now,
				PublishedByID: s.resolveUser(ctx, tx, actorUID),
			})
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

	published, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}
	result.Schedule = published

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventSchedulePublished, events.Payload{
		"schedule_uid":  schedule.UID,
		"actor_uid":     actorUID,
		"shows_created": result.ShowsCreated,
		"shows_deleted": result.ShowsDeleted,
	})

	s.logger.Info().
		Str("schedule_uid", schedule.UID).
		Int("shows_created", result.ShowsCreated).
		Int("shows_deleted", result.ShowsDeleted).
		Msg("schedule published")

	return result, nil
}

// retirePublishedShows soft-deletes the schedule's current shows and
// their child rows, returning how many shows were retired.
func retirePublishedShows(tx *gorm.DB, scheduleID string) (int, error) {
	var ids []string
	if err := tx.Model(&models.Show{}).Where("schedule_id = ?", scheduleID).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := tx.Where("show_id IN ?", ids).Delete(&models.ShowMc{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("show_id IN ?", ids).Delete(&models.ShowPlatform{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("id IN ?", ids).Delete(&models.Show{}).Error; err != nil {
		return 0, err
	}
	return len(ids), nil
}

// materializeShows turns the plan document into show rows plus MC and
// platform assignment rows. The draft already validated, so unresolved
// references here mean the world changed mid-transaction.
func (s *Service) materializeShows(ctx context.Context, tx *gorm.DB, schedule *models.Schedule) (int, error) {
	plan := schedule.PlanDocument.Shows
	if len(plan) == 0 {
		return 0, nil
	}

	refs, err := s.lookup.WithTx(tx).ResolveForShows(ctx, plan)
	if err != nil {
		return 0, Internal(err)
	}

	shows := make([]models.Show, 0, len(plan))
	for i := range plan {
		p := &plan[i]
		clientID, ok := refs.Clients[p.ClientUID]
		if !ok {
			return 0, Conflict("client vanished during publish", map[string]any{"client_uid": p.ClientUID})
		}
		show := models.Show{
			ID:         uuid.NewString(),
			UID:        idgen.New(idgen.KindShow),
			ScheduleID: schedule.ID,
			Name:       p.Name,
			StartTime:  p.StartTime,
			EndTime:    p.EndTime,
			ClientID:   clientID,
			Metadata:   p.Metadata,
		}
		if p.StudioRoomUID != "" {
			roomID, ok := refs.StudioRooms[p.StudioRoomUID]
			if !ok {
				return 0, Conflict("studio room vanished during publish", map[string]any{"studio_room_uid": p.StudioRoomUID})
			}
			show.StudioRoomID = &roomID
		}
		if show.ShowTypeID, ok = refs.ShowTypes[p.ShowTypeUID]; !ok {
			return 0, Conflict("show type vanished during publish", map[string]any{"show_type_uid": p.ShowTypeUID})
		}
		if show.ShowStatusID, ok = refs.ShowStatuses[p.ShowStatusUID]; !ok {
			return 0, Conflict("show status vanished during publish", map[string]any{"show_status_uid": p.ShowStatusUID})
		}
		if show.ShowStandardID, ok = refs.ShowStandards[p.ShowStandardUID]; !ok {
			return 0, Conflict("show standard vanished during publish", map[string]any{"show_standard_uid": p.ShowStandardUID})
		}
		shows = append(shows, show)
	}

	if err := tx.CreateInBatches(shows, 200).Error; err != nil {
		return 0, Internal(err)
	}

	// Re-read inserted ids by schedule so child rows attach to what the
	// database actually holds, in plan order.
	var inserted []models.Show
	if err := tx.Where("schedule_id = ?", schedule.ID).Order("start_time, id").Find(&inserted).Error; err != nil {
		return 0, Internal(err)
	}
	byUID := make(map[string]string, len(inserted))
	for i := range inserted {
		byUID[inserted[i].UID] = inserted[i].ID
	}

	var mcs []models.ShowMc
	var platforms []models.ShowPlatform
	for i := range plan {
		p := &plan[i]
		showID := byUID[shows[i].UID]
		for _, m := range p.MCs {
			mcID, ok := refs.MCs[m.McUID]
			if !ok {
				return 0, Conflict("mc vanished during publish", map[string]any{"mc_uid": m.McUID})
			}
			mcs = append(mcs, models.ShowMc{
				ID:     uuid.NewString(),
				ShowID: showID,
				McID:   mcID,
				Note:   m.Note,
			})
		}
		for _, pl := range p.Platforms {
			platformID, ok := refs.Platforms[pl.PlatformUID]
			if !ok {
				return 0, Conflict("platform vanished during publish", map[string]any{"platform_uid": pl.PlatformUID})
			}
			platforms = append(platforms, models.ShowPlatform{
				ID:             uuid.NewString(),
				ShowID:         showID,
				PlatformID:     platformID,
				StreamLink:     pl.StreamLink,
				ExternalShowID: pl.ExternalShowID,
			})
		}
	}
	if len(mcs) > 0 {
		if err := tx.CreateInBatches(mcs, 500).Error; err != nil {
			return 0, Internal(err)
		}
	}
	if len(platforms) > 0 {
		if err := tx.CreateInBatches(platforms, 500).Error; err != nil {
			return 0, Internal(err)
		}
	}

	return len(shows), nil
}
