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

// CreateScheduleInput carries everything needed to open a new draft.
type CreateScheduleInput struct {
	Name           string
	ClientUID      string
	StartDate      time.Time
	EndDate        time.Time
	Shows          []models.PlanShow
	ExpectedChunks int
	Metadata       map[string]any
	ActorUID       string
}

// CreateSchedule opens a new draft schedule. When ExpectedChunks is
// positive the draft starts with an upload-progress tracker and shows
// arrive through AppendShows.
func (s *Service) CreateSchedule(ctx context.Context, input CreateScheduleInput) (*models.Schedule, error) {
	if input.Name == "" {
		return nil, Malformed("schedule name is required")
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, Malformed("schedule end date must be after start date")
	}
	if input.ExpectedChunks < 0 {
		return nil, Malformed("expected chunk count cannot be negative")
	}
	if !idgen.Valid(idgen.KindClient, input.ClientUID) {
		return nil, Malformed("malformed client identifier %q", input.ClientUID)
	}

	var client models.Client
	err := s.db.WithContext(ctx).First(&client, "uid = ?", input.ClientUID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("client", input.ClientUID)
	}
	if err != nil {
		return nil, Internal(err)
	}

	now := time.Now().UTC()
	shows := input.Shows
	if shows == nil {
		shows = []models.PlanShow{}
	}
	ensureTempIDs(shows)

	var progress *models.UploadProgress
	if input.ExpectedChunks > 0 {
		progress = &models.UploadProgress{ExpectedChunks: input.ExpectedChunks}
	}

	schedule := &models.Schedule{
		ID:        uuid.NewString(),
		UID:       idgen.New(idgen.KindSchedule),
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    models.ScheduleDraft,
		Version:   1,
		ClientID:  client.ID,
		Metadata:  input.Metadata,
		PlanDocument: models.PlanDocument{
			Metadata: models.PlanMetadata{
				LastEditedBy:   input.ActorUID,
				LastEditedAt:   &now,
				TotalShows:     len(shows),
				ClientName:     client.Name,
				RangeStart:     &input.StartDate,
				RangeEnd:       &input.EndDate,
				UploadProgress: progress,
			},
			Shows: shows,
		},
		CreatedByID: s.resolveUser(ctx, s.db, input.ActorUID),
	}

	if err := s.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return nil, Internal(err)
	}

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventScheduleCreated, events.Payload{
		"schedule_uid": schedule.UID,
		"client_uid":   input.ClientUID,
		"actor_uid":    input.ActorUID,
	})

	s.logger.Info().
		Str("schedule_uid", schedule.UID).
		Str("client_uid", input.ClientUID).
		Int("shows", len(shows)).
		Msg("schedule created")

	return schedule, nil
}

// AppendShows accepts one chunk of a chunked draft upload. Chunks are
// 1-based and strictly sequential; anything out of order is rejected and
// never buffered.
func (s *Service) AppendShows(ctx context.Context, scheduleUID string, shows []models.PlanShow, chunkIndex, expectedVersion int) (*models.Schedule, error) {
	schedule, err := s.appendShows(ctx, scheduleUID, shows, chunkIndex, expectedVersion)
	if err != nil {
		telemetry.RecordChunk("rejected")
		return nil, err
	}
	telemetry.RecordChunk("accepted")
	return schedule, nil
}

func (s *Service) appendShows(ctx context.Context, scheduleUID string, shows []models.PlanShow, chunkIndex, expectedVersion int) (*models.Schedule, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	if schedule.Status != models.ScheduleDraft {
		return nil, Conflict("cannot append shows to a published schedule", map[string]any{
			"schedule_uid": schedule.UID,
			"status":       schedule.Status,
		})
	}
	if expectedVersion != schedule.Version {
		return nil, Conflict("schedule version mismatch", map[string]any{
			"expected_version": expectedVersion,
			"actual_version":   schedule.Version,
		})
	}

	progress := schedule.PlanDocument.Metadata.UploadProgress
	if progress == nil {
		return nil, Malformed("schedule %q has no upload progress tracker", schedule.UID)
	}
	if progress.IsComplete {
		return nil, Conflict("upload is already complete", progressDetails(progress))
	}
	if chunkIndex < 1 || chunkIndex > progress.ExpectedChunks {
		rangeErr := Malformed("chunk index %d outside expected range [1, %d]", chunkIndex, progress.ExpectedChunks)
		rangeErr.Details = progressDetails(progress)
		return nil, rangeErr
	}
	expectedNext := 1
	if progress.LastChunkIndex != nil {
		expectedNext = *progress.LastChunkIndex + 1
	}
	if chunkIndex != expectedNext {
		details := progressDetails(progress)
		details["chunk_index"] = chunkIndex
		details["expected_chunk_index"] = expectedNext
		return nil, Conflict("chunk received out of order", details)
	}

	ensureTempIDs(shows)

	now := time.Now().UTC()
	doc := schedule.PlanDocument
	doc.Shows = append(doc.Shows, shows...)

	updated := *progress
	updated.ReceivedChunks++
	idx := chunkIndex
	updated.LastChunkIndex = &idx
	updated.IsComplete = updated.ReceivedChunks == updated.ExpectedChunks
	doc.Metadata.UploadProgress = &updated
	doc.Metadata.TotalShows = len(doc.Shows)
	doc.Metadata.LastEditedAt = &now

	res := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("id = ? AND version = ?", schedule.ID, expectedVersion).
		Select("PlanDocument", "Version").
		Updates(&models.Schedule{PlanDocument: doc, Version: expectedVersion + 1})
	if res.Error != nil {
		return nil, Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		// Another writer won between our read and this update.
		return nil, Conflict("schedule version mismatch", map[string]any{
			"expected_version": expectedVersion,
		})
	}

	schedule.PlanDocument = doc
	schedule.Version = expectedVersion + 1

	s.bus.Publish(events.EventChunkAccepted, events.Payload{
		"schedule_uid": schedule.UID,
		"chunk_index":  chunkIndex,
	})
	if updated.IsComplete {
		s.bus.Publish(events.EventChunkComplete, events.Payload{
			"schedule_uid": schedule.UID,
			"chunks":       updated.ExpectedChunks,
			"total_shows":  doc.Metadata.TotalShows,
		})
	}

	s.logger.Debug().
		Str("schedule_uid", schedule.UID).
		Int("chunk_index", chunkIndex).
		Bool("complete", updated.IsComplete).
		Msg("chunk accepted")

	return schedule, nil
}

// UpdateScheduleInput carries a full (non-chunked) draft update. Nil
// pointers leave the corresponding field untouched.
type UpdateScheduleInput struct {
	Name            *string
	StartDate       *time.Time
	EndDate         *time.Time
	PlanDocument    *models.PlanDocument
	Metadata        map[string]any
	ExpectedVersion int
	ActorUID        string
}

// UpdateSchedule replaces draft fields wholesale. Updating a published
// schedule implicitly reopens it as a draft; editing invalidates the
// publication rather than being rejected.
func (s *Service) UpdateSchedule(ctx context.Context, scheduleUID string, input UpdateScheduleInput) (*models.Schedule, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	if input.ExpectedVersion != schedule.Version {
		return nil, Conflict("schedule version mismatch", map[string]any{
			"expected_version": input.ExpectedVersion,
			"actual_version":   schedule.Version,
		})
	}

	updates := &models.Schedule{Version: schedule.Version + 1}
	fields := []string{"Version"}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, Malformed("schedule name cannot be empty")
		}
		updates.Name = *input.Name
		fields = append(fields, "Name")
	}
	if input.StartDate != nil {
		updates.StartDate = *input.StartDate
		fields = append(fields, "StartDate")
	}
	if input.EndDate != nil {
		updates.EndDate = *input.EndDate
		fields = append(fields, "EndDate")
	}
	if input.Metadata != nil {
		updates.Metadata = input.Metadata
		fields = append(fields, "Metadata")
	}

	if input.PlanDocument != nil {
		now := time.Now().UTC()
		doc := *input.PlanDocument
		if doc.Shows != nil {
			ensureTempIDs(doc.Shows)
			doc.Metadata.TotalShows = len(doc.Shows)
		}
		doc.Metadata.LastEditedBy = input.ActorUID
		doc.Metadata.LastEditedAt = &now
		updates.PlanDocument = doc
		fields = append(fields, "PlanDocument")
	}

	if schedule.Status == models.SchedulePublished {
		// Editing a published schedule reopens it as a draft.
		updates.Status = models.ScheduleDraft
		fields = append(fields, "Status")
	}

	res := s.db.WithContext(ctx).Model(&models.Schedule{}).
		Where("id = ? AND version = ?", schedule.ID, input.ExpectedVersion).
		Select(fields).
		Updates(updates)
	if res.Error != nil {
		return nil, Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, Conflict("schedule version mismatch", map[string]any{
			"expected_version": input.ExpectedVersion,
		})
	}

	updatedSchedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventScheduleUpdated, events.Payload{
		"schedule_uid": schedule.UID,
		"actor_uid":    input.ActorUID,
	})

	return updatedSchedule, nil
}

// DuplicateSchedule creates an independent editable copy of a schedule:
// new identifier, regenerated temp ids, published-show links cleared.
func (s *Service) DuplicateSchedule(ctx context.Context, scheduleUID, actorUID string) (*models.Schedule, error) {
	source, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := source.PlanDocument
	if doc.Shows != nil {
		copied := make([]models.PlanShow, len(doc.Shows))
		copy(copied, doc.Shows)
		for i := range copied {
			copied[i].TempID = uuid.NewString()
			copied[i].ExistingShowUID = ""
		}
		doc.Shows = copied
	}
	doc.Metadata.LastEditedBy = actorUID
	doc.Metadata.LastEditedAt = &now
	doc.Metadata.UploadProgress = nil

	clone := &models.Schedule{
		ID:           uuid.NewString(),
		UID:          idgen.New(idgen.KindSchedule),
		Name:         source.Name + " (copy)",
		StartDate:    source.StartDate,
		EndDate:      source.EndDate,
		Status:       models.ScheduleDraft,
		Version:      1,
		PlanDocument: doc,
		ClientID:     source.ClientID,
		Metadata:     source.Metadata,
		CreatedByID:  s.resolveUser(ctx, s.db, actorUID),
	}

	if err := s.db.WithContext(ctx).Create(clone).Error; err != nil {
		return nil, Internal(err)
	}

	s.invalidateOverview(ctx)
	s.bus.Publish(events.EventScheduleDuplicated, events.Payload{
		"source_uid":   source.UID,
		"schedule_uid": clone.UID,
		"actor_uid":    actorUID,
	})

	return clone, nil
}

// ensureTempIDs backfills draft-local identifiers so later edits can
// address individual plan shows.
func ensureTempIDs(shows []models.PlanShow) {
	for i := range shows {
		if shows[i].TempID == "" {
			shows[i].TempID = uuid.NewString()
		}
	}
}

func progressDetails(progress *models.UploadProgress) map[string]any {
	details := map[string]any{
		"expected_chunks": progress.ExpectedChunks,
		"received_chunks": progress.ReceivedChunks,
		"is_complete":     progress.IsComplete,
	}
	if progress.LastChunkIndex != nil {
		details["last_chunk_index"] = *progress.LastChunkIndex
	}
	return details
}
