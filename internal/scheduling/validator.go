/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/lookup"
	"github.com/studiocasthq/studiocast/internal/models"
	"github.com/studiocasthq/studiocast/internal/telemetry"
)

// Validate checks a schedule's draft and returns every defect found. It
// never mutates anything and is safe to call repeatedly.
func (s *Service) Validate(ctx context.Context, scheduleUID string) (*models.ValidationResult, error) {
	schedule, err := s.loadSchedule(ctx, s.db, scheduleUID)
	if err != nil {
		return nil, err
	}
	return s.validateDraft(ctx, s.db, schedule)
}

// publishedShow is the projection external conflict checks read.
type publishedShow struct {
	UID          string
	Name         string
	ScheduleID   string
	StudioRoomID *string
	McID         string
	StartTime    time.Time
	EndTime      time.Time
}

// validateDraft runs the full check suite against schedule's plan document
// using db, which may be a transaction when called from publish. Content
// problems accumulate in the result; only store failures return an error.
func (s *Service) validateDraft(ctx context.Context, db *gorm.DB, schedule *models.Schedule) (*models.ValidationResult, error) {
	result := &models.ValidationResult{IsValid: true, Errors: []models.ValidationError{}}

	shows := schedule.PlanDocument.Shows
	if shows == nil {
		// Structural short-circuit: nothing else is checkable.
		result.Add(models.ValidationError{
			Type:    models.ValidationReferenceNotFound,
			Message: "plan document has no shows sequence",
		})
		s.recordResult(result)
		return result, nil
	}

	refs, err := s.lookup.WithTx(db).ResolveForShows(ctx, shows)
	if err != nil {
		return nil, Internal(err)
	}

	for i := range shows {
		s.checkShow(result, schedule, i, &shows[i], refs)
	}

	s.checkInternalConflicts(result, shows)

	if err := s.checkExternalConflicts(ctx, db, result, schedule, shows, refs); err != nil {
		return nil, err
	}

	s.recordResult(result)
	return result, nil
}

func (s *Service) recordResult(result *models.ValidationResult) {
	for _, e := range result.Errors {
		telemetry.RecordValidationError(string(e.Type))
	}
}

// checkShow runs the per-show time and reference checks. Errors accumulate;
// a show with an inverted time range still gets its references checked.
func (s *Service) checkShow(result *models.ValidationResult, schedule *models.Schedule, index int, show *models.PlanShow, refs *lookup.ResolvedRefs) {
	at := func(errType models.ValidationErrorType, format string, args ...any) models.ValidationError {
		idx := index
		return models.ValidationError{
			Type:       errType,
			Message:    fmt.Sprintf(format, args...),
			ShowIndex:  &idx,
			ShowTempID: show.TempID,
		}
	}

	if !show.EndTime.After(show.StartTime) {
		result.Add(at(models.ValidationTimeRange,
			"show %q end time %s is not after start time %s",
			show.Name, show.EndTime.Format(time.RFC3339), show.StartTime.Format(time.RFC3339)))
	}
	if show.StartTime.Before(schedule.StartDate) || show.EndTime.After(schedule.EndDate) {
		result.Add(at(models.ValidationTimeRange,
			"show %q falls outside the schedule date range %s to %s",
			show.Name, schedule.StartDate.Format(time.RFC3339), schedule.EndDate.Format(time.RFC3339)))
	}

	clientID, ok := refs.Clients[show.ClientUID]
	if !ok {
		result.Add(at(models.ValidationReferenceNotFound, "client %q not found", show.ClientUID))
	} else if clientID != schedule.ClientID {
		result.Add(at(models.ValidationReferenceNotFound,
			"show client %q does not belong to the schedule's owning client", show.ClientUID))
	}

	if show.StudioRoomUID != "" {
		if _, ok := refs.StudioRooms[show.StudioRoomUID]; !ok {
			result.Add(at(models.ValidationReferenceNotFound, "studio room %q not found", show.StudioRoomUID))
		}
	}
	if _, ok := refs.ShowTypes[show.ShowTypeUID]; !ok {
		result.Add(at(models.ValidationReferenceNotFound, "show type %q not found", show.ShowTypeUID))
	}
	if _, ok := refs.ShowStatuses[show.ShowStatusUID]; !ok {
		result.Add(at(models.ValidationReferenceNotFound, "show status %q not found", show.ShowStatusUID))
	}
	if _, ok := refs.ShowStandards[show.ShowStandardUID]; !ok {
		result.Add(at(models.ValidationReferenceNotFound, "show standard %q not found", show.ShowStandardUID))
	}
	for _, mc := range show.MCs {
		if _, ok := refs.MCs[mc.McUID]; !ok {
			result.Add(at(models.ValidationReferenceNotFound, "mc %q not found", mc.McUID))
		}
	}
	for _, p := range show.Platforms {
		if _, ok := refs.Platforms[p.PlatformUID]; !ok {
			result.Add(at(models.ValidationReferenceNotFound, "platform %q not found", p.PlatformUID))
		}
	}
}

// checkInternalConflicts finds room and MC double-bookings entirely within
// the draft. Each conflicting pair yields one error attributed to the
// earlier show's index.
func (s *Service) checkInternalConflicts(result *models.ValidationResult, shows []models.PlanShow) {
	for i := 0; i < len(shows); i++ {
		for j := i + 1; j < len(shows); j++ {
			a, b := &shows[i], &shows[j]
			if !overlaps(a.StartTime, a.EndTime, b.StartTime, b.EndTime) {
				continue
			}

			idx := i
			if a.StudioRoomUID != "" && a.StudioRoomUID == b.StudioRoomUID {
				result.Add(models.ValidationError{
					Type: models.ValidationInternalConflict,
					Message: fmt.Sprintf("shows %q and %q are booked in studio room %q at overlapping times",
						a.Name, b.Name, a.StudioRoomUID),
					ShowIndex:  &idx,
					ShowTempID: a.TempID,
				})
			}

			if mcUID := sharedMC(a, b); mcUID != "" {
				result.Add(models.ValidationError{
					Type: models.ValidationInternalConflict,
					Message: fmt.Sprintf("shows %q and %q are assigned mc %q at overlapping times",
						a.Name, b.Name, mcUID),
					ShowIndex:  &idx,
					ShowTempID: a.TempID,
				})
			}
		}
	}
}

// checkExternalConflicts compares draft shows against already-published
// show records from other schedules. Candidate rows are fetched once per
// category for the draft's whole time window.
func (s *Service) checkExternalConflicts(ctx context.Context, db *gorm.DB, result *models.ValidationResult, schedule *models.Schedule, shows []models.PlanShow, refs *lookup.ResolvedRefs) error {
	windowStart, windowEnd, ok := draftWindow(shows)
	if !ok {
		return nil
	}

	// Shows already published from this draft are edits, not conflicts.
	excluded := make([]string, 0)
	for _, show := range shows {
		if show.ExistingShowUID != "" {
			excluded = append(excluded, show.ExistingShowUID)
		}
	}

	roomIDs := make([]string, 0)
	for _, id := range refs.StudioRooms {
		roomIDs = append(roomIDs, id)
	}
	mcIDs := make([]string, 0)
	for _, id := range refs.MCs {
		mcIDs = append(mcIDs, id)
	}

	var roomCandidates []publishedShow
	if len(roomIDs) > 0 {
		query := db.WithContext(ctx).Model(&models.Show{}).
			Select("shows.uid, shows.name, shows.schedule_id, shows.studio_room_id, shows.start_time, shows.end_time").
			Where("shows.studio_room_id IN ?", roomIDs).
			Where("shows.schedule_id <> ?", schedule.ID).
			Where("shows.start_time < ? AND shows.end_time > ?", windowEnd, windowStart)
		if len(excluded) > 0 {
			query = query.Where("shows.uid NOT IN ?", excluded)
		}
		if err := query.Find(&roomCandidates).Error; err != nil {
			return Internal(err)
		}
	}

	var mcCandidates []publishedShow
	if len(mcIDs) > 0 {
		query := db.WithContext(ctx).Model(&models.Show{}).
			Select("shows.uid, shows.name, shows.schedule_id, shows.start_time, shows.end_time, show_mcs.mc_id").
			Joins("JOIN show_mcs ON show_mcs.show_id = shows.id AND show_mcs.deleted_at IS NULL").
			Where("show_mcs.mc_id IN ?", mcIDs).
			Where("shows.schedule_id <> ?", schedule.ID).
			Where("shows.start_time < ? AND shows.end_time > ?", windowEnd, windowStart)
		if len(excluded) > 0 {
			query = query.Where("shows.uid NOT IN ?", excluded)
		}
		if err := query.Find(&mcCandidates).Error; err != nil {
			return Internal(err)
		}
	}

	for i := range shows {
		show := &shows[i]
		idx := i

		if show.StudioRoomUID != "" {
			roomID := refs.StudioRooms[show.StudioRoomUID]
			for _, candidate := range roomCandidates {
				if candidate.StudioRoomID == nil || *candidate.StudioRoomID != roomID {
					continue
				}
				if candidate.UID == show.ExistingShowUID {
					continue
				}
				if overlaps(show.StartTime, show.EndTime, candidate.StartTime, candidate.EndTime) {
					result.Add(models.ValidationError{
						Type: models.ValidationRoomConflict,
						Message: fmt.Sprintf("show %q conflicts with published show %q in studio room %q",
							show.Name, candidate.Name, show.StudioRoomUID),
						ShowIndex:  &idx,
						ShowTempID: show.TempID,
					})
				}
			}
		}

		for _, mc := range show.MCs {
			mcID, ok := refs.MCs[mc.McUID]
			if !ok {
				continue
			}
			for _, candidate := range mcCandidates {
				if candidate.McID != mcID {
					continue
				}
				if candidate.UID == show.ExistingShowUID {
					continue
				}
				if overlaps(show.StartTime, show.EndTime, candidate.StartTime, candidate.EndTime) {
					result.Add(models.ValidationError{
						Type: models.ValidationMcDoubleBooking,
						Message: fmt.Sprintf("mc %q is already booked for published show %q during show %q",
							mc.McUID, candidate.Name, show.Name),
						ShowIndex:  &idx,
						ShowTempID: show.TempID,
					})
				}
			}
		}
	}

	return nil
}

// overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// sharedMC returns the first MC uid assigned to both shows, or "".
func sharedMC(a, b *models.PlanShow) string {
	if len(a.MCs) == 0 || len(b.MCs) == 0 {
		return ""
	}
	assigned := make(map[string]struct{}, len(a.MCs))
	for _, mc := range a.MCs {
		if mc.McUID != "" {
			assigned[mc.McUID] = struct{}{}
		}
	}
	for _, mc := range b.MCs {
		if _, ok := assigned[mc.McUID]; ok {
			return mc.McUID
		}
	}
	return ""
}

// draftWindow returns the draft's overall [min start, max end) window.
func draftWindow(shows []models.PlanShow) (time.Time, time.Time, bool) {
	if len(shows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end := shows[0].StartTime, shows[0].EndTime
	for _, show := range shows[1:] {
		if show.StartTime.Before(start) {
			start = show.StartTime
		}
		if show.EndTime.After(end) {
			end = show.EndTime
		}
	}
	return start, end, true
}
