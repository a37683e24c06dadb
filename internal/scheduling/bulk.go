/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package scheduling

import (
	"context"

	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/models"
)

// BulkItemResult reports one item of a bulk operation. Items are
// independent units of work; a failure here never rolls back siblings.
type BulkItemResult struct {
	Index     int    `json:"index"`
	UID       string `json:"uid,omitempty"`
	Name      string `json:"name,omitempty"`
	ClientUID string `json:"clientUid,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
	ErrorKind Kind   `json:"errorKind,omitempty"`
}

// BulkResult aggregates a bulk operation's outcome.
type BulkResult struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Results    []BulkItemResult  `json:"results"`
	Schedules  []models.Schedule `json:"schedules,omitempty"`
}

// BulkCreateSchedules creates each schedule independently, preserving
// input order in the per-item results. Partial success is the normal
// outcome, not an error.
func (s *Service) BulkCreateSchedules(ctx context.Context, inputs []CreateScheduleInput, actorUID string) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, Malformed("bulk create requires at least one schedule")
	}

	result := &BulkResult{Total: len(inputs)}
	for i, input := range inputs {
		input.ActorUID = actorUID
		item := BulkItemResult{Index: i, Name: input.Name, ClientUID: input.ClientUID}

		schedule, err := s.CreateSchedule(ctx, input)
		if err != nil {
			item.Error = err.Error()
			item.ErrorKind = KindOf(err)
			result.Failed++
		} else {
			item.UID = schedule.UID
			item.Success = true
			result.Successful++
			result.Schedules = append(result.Schedules, *schedule)
		}
		result.Results = append(result.Results, item)
	}

	s.bus.Publish(events.EventBulkCreate, events.Payload{
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
		"actor_uid":  actorUID,
	})

	s.logger.Info().
		Int("total", result.Total).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("bulk schedule create")

	return result, nil
}

// BulkUpdateItem addresses one schedule in a bulk update.
type BulkUpdateItem struct {
	ScheduleUID string
	Update      UpdateScheduleInput
}

// BulkUpdateSchedules applies each update independently.
func (s *Service) BulkUpdateSchedules(ctx context.Context, items []BulkUpdateItem, actorUID string) (*BulkResult, error) {
	if len(items) == 0 {
		return nil, Malformed("bulk update requires at least one schedule")
	}

	result := &BulkResult{Total: len(items)}
	for i, item := range items {
		item.Update.ActorUID = actorUID
		itemResult := BulkItemResult{Index: i, UID: item.ScheduleUID}

		schedule, err := s.UpdateSchedule(ctx, item.ScheduleUID, item.Update)
		if err != nil {
			itemResult.Error = err.Error()
			itemResult.ErrorKind = KindOf(err)
			result.Failed++
		} else {
			itemResult.Name = schedule.Name
			itemResult.Success = true
			result.Successful++
			result.Schedules = append(result.Schedules, *schedule)
		}
		result.Results = append(result.Results, itemResult)
	}

	s.bus.Publish(events.EventBulkUpdate, events.Payload{
		"total":      result.Total,
		"successful": result.Successful,
		"failed":     result.Failed,
		"actor_uid":  actorUID,
	})

	return result, nil
}
