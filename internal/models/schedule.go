/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleStatus defines the lifecycle state of a schedule.
type ScheduleStatus string

const (
	ScheduleDraft     ScheduleStatus = "draft"
	SchedulePublished ScheduleStatus = "published"
)

// Schedule is the unit of planning: a client's slate of shows for a date
// range. The editable draft lives in PlanDocument; publishing materializes
// it into normalized Show rows. Version is the optimistic-concurrency token
// and increments on every accepted mutation of the plan or status.
type Schedule struct {
	ID            string         `gorm:"type:uuid;primaryKey"`
	UID           string         `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name          string         `gorm:"type:varchar(255);not null"`
	StartDate     time.Time      `gorm:"index;not null"`
	EndDate       time.Time      `gorm:"not null"` // exclusive upper bound of the range
	Status        ScheduleStatus `gorm:"type:varchar(16);index;not null;default:'draft'"`
	Version       int            `gorm:"not null;default:1"`
	PlanDocument  PlanDocument   `gorm:"type:jsonb;serializer:json"`
	ClientID      string         `gorm:"type:uuid;index;not null"`
	CreatedByID   *string        `gorm:"type:uuid"`
	PublishedByID *string        `gorm:"type:uuid"`
	PublishedAt   *time.Time
	Metadata      map[string]any `gorm:"type:jsonb;serializer:json"`

	Client      *Client `gorm:"foreignKey:ClientID"`
	CreatedBy   *User   `gorm:"foreignKey:CreatedByID"`
	PublishedBy *User   `gorm:"foreignKey:PublishedByID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (Schedule) TableName() string {
	return "schedules"
}

// PlanDocument is the draft payload of a schedule. Shows being nil (as
// opposed to empty) marks a structurally malformed draft.
type PlanDocument struct {
	Metadata PlanMetadata `json:"metadata"`
	Shows    []PlanShow   `json:"shows"`
}

// PlanMetadata carries draft bookkeeping, including the chunked-upload
// progress tracker when a schedule is filled incrementally.
type PlanMetadata struct {
	LastEditedBy   string          `json:"last_edited_by,omitempty"`
	LastEditedAt   *time.Time      `json:"last_edited_at,omitempty"`
	TotalShows     int             `json:"total_shows"`
	ClientName     string          `json:"client_name,omitempty"`
	RangeStart     *time.Time      `json:"range_start,omitempty"`
	RangeEnd       *time.Time      `json:"range_end,omitempty"`
	UploadProgress *UploadProgress `json:"upload_progress,omitempty"`
}

// UploadProgress tracks sequential chunk ingestion for a draft.
// Chunks are 1-based; LastChunkIndex is nil until the first chunk lands.
type UploadProgress struct {
	ExpectedChunks int  `json:"expected_chunks"`
	ReceivedChunks int  `json:"received_chunks"`
	LastChunkIndex *int `json:"last_chunk_index"`
	IsComplete     bool `json:"is_complete"`
}

// PlanShow is one show inside a draft. TempID identifies it within the
// draft; ExistingShowUID links it to a previously published show when the
// draft edits an existing publication.
type PlanShow struct {
	TempID          string             `json:"temp_id,omitempty"`
	ExistingShowUID string             `json:"existing_show_uid,omitempty"`
	Name            string             `json:"name"`
	StartTime       time.Time          `json:"start_time"`
	EndTime         time.Time          `json:"end_time"`
	ClientUID       string             `json:"client_uid"`
	StudioRoomUID   string             `json:"studio_room_uid,omitempty"`
	ShowTypeUID     string             `json:"show_type_uid"`
	ShowStatusUID   string             `json:"show_status_uid"`
	ShowStandardUID string             `json:"show_standard_uid"`
	MCs             []PlanShowMC       `json:"mcs,omitempty"`
	Platforms       []PlanShowPlatform `json:"platforms,omitempty"`
	Metadata        map[string]any     `json:"metadata,omitempty"`
}

// PlanShowMC is an MC assignment inside a draft show.
type PlanShowMC struct {
	McUID string `json:"mc_uid"`
	Note  string `json:"note,omitempty"`
}

// PlanShowPlatform is a platform assignment inside a draft show.
type PlanShowPlatform struct {
	PlatformUID    string `json:"platform_uid"`
	StreamLink     string `json:"stream_link,omitempty"`
	ExternalShowID string `json:"external_show_id,omitempty"`
}

// Snapshot reasons. Anything else is accepted verbatim; blank defaults to
// SnapshotReasonManual.
const (
	SnapshotReasonManual        = "manual"
	SnapshotReasonBeforeRestore = "before-restore"
)

// ScheduleSnapshot is an immutable point-in-time copy of a schedule's draft.
// Rows are created and read, never updated.
type ScheduleSnapshot struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	UID          string         `gorm:"type:varchar(32);uniqueIndex;not null"`
	ScheduleID   string         `gorm:"type:uuid;index:idx_snapshots_schedule;not null"`
	PlanDocument PlanDocument   `gorm:"type:jsonb;serializer:json"`
	Version      int            `gorm:"not null"`
	Status       ScheduleStatus `gorm:"type:varchar(16);not null"`
	Reason       string         `gorm:"type:varchar(64);not null;default:'manual'"`
	CreatedByID  *string        `gorm:"type:uuid"`

	Schedule  *Schedule `gorm:"foreignKey:ScheduleID"`
	CreatedBy *User     `gorm:"foreignKey:CreatedByID"`

	CreatedAt time.Time
}

// TableName returns the table name for GORM.
func (ScheduleSnapshot) TableName() string {
	return "schedule_snapshots"
}
