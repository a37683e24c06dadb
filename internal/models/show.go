/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"time"

	"gorm.io/gorm"
)

// Show is a normalized, published show record. Rows belong to exactly one
// schedule and are bulk-replaced on every publish of that schedule; nothing
// edits them outside the publish transaction.
type Show struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	UID            string         `gorm:"type:varchar(32);uniqueIndex;not null"`
	ScheduleID     string         `gorm:"type:uuid;index:idx_shows_schedule;not null"`
	Name           string         `gorm:"type:varchar(255);not null"`
	StartTime      time.Time      `gorm:"index:idx_shows_time;not null"`
	EndTime        time.Time      `gorm:"not null"`
	ClientID       string         `gorm:"type:uuid;index;not null"`
	StudioRoomID   *string        `gorm:"type:uuid;index:idx_shows_room"`
	ShowTypeID     string         `gorm:"type:uuid;not null"`
	ShowStatusID   string         `gorm:"type:uuid;not null"`
	ShowStandardID string         `gorm:"type:uuid;not null"`
	Metadata       map[string]any `gorm:"type:jsonb;serializer:json"`

	Schedule   *Schedule      `gorm:"foreignKey:ScheduleID"`
	Client     *Client        `gorm:"foreignKey:ClientID"`
	StudioRoom *StudioRoom    `gorm:"foreignKey:StudioRoomID"`
	MCs        []ShowMc       `gorm:"foreignKey:ShowID"`
	Platforms  []ShowPlatform `gorm:"foreignKey:ShowID"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (Show) TableName() string {
	return "shows"
}

// ShowMc joins a published show to an MC with assignment attributes.
type ShowMc struct {
	ID     string `gorm:"type:uuid;primaryKey"`
	ShowID string `gorm:"type:uuid;index:idx_show_mcs_show;not null"`
	McID   string `gorm:"type:uuid;index:idx_show_mcs_mc;not null"`
	Note   string `gorm:"type:text"`

	Show *Show `gorm:"foreignKey:ShowID"`
	Mc   *Mc   `gorm:"foreignKey:McID"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (ShowMc) TableName() string {
	return "show_mcs"
}

// ShowPlatform joins a published show to a streaming platform.
type ShowPlatform struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ShowID         string `gorm:"type:uuid;index:idx_show_platforms_show;not null"`
	PlatformID     string `gorm:"type:uuid;index:idx_show_platforms_platform;not null"`
	StreamLink     string `gorm:"type:varchar(1024)"`
	ExternalShowID string `gorm:"type:varchar(255)"`
	ViewerCount    int    `gorm:"not null;default:0"`

	Show     *Show     `gorm:"foreignKey:ShowID"`
	Platform *Platform `gorm:"foreignKey:PlatformID"`

	CreatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM.
func (ShowPlatform) TableName() string {
	return "show_platforms"
}
