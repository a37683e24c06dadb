/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import "time"

// AuditAction defines the type of audited action.
type AuditAction string

// Audit action constants for engine mutations.
const (
	AuditActionScheduleCreate    AuditAction = "schedule.create"
	AuditActionScheduleUpdate    AuditAction = "schedule.update"
	AuditActionScheduleDelete    AuditAction = "schedule.delete"
	AuditActionScheduleDuplicate AuditAction = "schedule.duplicate"
	AuditActionSchedulePublish   AuditAction = "schedule.publish"
	AuditActionScheduleRestore   AuditAction = "schedule.restore"
	AuditActionSnapshotCreate    AuditAction = "snapshot.create"
	AuditActionChunkComplete     AuditAction = "upload.chunk_complete"
	AuditActionBulkCreate        AuditAction = "schedule.bulk_create"
	AuditActionBulkUpdate        AuditAction = "schedule.bulk_update"
)

// AuditLog records engine mutations for traceability.
type AuditLog struct {
	ID           string         `gorm:"type:uuid;primaryKey"`
	Timestamp    time.Time      `gorm:"index:idx_audit_timestamp;not null"`
	ActorUID     string         `gorm:"type:varchar(32);index:idx_audit_actor"` // empty for system actions
	Action       AuditAction    `gorm:"type:varchar(64);index:idx_audit_action;not null"`
	ResourceType string         `gorm:"type:varchar(64)"`
	ResourceUID  string         `gorm:"type:varchar(32)"`
	Details      map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM.
func (AuditLog) TableName() string {
	return "audit_logs"
}
