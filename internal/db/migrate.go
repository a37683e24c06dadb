/*
Copyright (C) 2026 StudioCast HQ

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package db

import (
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/models"
)

// Migrate applies database schema migrations using GORM auto-migrate.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		// Reference entities
		&models.User{},
		&models.Client{},
		&models.Studio{},
		&models.StudioRoom{},
		&models.Mc{},
		&models.Platform{},
		&models.ShowType{},
		&models.ShowStatus{},
		&models.ShowStandard{},
		&models.Membership{},

		// Scheduling core
		&models.Schedule{},
		&models.ScheduleSnapshot{},
		&models.Show{},
		&models.ShowMc{},
		&models.ShowPlatform{},

		// Operational
		&models.AuditLog{},
	)
}
