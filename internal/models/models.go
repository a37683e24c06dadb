package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UserRole enumerates account roles.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"
)

// User represents an operator account. Authentication lives outside this
// service; users exist here so mutations can be attributed.
type User struct {
	ID        string   `gorm:"type:uuid;primaryKey"`
	UID       string   `gorm:"type:varchar(32);uniqueIndex;not null"`
	Email     string   `gorm:"uniqueIndex"`
	Name      string   `gorm:"type:varchar(255)"`
	Role      UserRole `gorm:"type:varchar(16)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Client is an agency customer that owns schedules.
type Client struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	UID       string         `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string         `gorm:"type:varchar(255);index;not null"`
	Contact   string         `gorm:"type:varchar(255)"`
	Metadata  map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Studio is a physical production site containing rooms.
type Studio struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	Address   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// StudioRoom is a bookable room within a studio.
type StudioRoom struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	StudioID  string `gorm:"type:uuid;index;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	Capacity  int
	Studio    *Studio `gorm:"foreignKey:StudioID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Mc is a host assignable to shows.
type Mc struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);index;not null"`
	Nickname  string `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Platform is a streaming destination (e.g. a live-commerce channel).
type Platform struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	BaseURL   string `gorm:"type:varchar(512)"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ShowType classifies shows (e.g. livestream, recording).
type ShowType struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ShowStatus is a workflow status applied to shows.
type ShowStatus struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ShowStandard is a production quality tier applied to shows.
type ShowStandard struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UID       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// GroupKind tags the concrete entity a membership group points at.
type GroupKind string

const (
	GroupClient   GroupKind = "client"
	GroupPlatform GroupKind = "platform"
	GroupStudio   GroupKind = "studio"
)

// GroupRef is a polymorphic reference to a client, platform, or studio.
type GroupRef struct {
	Kind GroupKind `json:"kind" gorm:"type:varchar(16)"`
	ID   string    `json:"id" gorm:"type:uuid"`
}

// Resolve loads the referenced group entity. All group kinds dispatch
// through here so type-tag comparisons stay in one place.
func (g GroupRef) Resolve(db *gorm.DB) (any, error) {
	switch g.Kind {
	case GroupClient:
		var c Client
		if err := db.First(&c, "id = ?", g.ID).Error; err != nil {
			return nil, err
		}
		return &c, nil
	case GroupPlatform:
		var p Platform
		if err := db.First(&p, "id = ?", g.ID).Error; err != nil {
			return nil, err
		}
		return &p, nil
	case GroupStudio:
		var s Studio
		if err := db.First(&s, "id = ?", g.ID).Error; err != nil {
			return nil, err
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("unknown group kind %q", g.Kind)
	}
}

// Membership links a user to a group (client, platform, or studio).
type Membership struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;uniqueIndex:idx_membership_unique;not null"`
	GroupKind GroupKind `gorm:"type:varchar(16);uniqueIndex:idx_membership_unique;not null"`
	GroupID   string    `gorm:"type:uuid;uniqueIndex:idx_membership_unique;not null"`
	Role      string    `gorm:"type:varchar(32)"`
	User      *User     `gorm:"foreignKey:UserID"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Group returns the membership's polymorphic group reference.
func (m Membership) Group() GroupRef {
	return GroupRef{Kind: m.GroupKind, ID: m.GroupID}
}

// TableName overrides for pluralization gorm would get wrong.
func (Mc) TableName() string { return "mcs" }
