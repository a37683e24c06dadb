package audit

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewService(db, events.NewBus(), zerolog.Nop())
}

func TestLogAuditEntryClassifiesResources(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	svc.logAuditEntry(ctx, models.AuditActionSchedulePublish, events.Payload{
		"actor_uid":     "usr_ops",
		"schedule_uid":  "sch_0awBZ6pX903LJYkFcQsVim",
		"shows_created": 4,
	})
	svc.logAuditEntry(ctx, models.AuditActionSnapshotCreate, events.Payload{
		"actor_uid":    "usr_ops",
		"snapshot_uid": "snp_5qLMnE2rT8vWcGyH1bKdAz",
	})

	logs, total, err := svc.Query(ctx, QueryFilters{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	byAction := make(map[models.AuditAction]models.AuditLog, len(logs))
	for _, entry := range logs {
		byAction[entry.Action] = entry
	}
	published := byAction[models.AuditActionSchedulePublish]
	if published.ResourceType != "schedule" || published.ActorUID != "usr_ops" {
		t.Errorf("publish entry = %q/%q, want schedule/usr_ops", published.ResourceType, published.ActorUID)
	}
	if published.Details["shows_created"] == nil {
		t.Error("publish entry lost its detail payload")
	}
	snapshot := byAction[models.AuditActionSnapshotCreate]
	if snapshot.ResourceType != "snapshot" {
		t.Errorf("snapshot entry resource type = %q, want snapshot", snapshot.ResourceType)
	}
}

func TestResourceTypeFallsBackToUnknown(t *testing.T) {
	t.Parallel()
	if got := resourceType("legacy-identifier"); got != "unknown" {
		t.Errorf("resourceType = %q, want unknown", got)
	}
}
