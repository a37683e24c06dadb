package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/lookup"
	"github.com/studiocasthq/studiocast/internal/models"
)

// fixture holds the seeded reference rows every test resolves against.
type fixture struct {
	ClientUID      string
	OtherClientUID string
	RoomUID        string
	OtherRoomUID   string
	TypeUID        string
	StatusUID      string
	StandardUID    string
	McUID          string
	OtherMcUID     string
	PlatformUID    string
}

func newTestService(t *testing.T) (*Service, fixture) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Studio{},
		&models.StudioRoom{},
		&models.Mc{},
		&models.Platform{},
		&models.ShowType{},
		&models.ShowStatus{},
		&models.ShowStandard{},
		&models.Schedule{},
		&models.ScheduleSnapshot{},
		&models.Show{},
		&models.ShowMc{},
		&models.ShowPlatform{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	f := fixture{
		ClientUID:      "cli_acme",
		OtherClientUID: "cli_other",
		RoomUID:        "room_a",
		OtherRoomUID:   "room_b",
		TypeUID:        "sht_live",
		StatusUID:      "shs_confirmed",
		StandardUID:    "shd_hd",
		McUID:          "mc_jordan",
		OtherMcUID:     "mc_riley",
		PlatformUID:    "plf_stream",
	}

	studioID := uuid.NewString()
	seed := []any{
		&models.Client{ID: uuid.NewString(), UID: f.ClientUID, Name: "Acme Media"},
		&models.Client{ID: uuid.NewString(), UID: f.OtherClientUID, Name: "Other Co"},
		&models.Studio{ID: studioID, UID: "std_main", Name: "Main Studio"},
		&models.StudioRoom{ID: uuid.NewString(), UID: f.RoomUID, StudioID: studioID, Name: "Room A"},
		&models.StudioRoom{ID: uuid.NewString(), UID: f.OtherRoomUID, StudioID: studioID, Name: "Room B"},
		&models.Mc{ID: uuid.NewString(), UID: f.McUID, Name: "Jordan"},
		&models.Mc{ID: uuid.NewString(), UID: f.OtherMcUID, Name: "Riley"},
		&models.Platform{ID: uuid.NewString(), UID: f.PlatformUID, Name: "StreamHub"},
		&models.ShowType{ID: uuid.NewString(), UID: f.TypeUID, Name: "Live Sale"},
		&models.ShowStatus{ID: uuid.NewString(), UID: f.StatusUID, Name: "Confirmed"},
		&models.ShowStandard{ID: uuid.NewString(), UID: f.StandardUID, Name: "HD"},
	}
	for _, row := range seed {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewService(db, lookup.NewGateway(db), events.NewBus(), nil, zerolog.Nop(), 30*time.Second)
	return svc, f
}

// day returns a UTC timestamp on 2026-03-<day> at the given hour.
func day(dayOfMonth, hour int) time.Time {
	return time.Date(2026, time.March, dayOfMonth, hour, 0, 0, 0, time.UTC)
}

// planShow builds a valid show referencing the fixture rows.
func (f fixture) planShow(name string, start, end time.Time) models.PlanShow {
	return models.PlanShow{
		Name:            name,
		StartTime:       start,
		EndTime:         end,
		ClientUID:       f.ClientUID,
		StudioRoomUID:   f.RoomUID,
		ShowTypeUID:     f.TypeUID,
		ShowStatusUID:   f.StatusUID,
		ShowStandardUID: f.StandardUID,
		MCs:             []models.PlanShowMC{{McUID: f.McUID}},
		Platforms:       []models.PlanShowPlatform{{PlatformUID: f.PlatformUID, StreamLink: "https://streamhub.example/" + name}},
	}
}

func (f fixture) draftInput(shows ...models.PlanShow) CreateScheduleInput {
	return CreateScheduleInput{
		Name:      "March Slate",
		ClientUID: f.ClientUID,
		StartDate: day(1, 0),
		EndDate:   day(31, 0),
		Shows:     shows,
		ActorUID:  "usr_test",
	}
}

func countErrors(result *models.ValidationResult, errType models.ValidationErrorType) int {
	n := 0
	for _, e := range result.Errors {
		if e.Type == errType {
			n++
		}
	}
	return n
}
