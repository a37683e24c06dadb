package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/studiocasthq/studiocast/internal/models"
)

func TestValidateCleanDraft(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	sched, err := svc.CreateSchedule(ctx, f.draftInput(
		f.planShow("morning", day(2, 10), day(2, 12)),
		f.planShow("evening", day(2, 12), day(2, 14)),
	))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid draft, got errors: %+v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("expected no errors, got %d", len(result.Errors))
	}
}

func TestValidateTouchingShowsDoNotConflict(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	// Back to back in the same room: 10-12 then 12-13.
	sched, err := svc.CreateSchedule(ctx, f.draftInput(
		f.planShow("first", day(2, 10), day(2, 12)),
		f.planShow("second", day(2, 12), day(2, 13)),
	))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("touching shows flagged as conflict: %+v", result.Errors)
	}
}

func TestValidateInternalRoomConflict(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	// 10-12 and 11-13 in the same room overlap for an hour.
	second := f.planShow("second", day(2, 11), day(2, 13))
	second.MCs = []models.PlanShowMC{{McUID: f.OtherMcUID}}
	sched, err := svc.CreateSchedule(ctx, f.draftInput(
		f.planShow("first", day(2, 10), day(2, 12)),
		second,
	))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected room conflict")
	}
	if got := countErrors(result, models.ValidationInternalConflict); got != 1 {
		t.Fatalf("expected 1 internal conflict, got %d: %+v", got, result.Errors)
	}
	conflict := result.Errors[0]
	if conflict.ShowIndex == nil || *conflict.ShowIndex != 0 {
		t.Fatalf("conflict should be attributed to the earlier show, got index %v", conflict.ShowIndex)
	}
}

func TestValidateInternalMcDoubleBooking(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	// Same MC, overlapping times, different rooms.
	second := f.planShow("second", day(2, 11), day(2, 13))
	second.StudioRoomUID = f.OtherRoomUID
	sched, err := svc.CreateSchedule(ctx, f.draftInput(
		f.planShow("first", day(2, 10), day(2, 12)),
		second,
	))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := countErrors(result, models.ValidationInternalConflict); got != 1 {
		t.Fatalf("expected 1 mc double booking, got %d: %+v", got, result.Errors)
	}
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	// Inverted time range plus a missing room and a missing MC, all on
	// one show. Validation must report every defect, not stop early.
	bad := f.planShow("broken", day(2, 14), day(2, 12))
	bad.StudioRoomUID = "room_missing"
	bad.MCs = []models.PlanShowMC{{McUID: "mc_missing"}}
	sched, err := svc.CreateSchedule(ctx, f.draftInput(bad))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected invalid draft")
	}
	if got := countErrors(result, models.ValidationTimeRange); got != 1 {
		t.Errorf("expected 1 time range error, got %d", got)
	}
	if got := countErrors(result, models.ValidationReferenceNotFound); got != 2 {
		t.Errorf("expected 2 reference errors, got %d: %+v", got, result.Errors)
	}
}

func TestValidateShowOutsideScheduleRange(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	input := f.draftInput(f.planShow("early", day(2, 10), day(2, 12)))
	input.StartDate = day(10, 0)
	input.EndDate = day(20, 0)
	sched, err := svc.CreateSchedule(ctx, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := countErrors(result, models.ValidationTimeRange); got != 1 {
		t.Fatalf("expected 1 time range error, got %d: %+v", got, result.Errors)
	}
}

func TestValidateClientMismatch(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	show := f.planShow("wrong-client", day(2, 10), day(2, 12))
	show.ClientUID = f.OtherClientUID
	sched, err := svc.CreateSchedule(ctx, f.draftInput(show))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := countErrors(result, models.ValidationReferenceNotFound); got != 1 {
		t.Fatalf("expected client mismatch error, got %+v", result.Errors)
	}
}

func TestValidateNilShowsSequence(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	sched, err := svc.CreateSchedule(ctx, f.draftInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Zero the shows sequence directly: always-initialize on create means
	// nil can only come from external writers.
	doc := sched.PlanDocument
	doc.Shows = nil
	if err := svc.db.Model(&models.Schedule{}).Where("id = ?", sched.ID).
		Select("PlanDocument").Updates(&models.Schedule{PlanDocument: doc}).Error; err != nil {
		t.Fatalf("corrupt draft: %v", err)
	}

	result, err := svc.Validate(ctx, sched.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatal("nil shows should be invalid")
	}
	if got := countErrors(result, models.ValidationReferenceNotFound); got != 1 {
		t.Fatalf("expected single structural error, got %+v", result.Errors)
	}
}

func TestValidateExternalRoomConflict(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	// Publish one schedule, then validate a second draft whose show
	// overlaps the published one in the same room.
	first, err := svc.CreateSchedule(ctx, f.draftInput(f.planShow("published", day(2, 10), day(2, 12))))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Publish(ctx, first.UID, first.Version, "usr_test"); err != nil {
		t.Fatalf("publish first: %v", err)
	}

	overlapping := f.planShow("contender", day(2, 11), day(2, 13))
	overlapping.MCs = []models.PlanShowMC{{McUID: f.OtherMcUID}}
	second, err := svc.CreateSchedule(ctx, f.draftInput(overlapping))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	result, err := svc.Validate(ctx, second.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := countErrors(result, models.ValidationRoomConflict); got != 1 {
		t.Fatalf("expected 1 room conflict against published show, got %d: %+v", got, result.Errors)
	}
}

func TestValidateExternalMcDoubleBooking(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateSchedule(ctx, f.draftInput(f.planShow("published", day(2, 10), day(2, 12))))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Publish(ctx, first.UID, first.Version, "usr_test"); err != nil {
		t.Fatalf("publish first: %v", err)
	}

	overlapping := f.planShow("contender", day(2, 11), day(2, 13))
	overlapping.StudioRoomUID = f.OtherRoomUID
	second, err := svc.CreateSchedule(ctx, f.draftInput(overlapping))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	result, err := svc.Validate(ctx, second.UID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := countErrors(result, models.ValidationMcDoubleBooking); got != 1 {
		t.Fatalf("expected 1 mc double booking against published show, got %d: %+v", got, result.Errors)
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	t.Parallel()
	base := day(2, 10)
	cases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		want         bool
	}{
		{"identical", base, base.Add(2 * time.Hour), base, base.Add(2 * time.Hour), true},
		{"partial", base, base.Add(2 * time.Hour), base.Add(time.Hour), base.Add(3 * time.Hour), true},
		{"contained", base, base.Add(3 * time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"touching", base, base.Add(2 * time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
		{"disjoint", base, base.Add(time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("overlaps = %v, want %v", got, tc.want)
			}
			// Symmetry
			if got := overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("overlaps (swapped) = %v, want %v", got, tc.want)
			}
		})
	}
}
