package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/studiocasthq/studiocast/internal/models"
)

func TestListSchedulesFilters(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSchedule(ctx, f.draftInput()); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	published, err := svc.CreateSchedule(ctx, f.draftInput(f.planShow("one", day(2, 10), day(2, 12))))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := svc.Publish(ctx, published.UID, published.Version, "usr_test"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	schedules, total, err := svc.ListSchedules(ctx, ListFilter{Status: models.SchedulePublished})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if total != 1 || len(schedules) != 1 || schedules[0].UID != published.UID {
		t.Fatalf("published filter returned %d rows (total %d)", len(schedules), total)
	}

	_, total, err = svc.ListSchedules(ctx, ListFilter{ClientUID: f.ClientUID})
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}
	if total != 2 {
		t.Errorf("client filter total = %d, want 2", total)
	}

	_, _, err = svc.ListSchedules(ctx, ListFilter{ClientUID: "cli_ghost"})
	if KindOf(err) != KindNotFound {
		t.Fatalf("unknown client filter: expected not_found, got %v", err)
	}
}

func TestDeleteScheduleSoftDeletes(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	sched, err := svc.CreateSchedule(ctx, f.draftInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteSchedule(ctx, sched.UID, "usr_test"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.GetSchedule(ctx, sched.UID); KindOf(err) != KindNotFound {
		t.Fatalf("deleted schedule still readable: %v", err)
	}

	// Row survives under soft delete.
	_, total, err := svc.ListSchedules(ctx, ListFilter{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("list deleted: %v", err)
	}
	if total != 1 {
		t.Errorf("unscoped total = %d, want 1", total)
	}
}

func TestMonthlyOverviewGroupsByClient(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateSchedule(ctx, f.draftInput(f.planShow("one", day(2, 10), day(2, 12))))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Publish(ctx, first.UID, first.Version, "usr_test"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	secondInput := f.draftInput()
	secondInput.Name = "Other Slate"
	secondInput.ClientUID = f.OtherClientUID
	if _, err := svc.CreateSchedule(ctx, secondInput); err != nil {
		t.Fatalf("create second: %v", err)
	}

	overview, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.March})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Published != 1 || overview.Drafts != 1 {
		t.Errorf("published/drafts = %d/%d, want 1/1", overview.Published, overview.Drafts)
	}
	if len(overview.Clients) != 2 {
		t.Fatalf("client groups = %d, want 2", len(overview.Clients))
	}

	filtered, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.March, ClientUIDs: []string{f.OtherClientUID}})
	if err != nil {
		t.Fatalf("filtered overview: %v", err)
	}
	if len(filtered.Clients) != 1 {
		t.Fatalf("filtered client groups = %d, want 1", len(filtered.Clients))
	}
	if filtered.Clients[0].ClientUID != f.OtherClientUID {
		t.Errorf("filtered group client = %q", filtered.Clients[0].ClientUID)
	}

	both, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.March, ClientUIDs: []string{f.ClientUID, f.OtherClientUID}})
	if err != nil {
		t.Fatalf("two-client overview: %v", err)
	}
	if len(both.Clients) != 2 {
		t.Errorf("two-client groups = %d, want 2", len(both.Clients))
	}

	// A month the schedules do not touch is empty.
	empty, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("empty overview: %v", err)
	}
	if len(empty.Clients) != 0 {
		t.Errorf("july groups = %d, want 0", len(empty.Clients))
	}
}

func TestMonthlyOverviewFiltersByStatus(t *testing.T) {
	t.Parallel()
	svc, f := newTestService(t)
	ctx := context.Background()

	published, err := svc.CreateSchedule(ctx, f.draftInput(f.planShow("one", day(2, 10), day(2, 12))))
	if err != nil {
		t.Fatalf("create published: %v", err)
	}
	if _, err := svc.Publish(ctx, published.UID, published.Version, "usr_test"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	draftInput := f.draftInput()
	draftInput.Name = "Still Drafting"
	if _, err := svc.CreateSchedule(ctx, draftInput); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	drafts, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.March, Status: models.ScheduleDraft})
	if err != nil {
		t.Fatalf("draft overview: %v", err)
	}
	if drafts.Drafts != 1 || drafts.Published != 0 {
		t.Errorf("draft overview counts = %d/%d, want 1/0", drafts.Drafts, drafts.Published)
	}
	if len(drafts.Clients) != 1 || len(drafts.Clients[0].Schedules) != 1 {
		t.Fatalf("draft overview groups = %+v", drafts.Clients)
	}
	if drafts.Clients[0].Schedules[0].Status != models.ScheduleDraft {
		t.Errorf("status = %q, want draft", drafts.Clients[0].Schedules[0].Status)
	}

	publishedOnly, err := svc.MonthlyOverview(ctx, OverviewFilter{Year: 2026, Month: time.March, Status: models.SchedulePublished})
	if err != nil {
		t.Fatalf("published overview: %v", err)
	}
	if publishedOnly.Published != 1 || publishedOnly.Drafts != 0 {
		t.Errorf("published overview counts = %d/%d, want 1/0", publishedOnly.Published, publishedOnly.Drafts)
	}
}

func TestMonthlyOverviewRejectsBadFilters(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(t)

	_, err := svc.MonthlyOverview(context.Background(), OverviewFilter{Year: 2026, Month: 13})
	if KindOf(err) != KindMalformed {
		t.Fatalf("bad month: expected malformed, got %v", err)
	}
	_, err = svc.MonthlyOverview(context.Background(), OverviewFilter{Year: 2026, Month: time.March, Status: "archived"})
	if KindOf(err) != KindMalformed {
		t.Fatalf("bad status: expected malformed, got %v", err)
	}
}
