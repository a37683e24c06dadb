package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/studiocasthq/studiocast/internal/audit"
	"github.com/studiocasthq/studiocast/internal/auth"
	"github.com/studiocasthq/studiocast/internal/events"
	"github.com/studiocasthq/studiocast/internal/lookup"
	"github.com/studiocasthq/studiocast/internal/models"
	"github.com/studiocasthq/studiocast/internal/scheduling"
)

func newTestRouter(t *testing.T) (chi.Router, string) {
	t.Helper()
	// Empty signing key disables auth for handler tests.
	return newTestRouterWithSecret(t, nil)
}

func newTestRouterWithSecret(t *testing.T, secret []byte) (chi.Router, string) {
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
		&models.AuditLog{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	clientUID := "cli_acme"
	if err := db.Create(&models.Client{ID: uuid.NewString(), UID: clientUID, Name: "Acme Media"}).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}

	bus := events.NewBus()
	svc := scheduling.NewService(db, lookup.NewGateway(db), bus, nil, zerolog.Nop(), 30*time.Second)
	auditSvc := audit.NewService(db, bus, zerolog.Nop())

	a := New(db, secret, svc, auditSvc, zerolog.Nop())
	router := chi.NewRouter()
	a.Routes(router)
	return router, clientUID
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createDraft(t *testing.T, router chi.Router, clientUID string, shows []map[string]any) map[string]any {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/schedules", map[string]any{
		"name":      "March Slate",
		"clientUid": clientUID,
		"startDate": "2026-03-01T00:00:00Z",
		"endDate":   "2026-03-31T00:00:00Z",
		"shows":     shows,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create draft: status %d: %s", rec.Code, rec.Body.String())
	}
	var sched map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	return sched
}

func TestScheduleLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	router, clientUID := newTestRouter(t)

	sched := createDraft(t, router, clientUID, []map[string]any{})
	uid, _ := sched["UID"].(string)
	if uid == "" {
		t.Fatalf("created schedule has no uid: %v", sched)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/schedules/"+uid, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/schedules", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}
	var listing struct {
		Total     int64             `json:"total"`
		Schedules []json.RawMessage `json:"schedules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if listing.Total != 1 || len(listing.Schedules) != 1 {
		t.Fatalf("listing total = %d, rows = %d", listing.Total, len(listing.Schedules))
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/schedules/"+uid, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/schedules/"+uid, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status %d", rec.Code)
	}
}

func TestErrorKindStatusMapping(t *testing.T) {
	t.Parallel()
	router, clientUID := newTestRouter(t)

	cases := []struct {
		name       string
		run        func(t *testing.T) *httptest.ResponseRecorder
		wantStatus int
		wantError  string
	}{
		{
			name: "not found",
			run: func(t *testing.T) *httptest.ResponseRecorder {
				return doJSON(t, router, http.MethodGet, "/api/v1/schedules/sch_missing", nil)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "not_found",
		},
		{
			name: "malformed",
			run: func(t *testing.T) *httptest.ResponseRecorder {
				return doJSON(t, router, http.MethodPost, "/api/v1/schedules", map[string]any{
					"name":      "",
					"clientUid": clientUID,
					"startDate": "2026-03-01T00:00:00Z",
					"endDate":   "2026-03-31T00:00:00Z",
				})
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "malformed",
		},
		{
			name: "conflict",
			run: func(t *testing.T) *httptest.ResponseRecorder {
				sched := createDraft(t, router, clientUID, []map[string]any{})
				uid := sched["UID"].(string)
				return doJSON(t, router, http.MethodPatch, "/api/v1/schedules/"+uid, map[string]any{
					"name":            "Renamed",
					"expectedVersion": 99,
				})
			},
			wantStatus: http.StatusConflict,
			wantError:  "conflict",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := tc.run(t)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.wantStatus, rec.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] != tc.wantError {
				t.Fatalf("error = %v, want %q", body["error"], tc.wantError)
			}
		})
	}
}

func TestValidateEndpointReportsErrors(t *testing.T) {
	t.Parallel()
	router, clientUID := newTestRouter(t)

	// Inverted time range plus a dangling room reference.
	show := map[string]any{
		"name":              "broken",
		"start_time":        "2026-03-02T14:00:00Z",
		"end_time":          "2026-03-02T12:00:00Z",
		"client_uid":        clientUID,
		"studio_room_uid":   "room_missing",
		"show_type_uid":     "sht_missing",
		"show_status_uid":   "shs_missing",
		"show_standard_uid": "shd_missing",
	}
	sched := createDraft(t, router, clientUID, []map[string]any{show})
	uid := sched["UID"].(string)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/validate", uid), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("validate: status %d: %s", rec.Code, rec.Body.String())
	}

	var result models.ValidationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.IsValid {
		t.Fatal("expected invalid draft")
	}
	if len(result.Errors) < 5 {
		t.Fatalf("expected every defect reported, got %d: %+v", len(result.Errors), result.Errors)
	}

	// Publishing the same draft maps validation failure to 400.
	version := int(sched["Version"].(float64))
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/publish", uid), map[string]any{
		"expectedVersion": version,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("publish invalid draft: status %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode publish error: %v", err)
	}
	if body["error"] != "validation_failed" {
		t.Fatalf("error = %v, want validation_failed", body["error"])
	}
	if _, ok := body["validationErrors"]; !ok {
		t.Fatal("publish rejection should carry validationErrors")
	}
}

func TestChunkUploadOverHTTP(t *testing.T) {
	t.Parallel()
	router, clientUID := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/schedules", map[string]any{
		"name":           "Chunked Slate",
		"clientUid":      clientUID,
		"startDate":      "2026-03-01T00:00:00Z",
		"endDate":        "2026-03-31T00:00:00Z",
		"expectedChunks": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	var sched map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	uid := sched["UID"].(string)
	version := int(sched["Version"].(float64))

	// Out-of-order first chunk is a 409.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/chunks", uid), map[string]any{
		"chunkIndex":      2,
		"expectedVersion": version,
		"shows":           []map[string]any{},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("out-of-order chunk: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/chunks", uid), map[string]any{
		"chunkIndex":      1,
		"expectedVersion": version,
		"shows":           []map[string]any{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("chunk 1: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuditEndpointRequiresOperatorRole(t *testing.T) {
	t.Parallel()
	secret := []byte("handler-test-secret")
	router, _ := newTestRouterWithSecret(t, secret)

	issue := func(roles ...string) string {
		t.Helper()
		token, err := auth.Issue(secret, auth.Claims{ActorUID: "usr_test", Roles: roles}, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		return token
	}
	get := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := get(""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d, want 401", rec.Code)
	}
	if rec := get(issue(string(models.RoleViewer))); rec.Code != http.StatusForbidden {
		t.Errorf("viewer: status %d, want 403", rec.Code)
	}
	if rec := get(issue(string(models.RoleManager))); rec.Code != http.StatusOK {
		t.Errorf("manager: status %d, want 200", rec.Code)
	}
	if rec := get(issue(string(models.RoleAdmin))); rec.Code != http.StatusOK {
		t.Errorf("admin: status %d, want 200", rec.Code)
	}
}
