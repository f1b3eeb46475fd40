package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neomorfeo/tutoriq/internal/adapter/fsm"
	handler "github.com/neomorfeo/tutoriq/internal/adapter/http"
	"github.com/neomorfeo/tutoriq/internal/adapter/sqlite"
	"github.com/neomorfeo/tutoriq/internal/app"
	"github.com/neomorfeo/tutoriq/internal/domain"
)

// testPublisher is a local EventPublisher for the smoke test.
// The smoke test verifies HTTP wiring, not River.
type testPublisher struct{}

func (p *testPublisher) ScheduleUpdated(_ context.Context, _ domain.ScheduleUpdatedEvent) error {
	return nil
}

func (p *testPublisher) SlotReserved(_ context.Context, _ domain.SlotReservedEvent) error {
	return nil
}

func (p *testPublisher) SlotReleased(_ context.Context, _ domain.SlotReleasedEvent) error {
	return nil
}

func seedSchedule(t *testing.T, store *sqlite.Store) (tutorID, subjectID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	tutorID = uuid.New()
	subjectID = uuid.New()

	if err := store.CreateTutor(ctx, domain.Tutor{
		ID:        tutorID,
		FirstName: "Elena",
		LastName:  "Costa",
		Email:     "elena@example.com",
		Status:    domain.TutorStatusActive,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("seeding tutor: %v", err)
	}
	if err := store.CreateSubject(ctx, domain.Subject{
		ID:        subjectID,
		Name:      "Physics",
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("seeding subject: %v", err)
	}
	if err := store.CreateTeachingSubject(ctx, domain.TeachingSubject{
		ID:              uuid.New(),
		TutorID:         tutorID,
		SubjectID:       subjectID,
		PricePerHour:    decimal.NewFromInt(40),
		ExperienceYears: 3,
		CreatedAt:       now,
	}); err != nil {
		t.Fatalf("seeding teaching subject: %v", err)
	}

	return tutorID, subjectID
}

// TestSmoke wires the full stack like main() and walks the booking
// lifecycle: create, validate, reserve, concurrent reserve rejection,
// release.
func TestSmoke(t *testing.T) {
	dbPath := t.TempDir() + "/test.db"

	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	schedule := app.NewScheduleService(store, store, store, &testPublisher{}, fsm.New())
	validation := app.NewValidationService(store)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("tutoriq", "0.1.0"))
	handler.Register(api, schedule, validation)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tutorID, subjectID := seedSchedule(t, store)

	post := func(path, body string) *http.Response {
		t.Helper()
		req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL+path, strings.NewReader(body))
		if err != nil {
			t.Fatalf("creating request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("POST %s failed: %v", path, err)
		}
		return resp
	}

	// Create a slot for tomorrow morning.
	body := fmt.Sprintf(`{"tutor_id":%q,"start_time":"2024-01-10T10:00:00Z","end_time":"2024-01-10T11:00:00Z"}`, tutorID)
	resp := post("/api/v1/slots", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var slot handler.SlotResponse
	if err := json.NewDecoder(resp.Body).Decode(&slot); err != nil {
		t.Fatalf("decode slot: %v", err)
	}
	resp.Body.Close()

	// Validate it for the seeded tutor-subject pair.
	body = fmt.Sprintf(`{"tutor_id":%q,"subject_id":%q}`, tutorID, subjectID)
	resp = post("/api/v1/slots/"+slot.ID+"/validate", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var validated struct {
		IsValid      bool   `json:"is_valid"`
		PricePerHour string `json:"price_per_hour"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&validated); err != nil {
		t.Fatalf("decode validation: %v", err)
	}
	resp.Body.Close()
	if !validated.IsValid || validated.PricePerHour != "40" {
		t.Fatalf("validate = (%v, %q), want (true, \"40\")", validated.IsValid, validated.PricePerHour)
	}

	// First booking wins the reservation.
	body = fmt.Sprintf(`{"booking_id":%q}`, uuid.New())
	resp = post("/api/v1/slots/"+slot.ID+"/reserve", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reserve: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	// Second booking is turned away.
	body = fmt.Sprintf(`{"booking_id":%q}`, uuid.New())
	resp = post("/api/v1/slots/"+slot.ID+"/reserve", body)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("second reserve: status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
	resp.Body.Close()

	// Release puts the slot back in the pool.
	resp = post("/api/v1/slots/"+slot.ID+"/release", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("release: status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var released handler.SlotResponse
	if err := json.NewDecoder(resp.Body).Decode(&released); err != nil {
		t.Fatalf("decode released: %v", err)
	}
	resp.Body.Close()
	if released.Status != "available" {
		t.Fatalf("released status = %q, want %q", released.Status, "available")
	}
}

// TestRun exercises the real run() function end-to-end: OTel, River, HTTP
// server, and graceful shutdown. It uses stdout OTel exporter and a temp
// database to avoid external dependencies.
func TestRun(t *testing.T) {
	t.Setenv("DATABASE_PATH", t.TempDir()+"/test-run.db")
	t.Setenv("PORT", "19876")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout exporter output during the test.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- run() }()

	// Wait for the HTTP server to become ready.
	serverURL := "http://localhost:19876"
	probe := serverURL + "/api/v1/slots/" + uuid.New().String()
	ready := false
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, probe, nil)
		resp, reqErr := http.DefaultClient.Do(req)
		if reqErr == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatal("server did not start within 5 seconds")
	}

	// An unknown slot id gets a 404 through the full stack.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, probe, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", probe, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}

	// Send SIGINT to trigger graceful shutdown.
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("finding process: %v", err)
	}
	if err := proc.Signal(syscall.SIGINT); err != nil {
		t.Fatalf("sending SIGINT: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run() did not exit within 10 seconds")
	}
}

// TestRun_InvalidDB verifies run() returns an error for an invalid database path.
func TestRun_InvalidDB(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/nonexistent/path/db.sqlite")
	t.Setenv("PORT", "19877")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout output.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	if err := run(); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}
