package river_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	goriver "github.com/riverqueue/river"

	_ "modernc.org/sqlite"

	riveradapter "github.com/neomorfeo/tutoriq/internal/adapter/river"
	"github.com/neomorfeo/tutoriq/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbPath := t.TempDir() + "/river_test.db"
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		t.Fatalf("setting WAL: %v", err)
	}

	return db
}

func setupClient(t *testing.T, db *sql.DB) *riveradapter.Client {
	t.Helper()

	client, err := riveradapter.Setup(context.Background(), db)
	if err != nil {
		t.Fatalf("river setup: %v", err)
	}

	return client
}

func startClient(t *testing.T, client *riveradapter.Client) {
	t.Helper()

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("river start: %v", err)
	}
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Stop(stopCtx); err != nil {
			t.Errorf("river stop: %v", err)
		}
	})
}

func TestPublisher_SlotReserved_EnqueuesJob(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	ctx := context.Background()

	// Subscribe to job completions before starting so we don't miss events.
	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	defer subscribeCancel()

	startClient(t, client)

	pub := riveradapter.NewPublisher(client)
	err := pub.SlotReserved(ctx, domain.SlotReservedEvent{
		SlotID:     uuid.New(),
		TutorID:    uuid.New(),
		ReservedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SlotReserved failed: %v", err)
	}

	// Wait for the worker to process the job.
	select {
	case event := <-subscribeChan:
		if event.Job.Kind != "schedule.event" {
			t.Errorf("job kind = %q, want %q", event.Job.Kind, "schedule.event")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}

func TestPublisher_ScheduleUpdated_PreservesEventData(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	ctx := context.Background()

	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	defer subscribeCancel()

	startClient(t, client)

	pub := riveradapter.NewPublisher(client)
	slotID := uuid.New()
	tutorID := uuid.New()

	err := pub.ScheduleUpdated(ctx, domain.ScheduleUpdatedEvent{
		TutorID:   tutorID,
		SlotID:    slotID,
		StartTime: time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2024, 1, 10, 11, 0, 0, 0, time.UTC),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("ScheduleUpdated failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		// Verify the job carried the right args by checking the encoded JSON.
		args := event.Job.EncodedArgs
		if args == nil {
			t.Fatal("expected encoded args, got nil")
		}
		argsStr := string(args)
		wanted := []string{
			`"topic":"schedule-updated"`,
			`"slot_id":"` + slotID.String() + `"`,
			`"tutor_id":"` + tutorID.String() + `"`,
		}
		for _, want := range wanted {
			if !strings.Contains(argsStr, want) {
				t.Errorf("encoded args missing %s, got: %s", want, argsStr)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}

func TestPublisher_SlotReleased_EnqueuesJob(t *testing.T) {
	db := setupTestDB(t)
	client := setupClient(t, db)
	ctx := context.Background()

	subscribeChan, subscribeCancel := client.Subscribe(goriver.EventKindJobCompleted)
	defer subscribeCancel()

	startClient(t, client)

	pub := riveradapter.NewPublisher(client)
	err := pub.SlotReleased(ctx, domain.SlotReleasedEvent{
		SlotID:     uuid.New(),
		TutorID:    uuid.New(),
		ReleasedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SlotReleased failed: %v", err)
	}

	select {
	case event := <-subscribeChan:
		args := string(event.Job.EncodedArgs)
		if !strings.Contains(args, `"topic":"slot-released"`) {
			t.Errorf("encoded args missing topic, got: %s", args)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for job completion")
	}
}
