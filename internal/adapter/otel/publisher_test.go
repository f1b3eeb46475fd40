package otel_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"

	adapter "github.com/neomorfeo/tutoriq/internal/adapter/otel"
	"github.com/neomorfeo/tutoriq/internal/domain"
)

// --- Mock publisher ---

type mockPublisher struct {
	reserved []domain.SlotReservedEvent
	released []domain.SlotReleasedEvent
	updated  []domain.ScheduleUpdatedEvent
}

func (m *mockPublisher) ScheduleUpdated(_ context.Context, e domain.ScheduleUpdatedEvent) error {
	m.updated = append(m.updated, e)
	return nil
}

func (m *mockPublisher) SlotReserved(_ context.Context, e domain.SlotReservedEvent) error {
	m.reserved = append(m.reserved, e)
	return nil
}

func (m *mockPublisher) SlotReleased(_ context.Context, e domain.SlotReleasedEvent) error {
	m.released = append(m.released, e)
	return nil
}

type failingPublisher struct{}

func (p *failingPublisher) ScheduleUpdated(_ context.Context, _ domain.ScheduleUpdatedEvent) error {
	return fmt.Errorf("publish failed")
}

func (p *failingPublisher) SlotReserved(_ context.Context, _ domain.SlotReservedEvent) error {
	return fmt.Errorf("publish failed")
}

func (p *failingPublisher) SlotReleased(_ context.Context, _ domain.SlotReleasedEvent) error {
	return fmt.Errorf("publish failed")
}

// --- Tests ---

func TestTracingPublisher_SlotReserved_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockPublisher{}
	pub := adapter.NewTracingPublisher(inner)

	slotID := uuid.New()
	tutorID := uuid.New()
	err := pub.SlotReserved(context.Background(), domain.SlotReservedEvent{
		SlotID:     slotID,
		TutorID:    tutorID,
		ReservedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "EventPublisher.SlotReserved" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "EventPublisher.SlotReserved")
	}

	assertAttribute(t, spans[0], "event.topic", domain.TopicSlotReserved)
	assertAttribute(t, spans[0], "slot.id", slotID.String())
	assertAttribute(t, spans[0], "slot.tutor_id", tutorID.String())

	if len(inner.reserved) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.reserved))
	}
}

func TestTracingPublisher_ScheduleUpdated_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockPublisher{}
	pub := adapter.NewTracingPublisher(inner)

	err := pub.ScheduleUpdated(context.Background(), domain.ScheduleUpdatedEvent{
		TutorID:   uuid.New(),
		SlotID:    uuid.New(),
		StartTime: time.Now().UTC(),
		EndTime:   time.Now().UTC().Add(time.Hour),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	assertAttribute(t, spans[0], "event.topic", domain.TopicScheduleUpdated)

	if len(inner.updated) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.updated))
	}
}

func TestTracingPublisher_SlotReleased_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	pub := adapter.NewTracingPublisher(&failingPublisher{})

	err := pub.SlotReleased(context.Background(), domain.SlotReleasedEvent{
		SlotID:     uuid.New(),
		TutorID:    uuid.New(),
		ReleasedAt: time.Now().UTC(),
	})
	if err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}
