package otel

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

const tracerName = "github.com/neomorfeo/tutoriq/internal/adapter/otel"

// TracingSlotRepository wraps a domain.SlotRepository with OpenTelemetry
// tracing. Each method creates a span with semantic attributes and records
// errors.
type TracingSlotRepository struct {
	next   domain.SlotRepository
	tracer trace.Tracer
}

// Compile-time check: TracingSlotRepository implements domain.SlotRepository.
var _ domain.SlotRepository = (*TracingSlotRepository)(nil)

// NewTracingSlotRepository creates a tracing decorator around the given repository.
func NewTracingSlotRepository(next domain.SlotRepository) *TracingSlotRepository {
	return &TracingSlotRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingSlotRepository) Create(ctx context.Context, slot domain.ScheduleSlot) error {
	ctx, span := r.tracer.Start(ctx, "SlotRepository.Create",
		trace.WithAttributes(
			attribute.String("slot.id", slot.ID.String()),
			attribute.String("slot.tutor_id", slot.TutorID.String()),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, slot)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingSlotRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ScheduleSlot, error) {
	ctx, span := r.tracer.Start(ctx, "SlotRepository.GetByID",
		trace.WithAttributes(attribute.String("slot.id", id.String())),
	)
	defer span.End()

	slot, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return slot, err
}

func (r *TracingSlotRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID, filter domain.SlotFilter) ([]domain.ScheduleSlot, error) {
	ctx, span := r.tracer.Start(ctx, "SlotRepository.ListByTutor",
		trace.WithAttributes(
			attribute.String("slot.tutor_id", tutorID.String()),
			attribute.Bool("filter.available_only", filter.AvailableOnly),
		),
	)
	defer span.End()

	slots, err := r.next.ListByTutor(ctx, tutorID, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(slots)))
	}
	return slots, err
}

func (r *TracingSlotRepository) UpdateStatusFrom(ctx context.Context, slot domain.ScheduleSlot, from domain.Status) error {
	ctx, span := r.tracer.Start(ctx, "SlotRepository.UpdateStatusFrom",
		trace.WithAttributes(
			attribute.String("slot.id", slot.ID.String()),
			attribute.String("slot.status", string(slot.Status)),
			attribute.String("slot.status_from", string(from)),
		),
	)
	defer span.End()

	err := r.next.UpdateStatusFrom(ctx, slot, from)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
