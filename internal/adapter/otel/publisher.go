package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

// TracingPublisher wraps a domain.EventPublisher with OpenTelemetry tracing.
type TracingPublisher struct {
	next   domain.EventPublisher
	tracer trace.Tracer
}

// Compile-time check: TracingPublisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*TracingPublisher)(nil)

// NewTracingPublisher creates a tracing decorator around the given publisher.
func NewTracingPublisher(next domain.EventPublisher) *TracingPublisher {
	return &TracingPublisher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *TracingPublisher) ScheduleUpdated(ctx context.Context, event domain.ScheduleUpdatedEvent) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.ScheduleUpdated",
		trace.WithAttributes(
			attribute.String("event.topic", domain.TopicScheduleUpdated),
			attribute.String("slot.id", event.SlotID.String()),
			attribute.String("slot.tutor_id", event.TutorID.String()),
		),
	)
	defer span.End()

	err := p.next.ScheduleUpdated(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *TracingPublisher) SlotReserved(ctx context.Context, event domain.SlotReservedEvent) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.SlotReserved",
		trace.WithAttributes(
			attribute.String("event.topic", domain.TopicSlotReserved),
			attribute.String("slot.id", event.SlotID.String()),
			attribute.String("slot.tutor_id", event.TutorID.String()),
		),
	)
	defer span.End()

	err := p.next.SlotReserved(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *TracingPublisher) SlotReleased(ctx context.Context, event domain.SlotReleasedEvent) error {
	ctx, span := p.tracer.Start(ctx, "EventPublisher.SlotReleased",
		trace.WithAttributes(
			attribute.String("event.topic", domain.TopicSlotReleased),
			attribute.String("slot.id", event.SlotID.String()),
			attribute.String("slot.tutor_id", event.TutorID.String()),
		),
	)
	defer span.End()

	err := p.next.SlotReleased(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
