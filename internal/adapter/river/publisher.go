package river

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// EventJobArgs carries the data needed to process a schedule event
// asynchronously. River serializes this as JSON into its job queue table.
// It includes a snapshot of the slot at the time the event was published,
// so the worker never needs to query the database.
type EventJobArgs struct {
	Topic      string    `json:"topic"`
	SlotID     string    `json:"slot_id"`
	TutorID    string    `json:"tutor_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (EventJobArgs) Kind() string { return "schedule.event" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// ScheduleUpdated enqueues a schedule-updated event job.
func (p *Publisher) ScheduleUpdated(ctx context.Context, event domain.ScheduleUpdatedEvent) error {
	return p.enqueue(ctx, EventJobArgs{
		Topic:      domain.TopicScheduleUpdated,
		SlotID:     event.SlotID.String(),
		TutorID:    event.TutorID.String(),
		StartTime:  event.StartTime,
		EndTime:    event.EndTime,
		OccurredAt: event.UpdatedAt,
	})
}

// SlotReserved enqueues a slot-reserved event job.
func (p *Publisher) SlotReserved(ctx context.Context, event domain.SlotReservedEvent) error {
	return p.enqueue(ctx, EventJobArgs{
		Topic:      domain.TopicSlotReserved,
		SlotID:     event.SlotID.String(),
		TutorID:    event.TutorID.String(),
		OccurredAt: event.ReservedAt,
	})
}

// SlotReleased enqueues a slot-released event job.
func (p *Publisher) SlotReleased(ctx context.Context, event domain.SlotReleasedEvent) error {
	return p.enqueue(ctx, EventJobArgs{
		Topic:      domain.TopicSlotReleased,
		SlotID:     event.SlotID.String(),
		TutorID:    event.TutorID.String(),
		OccurredAt: event.ReleasedAt,
	})
}

func (p *Publisher) enqueue(ctx context.Context, args EventJobArgs) error {
	if _, err := p.client.Insert(ctx, args, nil); err != nil {
		return fmt.Errorf("enqueuing %s job: %w", args.Topic, err)
	}
	return nil
}
