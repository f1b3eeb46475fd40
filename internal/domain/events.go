package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event topics as consumed by downstream services. Delivery is
// at-least-once; consumers must tolerate duplicates.
const (
	TopicScheduleUpdated = "schedule-updated"
	TopicSlotReserved    = "slot-reserved"
	TopicSlotReleased    = "slot-released"
)

// ScheduleUpdatedEvent announces a change to a tutor's schedule.
type ScheduleUpdatedEvent struct {
	TutorID   uuid.UUID
	SlotID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	UpdatedAt time.Time
}

// SlotReservedEvent announces that a booking now holds a slot.
type SlotReservedEvent struct {
	SlotID     uuid.UUID
	TutorID    uuid.UUID
	ReservedAt time.Time
}

// SlotReleasedEvent announces that a slot returned to the available pool.
type SlotReleasedEvent struct {
	SlotID     uuid.UUID
	TutorID    uuid.UUID
	ReleasedAt time.Time
}
