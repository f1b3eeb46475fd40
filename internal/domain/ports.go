package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SlotRepository defines the persistence contract for schedule slots.
type SlotRepository interface {
	Create(ctx context.Context, slot ScheduleSlot) error
	GetByID(ctx context.Context, id uuid.UUID) (ScheduleSlot, error)
	ListByTutor(ctx context.Context, tutorID uuid.UUID, filter SlotFilter) ([]ScheduleSlot, error)

	// UpdateStatusFrom persists a status transition conditionally: the
	// write only applies while the stored status still equals from.
	// Returns ErrStaleSlot when another writer got there first, or
	// ErrSlotNotFound when the slot no longer exists. This guard is what
	// keeps two racing reservations from both committing.
	UpdateStatusFrom(ctx context.Context, slot ScheduleSlot, from Status) error
}

// SlotFilter holds optional criteria for listing a tutor's slots.
type SlotFilter struct {
	AvailableOnly bool
	From          time.Time // zero means unbounded
	Until         time.Time // zero means unbounded
}

// TutorRepository reads tutor profiles; writes belong to the profile service.
type TutorRepository interface {
	GetTutor(ctx context.Context, id uuid.UUID) (Tutor, error)
}

// EligibilityChecks are the read-only queries behind slot validation.
// Each check is independent so the pipeline can short-circuit in a fixed
// order and report the first failure precisely.
type EligibilityChecks interface {
	TutorExists(ctx context.Context, tutorID uuid.UUID) (bool, error)
	TutorIsActive(ctx context.Context, tutorID uuid.UUID) (bool, error)
	SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error)
	TutorTeachesSubject(ctx context.Context, tutorID, subjectID uuid.UUID) (bool, error)
	SlotIsAvailable(ctx context.Context, slotID uuid.UUID) (bool, error)
	SlotBelongsToTutor(ctx context.Context, slotID, tutorID uuid.UUID) (bool, error)
	LessonPrice(ctx context.Context, tutorID, subjectID uuid.UUID) (decimal.Decimal, error)
}

// UnitOfWork runs fn inside a single atomic transaction. If fn returns an
// error or ctx is cancelled the transaction is rolled back and no write
// survives; otherwise it commits before Do returns.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher defines the contract for emitting domain events. Events
// are published strictly after the unit of work commits; a publish failure
// does not undo the committed state (the event is lost, delivery is
// at-least-once only from successful publish onward).
type EventPublisher interface {
	ScheduleUpdated(ctx context.Context, event ScheduleUpdatedEvent) error
	SlotReserved(ctx context.Context, event SlotReservedEvent) error
	SlotReleased(ctx context.Context, event SlotReleasedEvent) error
}

// TransitionValidator checks whether an event is allowed from the current
// status and resolves the destination status.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}
