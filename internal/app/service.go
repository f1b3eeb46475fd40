package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

// ScheduleService orchestrates the slot lifecycle: create, reserve,
// release and availability toggling. Every mutation runs inside the unit
// of work; the matching event is published only after the commit succeeds.
type ScheduleService struct {
	slots     domain.SlotRepository
	tutors    domain.TutorRepository
	uow       domain.UnitOfWork
	publisher domain.EventPublisher
	validator domain.TransitionValidator
}

// NewScheduleService creates a service with the given adapters.
func NewScheduleService(
	slots domain.SlotRepository,
	tutors domain.TutorRepository,
	uow domain.UnitOfWork,
	publisher domain.EventPublisher,
	validator domain.TransitionValidator,
) *ScheduleService {
	return &ScheduleService{
		slots:     slots,
		tutors:    tutors,
		uow:       uow,
		publisher: publisher,
		validator: validator,
	}
}

// CreateSlot opens a new available slot for an active tutor.
func (s *ScheduleService) CreateSlot(ctx context.Context, tutorID uuid.UUID, startTime, endTime time.Time) (domain.ScheduleSlot, error) {
	tutor, err := s.tutors.GetTutor(ctx, tutorID)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}
	if !tutor.IsActive() {
		return domain.ScheduleSlot{}, &domain.TutorNotActiveError{TutorID: tutorID}
	}

	slot, err := domain.NewScheduleSlot(newID(), tutorID, startTime, endTime)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.slots.Create(ctx, slot)
	})
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("creating slot: %w", err)
	}

	event := domain.ScheduleUpdatedEvent{
		TutorID:   tutorID,
		SlotID:    slot.ID,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		UpdatedAt: slot.CreatedAt,
	}
	if err := s.publisher.ScheduleUpdated(ctx, event); err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("publishing schedule update: %w", err)
	}

	return slot, nil
}

// ReserveSlot holds an available slot for the given booking. The persist
// step is conditional on the status still being available, so of any
// concurrent reservations on the same slot at most one commits; the
// losers observe SlotNotAvailableError.
func (s *ScheduleService) ReserveSlot(ctx context.Context, slotID, bookingID uuid.UUID) (domain.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	if _, err := s.validator.Apply(ctx, slot.Status, domain.EventReserve); err != nil {
		var trErr *domain.TransitionError
		if errors.As(err, &trErr) {
			return domain.ScheduleSlot{}, &domain.SlotNotAvailableError{SlotID: slotID}
		}
		return domain.ScheduleSlot{}, err
	}

	reserved, err := slot.Reserve(bookingID)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.slots.UpdateStatusFrom(ctx, reserved, domain.StatusAvailable)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStaleSlot) {
			return domain.ScheduleSlot{}, &domain.SlotNotAvailableError{SlotID: slotID}
		}
		return domain.ScheduleSlot{}, fmt.Errorf("reserving slot: %w", err)
	}

	event := domain.SlotReservedEvent{
		SlotID:     slotID,
		TutorID:    reserved.TutorID,
		ReservedAt: reserved.UpdatedAt,
	}
	if err := s.publisher.SlotReserved(ctx, event); err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("publishing slot reservation: %w", err)
	}

	return reserved, nil
}

// ReleaseSlot returns a reserved or booked slot to the available pool.
func (s *ScheduleService) ReleaseSlot(ctx context.Context, slotID uuid.UUID) (domain.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	if _, err := s.validator.Apply(ctx, slot.Status, domain.EventRelease); err != nil {
		return domain.ScheduleSlot{}, err
	}

	released, err := slot.Release()
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.slots.UpdateStatusFrom(ctx, released, slot.Status)
	})
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("releasing slot: %w", err)
	}

	event := domain.SlotReleasedEvent{
		SlotID:     slotID,
		TutorID:    released.TutorID,
		ReleasedAt: released.UpdatedAt,
	}
	if err := s.publisher.SlotReleased(ctx, event); err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("publishing slot release: %w", err)
	}

	return released, nil
}

// SetSlotAvailability toggles a slot between available and unavailable.
// Reserved and booked slots cannot be toggled.
func (s *ScheduleService) SetSlotAvailability(ctx context.Context, slotID uuid.UUID, available bool) (domain.ScheduleSlot, error) {
	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	event := domain.EventMarkUnavailable
	if available {
		event = domain.EventMarkAvailable
	}
	if _, err := s.validator.Apply(ctx, slot.Status, event); err != nil {
		return domain.ScheduleSlot{}, err
	}

	var updated domain.ScheduleSlot
	if available {
		updated, err = slot.MarkAvailable()
	} else {
		updated, err = slot.MarkUnavailable()
	}
	if err != nil {
		return domain.ScheduleSlot{}, err
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		return s.slots.UpdateStatusFrom(ctx, updated, slot.Status)
	})
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("updating slot availability: %w", err)
	}

	announce := domain.ScheduleUpdatedEvent{
		TutorID:   updated.TutorID,
		SlotID:    updated.ID,
		StartTime: updated.StartTime,
		EndTime:   updated.EndTime,
		UpdatedAt: updated.UpdatedAt,
	}
	if err := s.publisher.ScheduleUpdated(ctx, announce); err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("publishing schedule update: %w", err)
	}

	return updated, nil
}

// GetSlot returns a slot by its unique identifier.
func (s *ScheduleService) GetSlot(ctx context.Context, slotID uuid.UUID) (domain.ScheduleSlot, error) {
	return s.slots.GetByID(ctx, slotID)
}

// ListTutorSlots returns a tutor's slots matching the given filter,
// ordered by start time.
func (s *ScheduleService) ListTutorSlots(ctx context.Context, tutorID uuid.UUID, filter domain.SlotFilter) ([]domain.ScheduleSlot, error) {
	return s.slots.ListByTutor(ctx, tutorID, filter)
}
