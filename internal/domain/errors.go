package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrTutorNotFound   = errors.New("tutor not found")
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrStaleSlot indicates the stored slot status no longer matches the
	// status the caller loaded; the operation lost a race and must be
	// retried from a fresh read.
	ErrStaleSlot = errors.New("slot status changed concurrently")

	ErrNonPositivePrice   = errors.New("price per hour must be greater than zero")
	ErrNegativeExperience = errors.New("experience years cannot be negative")
)

// SlotNotAvailableError is returned when a slot cannot be reserved because
// it is not in the available state.
type SlotNotAvailableError struct {
	SlotID uuid.UUID
}

func (e *SlotNotAvailableError) Error() string {
	return fmt.Sprintf("slot %s is not available", e.SlotID)
}

// TutorNotActiveError is returned when an operation requires an active tutor.
type TutorNotActiveError struct {
	TutorID uuid.UUID
}

func (e *TutorNotActiveError) Error() string {
	return fmt.Sprintf("tutor %s is not active", e.TutorID)
}

// TutorDoesNotTeachSubjectError is returned when no teaching-subject entry
// links the tutor to the subject.
type TutorDoesNotTeachSubjectError struct {
	TutorID   uuid.UUID
	SubjectID uuid.UUID
}

func (e *TutorDoesNotTeachSubjectError) Error() string {
	return fmt.Sprintf("tutor %s does not teach subject %s", e.TutorID, e.SubjectID)
}

// SlotTimeConflictError is returned when a tutor already has a slot at the
// same start time.
type SlotTimeConflictError struct {
	TutorID   uuid.UUID
	StartTime time.Time
}

func (e *SlotTimeConflictError) Error() string {
	return fmt.Sprintf("tutor %s already has a slot starting at %s", e.TutorID, e.StartTime.Format(time.RFC3339))
}

// TransitionError is returned when a state transition is not allowed.
type TransitionError struct {
	Event   Event
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not valid from state %q", e.Event, e.Current)
}

// TimeRangeError is returned when a slot window does not end after it starts.
type TimeRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("end time %s must be after start time %s",
		e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
}
