package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

// ValidationService answers whether a (slot, tutor, subject) triple is
// bookable and at what hourly price. It is read-only and safe under
// unlimited concurrency; a booking workflow calls it before committing
// to a reservation.
type ValidationService struct {
	checks domain.EligibilityChecks
}

// NewValidationService creates the validation pipeline over the given checks.
func NewValidationService(checks domain.EligibilityChecks) *ValidationService {
	return &ValidationService{checks: checks}
}

// ValidateSlot runs the eligibility checks in a fixed order and
// short-circuits on the first failure. The order is part of the contract:
// callers branch on which error they get back.
func (s *ValidationService) ValidateSlot(ctx context.Context, slotID, tutorID, subjectID uuid.UUID) (decimal.Decimal, error) {
	ok, err := s.checks.TutorExists(ctx, tutorID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, domain.ErrTutorNotFound
	}

	ok, err = s.checks.TutorIsActive(ctx, tutorID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &domain.TutorNotActiveError{TutorID: tutorID}
	}

	ok, err = s.checks.SubjectExists(ctx, subjectID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, domain.ErrSubjectNotFound
	}

	ok, err = s.checks.TutorTeachesSubject(ctx, tutorID, subjectID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &domain.TutorDoesNotTeachSubjectError{TutorID: tutorID, SubjectID: subjectID}
	}

	ok, err = s.checks.SlotIsAvailable(ctx, slotID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &domain.SlotNotAvailableError{SlotID: slotID}
	}

	// A slot owned by another tutor is reported as not found rather than
	// as a distinct mismatch, so callers cannot probe slot ownership.
	ok, err = s.checks.SlotBelongsToTutor(ctx, slotID, tutorID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, domain.ErrSlotNotFound
	}

	// The price lookup re-checks the teaching-subject row and fails with
	// TutorDoesNotTeachSubjectError if it vanished since check four.
	return s.checks.LessonPrice(ctx, tutorID, subjectID)
}
