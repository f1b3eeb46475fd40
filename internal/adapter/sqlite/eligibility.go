package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

// Eligibility queries back the validation pipeline. They are read-only
// EXISTS-style checks kept separate from the repositories so each check
// stays a single cheap query.

// TutorExists reports whether a non-deleted tutor row exists.
func (s *Store) TutorExists(ctx context.Context, tutorID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM tutors WHERE id = ? AND status != ?`,
		tutorID.String(), tutorStatusCodes[domain.TutorStatusDeleted],
	)
}

// TutorIsActive reports whether the tutor is in the active status.
func (s *Store) TutorIsActive(ctx context.Context, tutorID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM tutors WHERE id = ? AND status = ?`,
		tutorID.String(), tutorStatusCodes[domain.TutorStatusActive],
	)
}

// SubjectExists reports whether the subject row exists.
func (s *Store) SubjectExists(ctx context.Context, subjectID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM subjects WHERE id = ?`,
		subjectID.String(),
	)
}

// TutorTeachesSubject reports whether a teaching-subject row links the
// tutor (not deleted) to the subject.
func (s *Store) TutorTeachesSubject(ctx context.Context, tutorID, subjectID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM teaching_subjects ts
		 INNER JOIN tutors t ON ts.tutor_id = t.id
		 WHERE ts.tutor_id = ? AND ts.subject_id = ? AND t.status != ?`,
		tutorID.String(), subjectID.String(), tutorStatusCodes[domain.TutorStatusDeleted],
	)
}

// SlotIsAvailable reports whether the slot is available and owned by an
// active tutor.
func (s *Store) SlotIsAvailable(ctx context.Context, slotID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM schedule_slots ss
		 INNER JOIN tutors t ON ss.tutor_id = t.id
		 WHERE ss.id = ? AND ss.status = ? AND t.status = ?`,
		slotID.String(), slotStatusCodes[domain.StatusAvailable], tutorStatusCodes[domain.TutorStatusActive],
	)
}

// SlotBelongsToTutor reports whether the slot is owned by the tutor.
func (s *Store) SlotBelongsToTutor(ctx context.Context, slotID, tutorID uuid.UUID) (bool, error) {
	return s.exists(ctx,
		`SELECT 1 FROM schedule_slots WHERE id = ? AND tutor_id = ?`,
		slotID.String(), tutorID.String(),
	)
}

// LessonPrice returns the tutor's hourly price for the subject. The row
// is re-checked here: a missing entry fails with
// TutorDoesNotTeachSubjectError even if an earlier check passed.
func (s *Store) LessonPrice(ctx context.Context, tutorID, subjectID uuid.UUID) (decimal.Decimal, error) {
	var price string
	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT ts.price_per_hour FROM teaching_subjects ts
		 INNER JOIN tutors t ON ts.tutor_id = t.id
		 WHERE ts.tutor_id = ? AND ts.subject_id = ? AND t.status = ?`,
		tutorID.String(), subjectID.String(), tutorStatusCodes[domain.TutorStatusActive],
	).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, &domain.TutorDoesNotTeachSubjectError{TutorID: tutorID, SubjectID: subjectID}
		}
		return decimal.Zero, fmt.Errorf("querying lesson price: %w", err)
	}

	perHour, err := decimal.NewFromString(price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price: %w", err)
	}
	return perHour, nil
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.q(ctx).QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("running existence check: %w", err)
	}
	return true, nil
}
