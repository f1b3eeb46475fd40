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

// GetTutor returns the tutor with the given id together with their
// teaching subjects.
func (s *Store) GetTutor(ctx context.Context, id uuid.UUID) (domain.Tutor, error) {
	var (
		tutorID, firstName, lastName, email string
		status                              int
		createdAt                           string
		updatedAt                           sql.NullString
	)

	err := s.q(ctx).QueryRowContext(ctx,
		`SELECT id, first_name, last_name, email, status, created_at, updated_at
		 FROM tutors WHERE id = ?`, id.String(),
	).Scan(&tutorID, &firstName, &lastName, &email, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Tutor{}, domain.ErrTutorNotFound
		}
		return domain.Tutor{}, fmt.Errorf("scanning tutor: %w", err)
	}

	parsedID, err := uuid.Parse(tutorID)
	if err != nil {
		return domain.Tutor{}, fmt.Errorf("parsing tutor id: %w", err)
	}

	tutor := domain.Tutor{
		ID:        parsedID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Status:    tutorStatusFromCode[status],
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseNullTime(updatedAt),
	}

	tutor.TeachingSubjects, err = s.teachingSubjects(ctx, parsedID)
	if err != nil {
		return domain.Tutor{}, err
	}

	return tutor, nil
}

func (s *Store) teachingSubjects(ctx context.Context, tutorID uuid.UUID) ([]domain.TeachingSubject, error) {
	rows, err := s.q(ctx).QueryContext(ctx,
		`SELECT id, tutor_id, subject_id, price_per_hour, experience_years, created_at
		 FROM teaching_subjects WHERE tutor_id = ?`, tutorID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing teaching subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.TeachingSubject
	for rows.Next() {
		var (
			id, owner, subject, price string
			years                     int
			createdAt                 string
		)
		if err := rows.Scan(&id, &owner, &subject, &price, &years, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning teaching subject: %w", err)
		}

		entryID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parsing teaching subject id: %w", err)
		}
		ownerID, err := uuid.Parse(owner)
		if err != nil {
			return nil, fmt.Errorf("parsing tutor id: %w", err)
		}
		subjectID, err := uuid.Parse(subject)
		if err != nil {
			return nil, fmt.Errorf("parsing subject id: %w", err)
		}
		perHour, err := decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parsing price: %w", err)
		}

		subjects = append(subjects, domain.TeachingSubject{
			ID:              entryID,
			TutorID:         ownerID,
			SubjectID:       subjectID,
			PricePerHour:    perHour,
			ExperienceYears: years,
			CreatedAt:       parseTime(createdAt),
		})
	}

	return subjects, rows.Err()
}

// CreateTutor inserts a tutor row. Profile management is owned by another
// service; this writer exists for fixtures and seeding.
func (s *Store) CreateTutor(ctx context.Context, tutor domain.Tutor) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO tutors (id, first_name, last_name, email, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tutor.ID.String(), tutor.FirstName, tutor.LastName, tutor.Email,
		tutorStatusCodes[tutor.Status], formatTime(tutor.CreatedAt), formatNullTime(tutor.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting tutor: %w", err)
	}
	return nil
}

// UpdateTutorStatus changes a tutor's lifecycle status.
func (s *Store) UpdateTutorStatus(ctx context.Context, tutorID uuid.UUID, status domain.TutorStatus) error {
	result, err := s.q(ctx).ExecContext(ctx,
		`UPDATE tutors SET status = ?, updated_at = ? WHERE id = ?`,
		tutorStatusCodes[status], formatTime(nowUTC()), tutorID.String(),
	)
	if err != nil {
		return fmt.Errorf("updating tutor status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTutorNotFound
	}
	return nil
}

// CreateSubject inserts a subject row.
func (s *Store) CreateSubject(ctx context.Context, subject domain.Subject) error {
	var description any
	if subject.Description != "" {
		description = subject.Description
	}
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO subjects (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		subject.ID.String(), subject.Name, description, formatTime(subject.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting subject: %w", err)
	}
	return nil
}

// CreateTeachingSubject links a tutor to a subject with a price.
func (s *Store) CreateTeachingSubject(ctx context.Context, ts domain.TeachingSubject) error {
	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO teaching_subjects (id, tutor_id, subject_id, price_per_hour, experience_years, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ts.ID.String(), ts.TutorID.String(), ts.SubjectID.String(),
		ts.PricePerHour.String(), ts.ExperienceYears, formatTime(ts.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting teaching subject: %w", err)
	}
	return nil
}
