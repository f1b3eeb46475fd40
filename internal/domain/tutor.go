package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TutorStatus represents the lifecycle state of a tutor profile.
// Profile management lives in another service; this core only reads it.
type TutorStatus string

const (
	TutorStatusActive    TutorStatus = "active"
	TutorStatusInactive  TutorStatus = "inactive"
	TutorStatusSuspended TutorStatus = "suspended"
	TutorStatusDeleted   TutorStatus = "deleted"
)

// Tutor is the read model of a tutor profile: enough to check whether
// slots may be created for them and what their lessons cost.
type Tutor struct {
	ID               uuid.UUID
	FirstName        string
	LastName         string
	Email            string
	Status           TutorStatus
	TeachingSubjects []TeachingSubject
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsActive reports whether the tutor may offer new slots.
func (t Tutor) IsActive() bool { return t.Status == TutorStatusActive }

// FullName returns the tutor's display name.
func (t Tutor) FullName() string { return t.FirstName + " " + t.LastName }

// TeachingSubject returns the tutor's entry for the given subject, if any.
func (t Tutor) TeachingSubject(subjectID uuid.UUID) (TeachingSubject, bool) {
	for _, ts := range t.TeachingSubjects {
		if ts.SubjectID == subjectID {
			return ts, true
		}
	}
	return TeachingSubject{}, false
}

// TeachingSubject is a (tutor, subject) association carrying the hourly
// price and the tutor's experience in that subject.
type TeachingSubject struct {
	ID              uuid.UUID
	TutorID         uuid.UUID
	SubjectID       uuid.UUID
	PricePerHour    decimal.Decimal
	ExperienceYears int
	CreatedAt       time.Time
}

// NewTeachingSubject validates and builds a teaching-subject entry.
func NewTeachingSubject(id, tutorID, subjectID uuid.UUID, pricePerHour decimal.Decimal, experienceYears int) (TeachingSubject, error) {
	if !pricePerHour.IsPositive() {
		return TeachingSubject{}, ErrNonPositivePrice
	}
	if experienceYears < 0 {
		return TeachingSubject{}, ErrNegativeExperience
	}
	return TeachingSubject{
		ID:              id,
		TutorID:         tutorID,
		SubjectID:       subjectID,
		PricePerHour:    pricePerHour,
		ExperienceYears: experienceYears,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Subject is a teachable topic, referenced by slot validation for existence only.
type Subject struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
}
