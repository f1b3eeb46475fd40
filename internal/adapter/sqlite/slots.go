package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neomorfeo/tutoriq/internal/domain"
)

const slotColumns = "id, tutor_id, start_time, end_time, status, booking_id, created_at, updated_at"

// Create inserts a new slot. A second slot for the same tutor at the same
// start time violates the unique constraint and surfaces as
// SlotTimeConflictError.
func (s *Store) Create(ctx context.Context, slot domain.ScheduleSlot) error {
	var bookingID any
	if slot.BookingID.Valid {
		bookingID = slot.BookingID.UUID.String()
	}

	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO schedule_slots (id, tutor_id, start_time, end_time, status, booking_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		slot.ID.String(), slot.TutorID.String(),
		formatTime(slot.StartTime), formatTime(slot.EndTime),
		slotStatusCodes[slot.Status], bookingID,
		formatTime(slot.CreatedAt), formatNullTime(slot.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SlotTimeConflictError{TutorID: slot.TutorID, StartTime: slot.StartTime}
		}
		return fmt.Errorf("inserting slot: %w", err)
	}
	return nil
}

// GetByID returns the slot with the given id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (domain.ScheduleSlot, error) {
	return s.scanSlot(s.q(ctx).QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM schedule_slots WHERE id = ?`, id.String(),
	))
}

// ListByTutor returns a tutor's slots ordered by start time.
func (s *Store) ListByTutor(ctx context.Context, tutorID uuid.UUID, filter domain.SlotFilter) ([]domain.ScheduleSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM schedule_slots WHERE tutor_id = ?`
	args := []any{tutorID.String()}

	if filter.AvailableOnly {
		query += ` AND status = ?`
		args = append(args, slotStatusCodes[domain.StatusAvailable])
	}
	if !filter.From.IsZero() {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(filter.From))
	}
	if !filter.Until.IsZero() {
		query += ` AND end_time <= ?`
		args = append(args, formatTime(filter.Until))
	}

	query += ` ORDER BY start_time`

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.ScheduleSlot
	for rows.Next() {
		slot, err := s.scanSlotFromRows(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

// UpdateStatusFrom persists a status transition only while the stored
// status still equals from. Zero affected rows means either the slot is
// gone or another writer moved it first; the two cases are told apart so
// racing reservations fail with the right error.
func (s *Store) UpdateStatusFrom(ctx context.Context, slot domain.ScheduleSlot, from domain.Status) error {
	var bookingID any
	if slot.BookingID.Valid {
		bookingID = slot.BookingID.UUID.String()
	}

	result, err := s.q(ctx).ExecContext(ctx,
		`UPDATE schedule_slots SET status = ?, booking_id = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		slotStatusCodes[slot.Status], bookingID, formatNullTime(slot.UpdatedAt),
		slot.ID.String(), slotStatusCodes[from],
	)
	if err != nil {
		return fmt.Errorf("updating slot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		var one int
		err := s.q(ctx).QueryRowContext(ctx,
			`SELECT 1 FROM schedule_slots WHERE id = ?`, slot.ID.String(),
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrSlotNotFound
		}
		if err != nil {
			return fmt.Errorf("checking slot existence: %w", err)
		}
		return domain.ErrStaleSlot
	}

	return nil
}

// scanSlot scans a single row from QueryRow into a domain.ScheduleSlot.
func (s *Store) scanSlot(row *sql.Row) (domain.ScheduleSlot, error) {
	var (
		id, tutorID          string
		startTime, endTime   string
		status               int
		bookingID, updatedAt sql.NullString
		createdAt            string
	)

	err := row.Scan(&id, &tutorID, &startTime, &endTime, &status, &bookingID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ScheduleSlot{}, domain.ErrSlotNotFound
		}
		return domain.ScheduleSlot{}, fmt.Errorf("scanning slot: %w", err)
	}

	return s.buildSlot(id, tutorID, startTime, endTime, status, bookingID, createdAt, updatedAt)
}

// scanSlotFromRows scans a single row from Rows (used in ListByTutor).
func (s *Store) scanSlotFromRows(rows *sql.Rows) (domain.ScheduleSlot, error) {
	var (
		id, tutorID          string
		startTime, endTime   string
		status               int
		bookingID, updatedAt sql.NullString
		createdAt            string
	)

	err := rows.Scan(&id, &tutorID, &startTime, &endTime, &status, &bookingID, &createdAt, &updatedAt)
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("scanning slot row: %w", err)
	}

	return s.buildSlot(id, tutorID, startTime, endTime, status, bookingID, createdAt, updatedAt)
}

func (s *Store) buildSlot(id, tutorID, startTime, endTime string, status int, bookingID sql.NullString, createdAt string, updatedAt sql.NullString) (domain.ScheduleSlot, error) {
	slotID, err := uuid.Parse(id)
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("parsing slot id: %w", err)
	}
	ownerID, err := uuid.Parse(tutorID)
	if err != nil {
		return domain.ScheduleSlot{}, fmt.Errorf("parsing tutor id: %w", err)
	}

	slot := domain.ScheduleSlot{
		ID:        slotID,
		TutorID:   ownerID,
		StartTime: parseTime(startTime),
		EndTime:   parseTime(endTime),
		Status:    slotStatusFromCode[status],
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseNullTime(updatedAt),
	}

	if bookingID.Valid {
		parsed, err := uuid.Parse(bookingID.String)
		if err != nil {
			return domain.ScheduleSlot{}, fmt.Errorf("parsing booking id: %w", err)
		}
		slot.BookingID = uuid.NullUUID{UUID: parsed, Valid: true}
	}

	return slot, nil
}
