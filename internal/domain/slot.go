package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a schedule slot.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusReserved    Status = "reserved"
	StatusBooked      Status = "booked"
	StatusUnavailable Status = "unavailable"
)

// Event represents an action that triggers a slot state transition.
type Event string

const (
	EventReserve         Event = "reserve"
	EventBook            Event = "book"
	EventRelease         Event = "release"
	EventMarkUnavailable Event = "mark_unavailable"
	EventMarkAvailable   Event = "mark_available"
)

// Transition defines a valid state change: an event moves a slot from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid state changes in the slot lifecycle.
// This is domain knowledge consumed by the FSM adapter. Self-loops
// (mark_available on an available slot) are listed so the toggle
// operations stay no-ops instead of failing.
var Transitions = []Transition{
	{Event: EventReserve, Src: StatusAvailable, Dst: StatusReserved},
	{Event: EventBook, Src: StatusReserved, Dst: StatusBooked},
	{Event: EventRelease, Src: StatusReserved, Dst: StatusAvailable},
	{Event: EventRelease, Src: StatusBooked, Dst: StatusAvailable},
	{Event: EventRelease, Src: StatusUnavailable, Dst: StatusAvailable},
	{Event: EventMarkUnavailable, Src: StatusAvailable, Dst: StatusUnavailable},
	{Event: EventMarkUnavailable, Src: StatusUnavailable, Dst: StatusUnavailable},
	{Event: EventMarkAvailable, Src: StatusUnavailable, Dst: StatusAvailable},
	{Event: EventMarkAvailable, Src: StatusAvailable, Dst: StatusAvailable},
}

// ScheduleSlot is a bookable time window offered by a tutor. Transition
// methods use value receivers and return the updated slot, so a failed
// transition never leaves a half-mutated entity behind.
type ScheduleSlot struct {
	ID        uuid.UUID
	TutorID   uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    Status
	BookingID uuid.NullUUID
	CreatedAt time.Time
	UpdatedAt time.Time // zero until the first transition
}

// NewScheduleSlot creates an available slot for the given window.
func NewScheduleSlot(id, tutorID uuid.UUID, startTime, endTime time.Time) (ScheduleSlot, error) {
	if !endTime.After(startTime) {
		return ScheduleSlot{}, &TimeRangeError{Start: startTime, End: endTime}
	}
	return ScheduleSlot{
		ID:        id,
		TutorID:   tutorID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    StatusAvailable,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Reserve holds the slot for the given booking.
func (s ScheduleSlot) Reserve(bookingID uuid.UUID) (ScheduleSlot, error) {
	if s.Status != StatusAvailable {
		return ScheduleSlot{}, &TransitionError{Event: EventReserve, Current: s.Status}
	}
	s.Status = StatusReserved
	s.BookingID = uuid.NullUUID{UUID: bookingID, Valid: true}
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// Book confirms a reserved slot.
func (s ScheduleSlot) Book() (ScheduleSlot, error) {
	if s.Status != StatusReserved {
		return ScheduleSlot{}, &TransitionError{Event: EventBook, Current: s.Status}
	}
	s.Status = StatusBooked
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// Release returns the slot to the available pool and clears its booking.
// Releasing an already available slot is rejected: a no-op here would hide
// a caller bug.
func (s ScheduleSlot) Release() (ScheduleSlot, error) {
	if s.Status == StatusAvailable {
		return ScheduleSlot{}, &TransitionError{Event: EventRelease, Current: s.Status}
	}
	s.Status = StatusAvailable
	s.BookingID = uuid.NullUUID{}
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// MarkUnavailable withdraws the slot from booking.
func (s ScheduleSlot) MarkUnavailable() (ScheduleSlot, error) {
	if s.Status == StatusReserved || s.Status == StatusBooked {
		return ScheduleSlot{}, &TransitionError{Event: EventMarkUnavailable, Current: s.Status}
	}
	s.Status = StatusUnavailable
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// MarkAvailable re-opens a withdrawn slot.
func (s ScheduleSlot) MarkAvailable() (ScheduleSlot, error) {
	if s.Status == StatusReserved || s.Status == StatusBooked {
		return ScheduleSlot{}, &TransitionError{Event: EventMarkAvailable, Current: s.Status}
	}
	s.Status = StatusAvailable
	s.UpdatedAt = time.Now().UTC()
	return s, nil
}

// IsAvailable reports whether the slot can be reserved.
func (s ScheduleSlot) IsAvailable() bool { return s.Status == StatusAvailable }

// IsReserved reports whether the slot is held by a booking awaiting confirmation.
func (s ScheduleSlot) IsReserved() bool { return s.Status == StatusReserved }

// IsBooked reports whether the slot's booking has been confirmed.
func (s ScheduleSlot) IsBooked() bool { return s.Status == StatusBooked }
