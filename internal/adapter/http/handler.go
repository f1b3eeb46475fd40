package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/neomorfeo/tutoriq/internal/app"
	"github.com/neomorfeo/tutoriq/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

// SlotResponse is the API representation of a schedule slot.
type SlotResponse struct {
	ID        string  `json:"id" doc:"Unique identifier"`
	TutorID   string  `json:"tutor_id" doc:"Owning tutor"`
	StartTime string  `json:"start_time" doc:"Window start (ISO 8601, UTC)"`
	EndTime   string  `json:"end_time" doc:"Window end (ISO 8601, UTC)"`
	Status    string  `json:"status" doc:"Lifecycle state"`
	BookingID *string `json:"booking_id,omitempty" doc:"Holding booking, if reserved or booked"`
	CreatedAt string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string  `json:"updated_at,omitempty" doc:"Last transition timestamp (ISO 8601)"`
}

func toSlotResponse(s domain.ScheduleSlot) SlotResponse {
	resp := SlotResponse{
		ID:        s.ID.String(),
		TutorID:   s.TutorID.String(),
		StartTime: s.StartTime.UTC().Format(timeFormat),
		EndTime:   s.EndTime.UTC().Format(timeFormat),
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.UTC().Format(timeFormat),
	}
	if s.BookingID.Valid {
		id := s.BookingID.UUID.String()
		resp.BookingID = &id
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = s.UpdatedAt.UTC().Format(timeFormat)
	}
	return resp
}

// --- Create Slot ---

type CreateSlotInput struct {
	Body struct {
		TutorID   string    `json:"tutor_id" format:"uuid" doc:"Owning tutor"`
		StartTime time.Time `json:"start_time" doc:"Window start"`
		EndTime   time.Time `json:"end_time" doc:"Window end, must be after start"`
	}
}

type CreateSlotOutput struct {
	Body SlotResponse
}

// --- Get Slot ---

type GetSlotInput struct {
	ID string `path:"id" format:"uuid" doc:"Slot ID"`
}

type GetSlotOutput struct {
	Body SlotResponse
}

// --- Reserve Slot ---

type ReserveSlotInput struct {
	ID   string `path:"id" format:"uuid" doc:"Slot ID"`
	Body struct {
		BookingID string `json:"booking_id" format:"uuid" doc:"Booking requesting the hold"`
	}
}

type ReserveSlotOutput struct {
	Body SlotResponse
}

// --- Release Slot ---

type ReleaseSlotInput struct {
	ID string `path:"id" format:"uuid" doc:"Slot ID"`
}

type ReleaseSlotOutput struct {
	Body SlotResponse
}

// --- Set Availability ---

type SetAvailabilityInput struct {
	ID   string `path:"id" format:"uuid" doc:"Slot ID"`
	Body struct {
		Available bool `json:"available" doc:"true opens the slot, false withdraws it"`
	}
}

type SetAvailabilityOutput struct {
	Body SlotResponse
}

// --- Validate Slot ---

type ValidateSlotInput struct {
	ID   string `path:"id" format:"uuid" doc:"Slot ID"`
	Body struct {
		TutorID   string `json:"tutor_id" format:"uuid" doc:"Tutor offering the lesson"`
		SubjectID string `json:"subject_id" format:"uuid" doc:"Subject to be taught"`
	}
}

type ValidateSlotOutput struct {
	Body struct {
		IsValid      bool   `json:"is_valid" doc:"Whether the slot can be booked"`
		PricePerHour string `json:"price_per_hour" doc:"Hourly rate for the tutor-subject pair"`
	}
}

// --- List Tutor Slots ---

type ListTutorSlotsInput struct {
	TutorID   string    `path:"id" format:"uuid" doc:"Tutor ID"`
	Available bool      `query:"available" required:"false" doc:"Only available slots"`
	From      time.Time `query:"from" required:"false" doc:"Earliest start time"`
	Until     time.Time `query:"until" required:"false" doc:"Latest start time"`
}

type ListTutorSlotsOutput struct {
	Body []SlotResponse
}

// Register adds all schedule API routes to the Huma API.
func Register(api huma.API, schedule *app.ScheduleService, validation *app.ValidationService) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-slot",
		Method:        http.MethodPost,
		Path:          "/api/v1/slots",
		Summary:       "Create a new schedule slot",
		Tags:          []string{"Slots"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateSlotInput) (*CreateSlotOutput, error) {
		tutorID, err := uuid.Parse(input.Body.TutorID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid tutor id")
		}

		slot, err := schedule.CreateSlot(ctx, tutorID, input.Body.StartTime, input.Body.EndTime)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateSlotOutput{Body: toSlotResponse(slot)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-slot",
		Method:      http.MethodGet,
		Path:        "/api/v1/slots/{id}",
		Summary:     "Get a slot by ID",
		Tags:        []string{"Slots"},
	}, func(ctx context.Context, input *GetSlotInput) (*GetSlotOutput, error) {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid slot id")
		}

		slot, err := schedule.GetSlot(ctx, id)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetSlotOutput{Body: toSlotResponse(slot)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reserve-slot",
		Method:      http.MethodPost,
		Path:        "/api/v1/slots/{id}/reserve",
		Summary:     "Reserve an available slot for a booking",
		Tags:        []string{"Slots"},
	}, func(ctx context.Context, input *ReserveSlotInput) (*ReserveSlotOutput, error) {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid slot id")
		}
		bookingID, err := uuid.Parse(input.Body.BookingID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid booking id")
		}

		slot, err := schedule.ReserveSlot(ctx, id, bookingID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ReserveSlotOutput{Body: toSlotResponse(slot)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "release-slot",
		Method:      http.MethodPost,
		Path:        "/api/v1/slots/{id}/release",
		Summary:     "Return a slot to the available pool",
		Tags:        []string{"Slots"},
	}, func(ctx context.Context, input *ReleaseSlotInput) (*ReleaseSlotOutput, error) {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid slot id")
		}

		slot, err := schedule.ReleaseSlot(ctx, id)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ReleaseSlotOutput{Body: toSlotResponse(slot)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-slot-availability",
		Method:      http.MethodPut,
		Path:        "/api/v1/slots/{id}/availability",
		Summary:     "Toggle a slot between available and unavailable",
		Tags:        []string{"Slots"},
	}, func(ctx context.Context, input *SetAvailabilityInput) (*SetAvailabilityOutput, error) {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid slot id")
		}

		slot, err := schedule.SetSlotAvailability(ctx, id, input.Body.Available)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SetAvailabilityOutput{Body: toSlotResponse(slot)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "validate-slot",
		Method:      http.MethodPost,
		Path:        "/api/v1/slots/{id}/validate",
		Summary:     "Check whether a slot can be booked for a tutor-subject pair",
		Tags:        []string{"Slots"},
	}, func(ctx context.Context, input *ValidateSlotInput) (*ValidateSlotOutput, error) {
		id, err := uuid.Parse(input.ID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid slot id")
		}
		tutorID, err := uuid.Parse(input.Body.TutorID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid tutor id")
		}
		subjectID, err := uuid.Parse(input.Body.SubjectID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid subject id")
		}

		price, err := validation.ValidateSlot(ctx, id, tutorID, subjectID)
		if err != nil {
			return nil, toHumaError(err)
		}

		out := &ValidateSlotOutput{}
		out.Body.IsValid = true
		out.Body.PricePerHour = price.String()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tutor-slots",
		Method:      http.MethodGet,
		Path:        "/api/v1/tutors/{id}/slots",
		Summary:     "List a tutor's slots ordered by start time",
		Tags:        []string{"Tutors"},
	}, func(ctx context.Context, input *ListTutorSlotsInput) (*ListTutorSlotsOutput, error) {
		tutorID, err := uuid.Parse(input.TutorID)
		if err != nil {
			return nil, huma.Error400BadRequest("invalid tutor id")
		}

		filter := domain.SlotFilter{
			AvailableOnly: input.Available,
			From:          input.From,
			Until:         input.Until,
		}

		slots, err := schedule.ListTutorSlots(ctx, tutorID, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]SlotResponse, len(slots))
		for i, s := range slots {
			resp[i] = toSlotResponse(s)
		}
		return &ListTutorSlotsOutput{Body: resp}, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotNotFound):
		return huma.Error404NotFound("slot not found")
	case errors.Is(err, domain.ErrTutorNotFound):
		return huma.Error404NotFound("tutor not found")
	case errors.Is(err, domain.ErrSubjectNotFound):
		return huma.Error404NotFound("subject not found")
	}

	var conflictErr *domain.SlotTimeConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var rangeErr *domain.TimeRangeError
	if errors.As(err, &rangeErr) {
		return huma.Error400BadRequest(rangeErr.Error())
	}

	var notAvailErr *domain.SlotNotAvailableError
	if errors.As(err, &notAvailErr) {
		return huma.Error422UnprocessableEntity(notAvailErr.Error())
	}

	var inactiveErr *domain.TutorNotActiveError
	if errors.As(err, &inactiveErr) {
		return huma.Error422UnprocessableEntity(inactiveErr.Error())
	}

	var teachErr *domain.TutorDoesNotTeachSubjectError
	if errors.As(err, &teachErr) {
		return huma.Error422UnprocessableEntity(teachErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
