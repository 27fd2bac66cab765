package api

import (
	"encoding/json"
	"event-lab/domain"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeBody rejects unknown body keys: for updates only status and
// internalNotes may appear, and any stray field is a validation
// failure, not a core concern.
func decodeBody(r *http.Request, into any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(into)
}

type CreateEventRequest struct {
	Title         string    `json:"title" validate:"required,max=200"`
	Location      string    `json:"location" validate:"required,max=500"`
	StartAt       time.Time `json:"startAt" validate:"required"`
	EndAt         time.Time `json:"endAt" validate:"required"`
	Status        *string   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED"`
	InternalNotes *string   `json:"internalNotes"`
}

// UpdateEventRequest is the whole mutable surface of an event over
// HTTP. Any other key in the body is rejected during decoding, before
// the core runs.
type UpdateEventRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED CANCELLED"`
	InternalNotes *string `json:"internalNotes"`
}

// ValidateCreate applies the schema rules plus the refinements the tag
// language cannot express: the event must start in the future and end
// after it starts.
func ValidateCreate(req CreateEventRequest, now time.Time) []ErrorDetail {
	details := validationDetails(validate.Struct(req))
	if !req.StartAt.IsZero() && !req.StartAt.After(now) {
		details = append(details, ErrorDetail{Field: "startAt", Message: "Event cannot start in the past"})
	}
	if !req.EndAt.IsZero() && !req.StartAt.IsZero() && !req.EndAt.After(req.StartAt) {
		details = append(details, ErrorDetail{Field: "endAt", Message: "Event must end after it starts"})
	}
	return details
}

func ValidateUpdate(req UpdateEventRequest) []ErrorDetail {
	return validationDetails(validate.Struct(req))
}

func validationDetails(err error) []ErrorDetail {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ErrorDetail{{Field: "body", Message: err.Error()}}
	}
	var details []ErrorDetail
	for _, fe := range errs {
		details = append(details, ErrorDetail{
			Field:   fieldName(fe),
			Message: "failed validation: " + fe.Tag(),
		})
	}
	return details
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		return "title"
	case "Location":
		return "location"
	case "StartAt":
		return "startAt"
	case "EndAt":
		return "endAt"
	case "Status":
		return "status"
	case "InternalNotes":
		return "internalNotes"
	}
	return fe.Field()
}

func (r CreateEventRequest) Command(actor string) domain.CreateEventCommand {
	cmd := domain.CreateEventCommand{
		Title:         r.Title,
		Location:      r.Location,
		StartAt:       r.StartAt,
		EndAt:         r.EndAt,
		InternalNotes: r.InternalNotes,
		CreatedBy:     actor,
	}
	if r.Status != nil {
		status := domain.EventStatus(*r.Status)
		cmd.Status = &status
	}
	return cmd
}
