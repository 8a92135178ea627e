package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"` // "02/01/2006"
	Description string `json:"description"`
	SchoolID    uint   `json:"school_id"`
	TeacherID   *uint  `json:"teacher_id,omitempty"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Date, validation.Required, validation.Date("02/01/2006")),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.SchoolID, validation.Required),
	)
}

type UpdateEventRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"` // "02/01/2006"
	Description string `json:"description"`
	TeacherID   *uint  `json:"teacher_id,omitempty"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Date, validation.Required, validation.Date("02/01/2006")),
		validation.Field(&req.Description, validation.Length(0, 500)),
	)
}

type SetEventActiveRequest struct {
	Active *bool `json:"active"`
}

func (req *SetEventActiveRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Active, validation.NotNil),
	)
}
