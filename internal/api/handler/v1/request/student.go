package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateStudentRequest struct {
	Name      string `json:"name"`
	Group     string `json:"group"`
	Course    int    `json:"course"`
	Specialty string `json:"specialty"`
	SchoolID  uint   `json:"school_id"`
}

func (req *CreateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Course, validation.Required, validation.Min(1), validation.Max(4)),
		validation.Field(&req.SchoolID, validation.Required),
	)
}

// UpdateStudentRequest has no qr_code field on purpose: the code is
// immutable after creation.
type UpdateStudentRequest struct {
	Name      string `json:"name"`
	Group     string `json:"group"`
	Course    int    `json:"course"`
	Specialty string `json:"specialty"`
}

func (req *UpdateStudentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Course, validation.Required, validation.Min(1), validation.Max(4)),
	)
}
