package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type LinkChildRequest struct {
	StudentID uint `json:"student_id"`
}

func (req *LinkChildRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.StudentID, validation.Required),
	)
}
