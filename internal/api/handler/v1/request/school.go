package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateSchoolRequest struct {
	Name string `json:"name"`
}

func (req *CreateSchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}

type UpdateSchoolRequest struct {
	Name string `json:"name"`
}

func (req *UpdateSchoolRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
	)
}
