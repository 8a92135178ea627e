package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// ScanRequest carries the raw QR payload. The payload is used verbatim as
// the student lookup key; no format is imposed here beyond non-emptiness.
type ScanRequest struct {
	QRPayload string `json:"qr_payload"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.QRPayload, validation.Required, validation.Length(1, 255)),
	)
}
