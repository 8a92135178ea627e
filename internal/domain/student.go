package domain

import "time"

type Student struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Group     string    `json:"group"`
	Course    int       `json:"course"` // year of study, 1 to 4
	Specialty string    `json:"specialty"`
	QRCode    string    `json:"qr_code"` // globally unique, immutable after creation
	SchoolID  uint      `json:"school_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
