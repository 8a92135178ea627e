package domain

import "time"

type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
	SchoolID *uint  `json:"school_id,omitempty"`
	// Children lists linked student ids for parent accounts. Links are
	// created by an explicit operation, never by implicit matching.
	Children  []uint    `json:"children,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
