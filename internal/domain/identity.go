package domain

import "time"

// Identity is the decoded form of a bearer token. It is passed explicitly
// into every protected operation; nothing reads credentials from ambient
// state.
type Identity struct {
	UserID    uint      `json:"user_id"`
	Role      Role      `json:"role"`
	SchoolID  *uint     `json:"school_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (i Identity) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
