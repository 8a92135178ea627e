package domain

import "time"

// AttendanceRecord is one durable scan result. StudentName is snapshotted at
// write time and EventName is the literal event name, so a record keeps
// rendering correctly after the student is renamed or the event deleted.
// Records are never updated in place.
type AttendanceRecord struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name"`
	EventName   string    `json:"event_name"`
	Timestamp   time.Time `json:"timestamp"`
	ScannedBy   uint      `json:"scanned_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScanReason classifies the expected, user-facing ways a scan can end
// without a new record. The UI renders each one as a distinct state.
type ScanReason string

const (
	ScanStudentNotFound     ScanReason = "student_not_found"
	ScanAccessDenied        ScanReason = "access_denied"
	ScanNoActiveEvent       ScanReason = "no_active_event"
	ScanDuplicateAttendance ScanReason = "duplicate_attendance"
)

// ScanOutcome is the terminal result of one scan. Expected failures are
// outcomes, not errors; only persistence failures escape as errors.
type ScanOutcome struct {
	Success     bool       `json:"success"`
	Reason      ScanReason `json:"reason,omitempty"`
	StudentName string     `json:"student_name,omitempty"`
	EventName   string     `json:"event_name,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}
