package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

type fakeStudents struct {
	byID map[uint]domain.Student
	byQR map[string]domain.Student
}

func (f *fakeStudents) FindByID(_ context.Context, id uint) (domain.Student, error) {
	student, ok := f.byID[id]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudents) FindByQRCode(_ context.Context, qrCode string) (domain.Student, error) {
	student, ok := f.byQR[qrCode]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

type fakeGate struct {
	active map[uint]domain.Event
}

func (f *fakeGate) ActiveEventForSchool(_ context.Context, schoolID uint) (domain.Event, error) {
	event, ok := f.active[schoolID]
	if !ok {
		return domain.Event{}, ErrNoActiveEvent
	}
	return event, nil
}

type recordKey struct {
	studentID uint
	eventName string
}

// fakeLedger mimics the composite unique index of the real table: a second
// insert for the same (student, event) pair fails.
type fakeLedger struct {
	nextID  uint
	records map[uint]domain.AttendanceRecord
	seen    map[recordKey]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		nextID:  1,
		records: make(map[uint]domain.AttendanceRecord),
		seen:    make(map[recordKey]bool),
	}
}

func (f *fakeLedger) Create(_ context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	key := recordKey{studentID: record.StudentID, eventName: record.EventName}
	if f.seen[key] {
		return domain.AttendanceRecord{}, repository.ErrDuplicateAttendance
	}

	record.ID = f.nextID
	f.nextID++
	f.seen[key] = true
	f.records[record.ID] = record

	return record, nil
}

func (f *fakeLedger) FindByID(_ context.Context, id uint) (domain.AttendanceRecord, error) {
	record, ok := f.records[id]
	if !ok {
		return domain.AttendanceRecord{}, repository.ErrAttendanceNotFound
	}
	return record, nil
}

func (f *fakeLedger) FindByEvent(_ context.Context, eventName string, _ domain.Scope) ([]domain.AttendanceRecord, error) {
	var out []domain.AttendanceRecord
	for _, record := range f.records {
		if record.EventName == eventName {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindByStudent(_ context.Context, studentID uint) ([]domain.AttendanceRecord, error) {
	var out []domain.AttendanceRecord
	for _, record := range f.records {
		if record.StudentID == studentID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeLedger) Delete(_ context.Context, id uint) error {
	record, ok := f.records[id]
	if !ok {
		return repository.ErrAttendanceNotFound
	}
	delete(f.records, id)
	delete(f.seen, recordKey{studentID: record.StudentID, eventName: record.EventName})
	return nil
}

func newScanFixture() (*AttendanceService, *fakeLedger) {
	students := &fakeStudents{
		byID: map[uint]domain.Student{
			101: {ID: 101, Name: "Alice Martin", QRCode: "qr-alice", SchoolID: 1},
			201: {ID: 201, Name: "Bob Chen", QRCode: "qr-bob", SchoolID: 2},
		},
		byQR: map[string]domain.Student{
			"qr-alice": {ID: 101, Name: "Alice Martin", QRCode: "qr-alice", SchoolID: 1},
			"qr-bob":   {ID: 201, Name: "Bob Chen", QRCode: "qr-bob", SchoolID: 2},
		},
	}
	gate := &fakeGate{
		active: map[uint]domain.Event{
			1: {ID: 1, Name: "Open Day", SchoolID: 1, IsActive: true},
		},
	}
	access := NewAccessService(&stubChildLinks{
		children: map[uint][]uint{
			40: {101},
		},
	})
	ledger := newFakeLedger()

	svc := NewAttendanceService(ledger, students, gate, access)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}

	return svc, ledger
}

func teacherAt(school uint) domain.Identity {
	return domain.Identity{UserID: 3, Role: domain.RoleTeacher, SchoolID: &school}
}

func TestAttendanceService_ResolveScan(t *testing.T) {
	t.Run("valid scan writes a record", func(t *testing.T) {
		svc, ledger := newScanFixture()

		outcome, err := svc.ResolveScan(context.Background(), "qr-alice", teacherAt(1))
		require.NoError(t, err)

		assert.True(t, outcome.Success)
		assert.Empty(t, outcome.Reason)
		assert.Equal(t, "Alice Martin", outcome.StudentName)
		assert.Equal(t, "Open Day", outcome.EventName)
		assert.Len(t, ledger.records, 1)
	})

	t.Run("unknown QR payload", func(t *testing.T) {
		svc, ledger := newScanFixture()

		outcome, err := svc.ResolveScan(context.Background(), "qr-nobody", teacherAt(1))
		require.NoError(t, err)

		assert.False(t, outcome.Success)
		assert.Equal(t, domain.ScanStudentNotFound, outcome.Reason)
		assert.Empty(t, ledger.records)
	})

	t.Run("parent cannot record scans even for own child", func(t *testing.T) {
		svc, ledger := newScanFixture()

		outcome, err := svc.ResolveScan(context.Background(), "qr-alice", domain.Identity{UserID: 40, Role: domain.RoleParent})
		require.NoError(t, err)

		assert.False(t, outcome.Success)
		assert.Equal(t, domain.ScanAccessDenied, outcome.Reason)
		assert.Empty(t, ledger.records)
	})

	t.Run("cross-school scan resolves the student then denies", func(t *testing.T) {
		svc, ledger := newScanFixture()

		// qr-bob exists globally but belongs to school 2.
		outcome, err := svc.ResolveScan(context.Background(), "qr-bob", teacherAt(1))
		require.NoError(t, err)

		assert.False(t, outcome.Success)
		assert.Equal(t, domain.ScanAccessDenied, outcome.Reason)
		assert.Empty(t, ledger.records)
	})

	t.Run("no active event in the student's school", func(t *testing.T) {
		svc, ledger := newScanFixture()

		outcome, err := svc.ResolveScan(context.Background(), "qr-bob", teacherAt(2))
		require.NoError(t, err)

		assert.False(t, outcome.Success)
		assert.Equal(t, domain.ScanNoActiveEvent, outcome.Reason)
		assert.Empty(t, ledger.records)
	})

	t.Run("second scan of the same student and event is a duplicate", func(t *testing.T) {
		svc, ledger := newScanFixture()

		first, err := svc.ResolveScan(context.Background(), "qr-alice", teacherAt(1))
		require.NoError(t, err)
		require.True(t, first.Success)

		second, err := svc.ResolveScan(context.Background(), "qr-alice", teacherAt(1))
		require.NoError(t, err)

		assert.False(t, second.Success)
		assert.Equal(t, domain.ScanDuplicateAttendance, second.Reason)
		assert.Len(t, ledger.records, 1)
	})

	t.Run("main admin scans against the student's school gate", func(t *testing.T) {
		svc, ledger := newScanFixture()

		// School 2 has no active event, so even an unrestricted scanner
		// gets no_active_event there.
		outcome, err := svc.ResolveScan(context.Background(), "qr-bob", domain.Identity{UserID: 1, Role: domain.RoleMainAdmin})
		require.NoError(t, err)
		assert.Equal(t, domain.ScanNoActiveEvent, outcome.Reason)

		outcome, err = svc.ResolveScan(context.Background(), "qr-alice", domain.Identity{UserID: 1, Role: domain.RoleMainAdmin})
		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.Len(t, ledger.records, 1)
	})

	t.Run("failure outcomes carry the scan timestamp", func(t *testing.T) {
		svc, _ := newScanFixture()

		outcome, err := svc.ResolveScan(context.Background(), "qr-nobody", teacherAt(1))
		require.NoError(t, err)

		assert.Equal(t, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), outcome.Timestamp)
	})
}

func TestAttendanceService_ListByStudent(t *testing.T) {
	svc, ledger := newScanFixture()

	_, err := svc.ResolveScan(context.Background(), "qr-alice", teacherAt(1))
	require.NoError(t, err)

	t.Run("linked parent sees the child's history", func(t *testing.T) {
		records, err := svc.ListByStudent(context.Background(), domain.Identity{UserID: 40, Role: domain.RoleParent}, 101)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("unlinked parent is denied", func(t *testing.T) {
		_, err := svc.ListByStudent(context.Background(), domain.Identity{UserID: 41, Role: domain.RoleParent}, 101)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("teacher of another school is denied", func(t *testing.T) {
		_, err := svc.ListByStudent(context.Background(), teacherAt(2), 101)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.ListByStudent(context.Background(), teacherAt(1), 999)
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	_ = ledger
}

func TestAttendanceService_DeleteRecord(t *testing.T) {
	schoolAdminAt := func(school uint) domain.Identity {
		return domain.Identity{UserID: 2, Role: domain.RoleSchoolAdmin, SchoolID: &school}
	}

	seedRecord := func(t *testing.T) (*AttendanceService, *fakeLedger, uint) {
		t.Helper()

		svc, ledger := newScanFixture()
		outcome, err := svc.ResolveScan(context.Background(), "qr-alice", teacherAt(1))
		require.NoError(t, err)
		require.True(t, outcome.Success)

		for id := range ledger.records {
			return svc, ledger, id
		}
		t.Fatal("no record written")
		return nil, nil, 0
	}

	t.Run("teacher cannot delete", func(t *testing.T) {
		svc, _, recordID := seedRecord(t)

		err := svc.DeleteRecord(context.Background(), teacherAt(1), recordID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("school admin of another school is denied", func(t *testing.T) {
		svc, _, recordID := seedRecord(t)

		err := svc.DeleteRecord(context.Background(), schoolAdminAt(2), recordID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("school admin of the record's school deletes", func(t *testing.T) {
		svc, ledger, recordID := seedRecord(t)

		err := svc.DeleteRecord(context.Background(), schoolAdminAt(1), recordID)
		require.NoError(t, err)
		assert.Empty(t, ledger.records)
	})

	t.Run("main admin deletes anywhere", func(t *testing.T) {
		svc, ledger, recordID := seedRecord(t)

		err := svc.DeleteRecord(context.Background(), domain.Identity{UserID: 1, Role: domain.RoleMainAdmin}, recordID)
		require.NoError(t, err)
		assert.Empty(t, ledger.records)
	})

	t.Run("record of a deleted student needs main admin", func(t *testing.T) {
		svc, ledger, recordID := seedRecord(t)

		// Simulate roster cleanup after the scan.
		students := svc.students.(*fakeStudents)
		delete(students.byID, 101)

		err := svc.DeleteRecord(context.Background(), schoolAdminAt(1), recordID)
		assert.ErrorIs(t, err, ErrAccessDenied)

		err = svc.DeleteRecord(context.Background(), domain.Identity{UserID: 1, Role: domain.RoleMainAdmin}, recordID)
		require.NoError(t, err)
		assert.Empty(t, ledger.records)
	})

	t.Run("missing record", func(t *testing.T) {
		svc, _, _ := seedRecord(t)

		err := svc.DeleteRecord(context.Background(), domain.Identity{UserID: 1, Role: domain.RoleMainAdmin}, 999)
		assert.ErrorIs(t, err, ErrAttendanceNotFound)
	})
}
