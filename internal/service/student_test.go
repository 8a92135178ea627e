package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolqr/attendance-api/internal/domain"
	"github.com/schoolqr/attendance-api/internal/repository"
)

type fakeStudentRepo struct {
	nextID   uint
	students map[uint]domain.Student
}

func newFakeStudentRepo(seed ...domain.Student) *fakeStudentRepo {
	f := &fakeStudentRepo{
		nextID:   1,
		students: make(map[uint]domain.Student),
	}
	for _, student := range seed {
		f.students[student.ID] = student
		if student.ID >= f.nextID {
			f.nextID = student.ID + 1
		}
	}
	return f
}

func (f *fakeStudentRepo) Create(_ context.Context, student domain.Student) (domain.Student, error) {
	for _, existing := range f.students {
		if existing.QRCode == student.QRCode {
			return domain.Student{}, repository.ErrStudentQRCodeExists
		}
	}

	student.ID = f.nextID
	f.nextID++
	f.students[student.ID] = student

	return student, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id uint) (domain.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}
	return student, nil
}

func (f *fakeStudentRepo) FindByQRCode(_ context.Context, qrCode string) (domain.Student, error) {
	for _, student := range f.students {
		if student.QRCode == qrCode {
			return student, nil
		}
	}
	return domain.Student{}, repository.ErrStudentNotFound
}

func (f *fakeStudentRepo) FindAll(_ context.Context, scope domain.Scope) ([]domain.Student, error) {
	var out []domain.Student
	for _, student := range f.students {
		if scope.AllowsStudent(student.ID, student.SchoolID) {
			out = append(out, student)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student domain.Student) (domain.Student, error) {
	current, ok := f.students[student.ID]
	if !ok {
		return domain.Student{}, repository.ErrStudentNotFound
	}

	// The QR code and school never change through updates.
	student.QRCode = current.QRCode
	student.SchoolID = current.SchoolID
	f.students[student.ID] = student

	return student, nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.students[id]; !ok {
		return repository.ErrStudentNotFound
	}
	delete(f.students, id)
	return nil
}

func newStudentFixture() (*StudentService, *fakeStudentRepo) {
	repo := newFakeStudentRepo(
		domain.Student{ID: 101, Name: "Alice Martin", QRCode: "qr-alice", SchoolID: 1},
		domain.Student{ID: 201, Name: "Bob Chen", QRCode: "qr-bob", SchoolID: 2},
	)
	access := NewAccessService(&stubChildLinks{
		children: map[uint][]uint{
			40: {101},
		},
	})

	return NewStudentService(repo, access), repo
}

func schoolAdminAt(school uint) domain.Identity {
	return domain.Identity{UserID: 2, Role: domain.RoleSchoolAdmin, SchoolID: &school}
}

func TestStudentService_CreateStudent(t *testing.T) {
	t.Run("QR code is assigned server-side", func(t *testing.T) {
		svc, _ := newStudentFixture()

		created, err := svc.CreateStudent(context.Background(), schoolAdminAt(1), domain.Student{
			Name:     "Dora Ivanova",
			QRCode:   "client-supplied-code", // must be ignored
			SchoolID: 1,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, created.QRCode)
		assert.NotEqual(t, "client-supplied-code", created.QRCode)
	})

	t.Run("codes differ between students", func(t *testing.T) {
		svc, _ := newStudentFixture()

		a, err := svc.CreateStudent(context.Background(), schoolAdminAt(1), domain.Student{Name: "A", SchoolID: 1})
		require.NoError(t, err)
		b, err := svc.CreateStudent(context.Background(), schoolAdminAt(1), domain.Student{Name: "B", SchoolID: 1})
		require.NoError(t, err)

		assert.NotEqual(t, a.QRCode, b.QRCode)
	})

	t.Run("school admin cannot create outside the own school", func(t *testing.T) {
		svc, _ := newStudentFixture()

		_, err := svc.CreateStudent(context.Background(), schoolAdminAt(1), domain.Student{Name: "X", SchoolID: 2})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("teacher cannot create students", func(t *testing.T) {
		svc, _ := newStudentFixture()

		_, err := svc.CreateStudent(context.Background(), teacherAt(1), domain.Student{Name: "X", SchoolID: 1})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestStudentService_GetStudentByQRCode(t *testing.T) {
	t.Run("in-scope badge resolves", func(t *testing.T) {
		svc, _ := newStudentFixture()

		student, err := svc.GetStudentByQRCode(context.Background(), teacherAt(1), "qr-alice")
		require.NoError(t, err)
		assert.Equal(t, uint(101), student.ID)
	})

	t.Run("cross-school badge answers with a denial, not a not-found", func(t *testing.T) {
		svc, _ := newStudentFixture()

		_, err := svc.GetStudentByQRCode(context.Background(), teacherAt(1), "qr-bob")
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown badge is a not-found", func(t *testing.T) {
		svc, _ := newStudentFixture()

		_, err := svc.GetStudentByQRCode(context.Background(), teacherAt(1), "qr-nobody")
		assert.ErrorIs(t, err, ErrStudentNotFound)
	})

	t.Run("linked parent resolves the child's badge", func(t *testing.T) {
		svc, _ := newStudentFixture()

		student, err := svc.GetStudentByQRCode(context.Background(), domain.Identity{UserID: 40, Role: domain.RoleParent}, "qr-alice")
		require.NoError(t, err)
		assert.Equal(t, uint(101), student.ID)
	})
}

func TestStudentService_ListStudents(t *testing.T) {
	t.Run("school scope", func(t *testing.T) {
		svc, _ := newStudentFixture()

		students, err := svc.ListStudents(context.Background(), teacherAt(1))
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "Alice Martin", students[0].Name)
	})

	t.Run("parent sees linked children only", func(t *testing.T) {
		svc, _ := newStudentFixture()

		students, err := svc.ListStudents(context.Background(), domain.Identity{UserID: 40, Role: domain.RoleParent})
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, uint(101), students[0].ID)
	})

	t.Run("unlinked parent sees nothing", func(t *testing.T) {
		svc, _ := newStudentFixture()

		students, err := svc.ListStudents(context.Background(), domain.Identity{UserID: 41, Role: domain.RoleParent})
		require.NoError(t, err)
		assert.Empty(t, students)
	})
}

func TestStudentService_UpdateStudent(t *testing.T) {
	t.Run("rename keeps the QR code", func(t *testing.T) {
		svc, repo := newStudentFixture()

		updated, err := svc.UpdateStudent(context.Background(), schoolAdminAt(1), domain.Student{
			ID:   101,
			Name: "Alice Martin-Smith",
		})
		require.NoError(t, err)

		assert.Equal(t, "Alice Martin-Smith", updated.Name)
		assert.Equal(t, "qr-alice", updated.QRCode)
		assert.Equal(t, "qr-alice", repo.students[101].QRCode)
	})

	t.Run("cross-school update is denied", func(t *testing.T) {
		svc, _ := newStudentFixture()

		_, err := svc.UpdateStudent(context.Background(), schoolAdminAt(1), domain.Student{ID: 201, Name: "X"})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestStudentService_DeleteStudent(t *testing.T) {
	svc, repo := newStudentFixture()

	t.Run("teacher cannot delete", func(t *testing.T) {
		err := svc.DeleteStudent(context.Background(), teacherAt(1), 101)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("school admin deletes within scope", func(t *testing.T) {
		err := svc.DeleteStudent(context.Background(), schoolAdminAt(1), 101)
		require.NoError(t, err)
		_, ok := repo.students[101]
		assert.False(t, ok)
	})
}
