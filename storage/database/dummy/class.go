package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/class"
)

type classRepository struct {
	db          *classTable
	enrollments *enrollmentTable
	attendance  *attendanceTable
	clients     *clientTable
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *DB) *classRepository {
	return &classRepository{
		db:          db.class,
		enrollments: db.enrollment,
		attendance:  db.attendance,
		clients:     db.client,
	}
}

func (repo *classRepository) clientName(clientID string) string {
	repo.clients.RLock()
	defer repo.clients.RUnlock()
	if cl, ok := repo.clients.table[clientID]; ok {
		return cl.FullName()
	}
	return ""
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls.ID = uuid.New().String()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) QueryAllClasses(_ context.Context) ([]class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]class.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		classes = append(classes, *cls)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].StartDate.After(classes[j].StartDate) })
	return classes, nil
}

func (repo *classRepository) GetClassByID(_ context.Context, id string) (class.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) CreateEnrollment(_ context.Context, enr class.Enrollment) (class.Enrollment, error) {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()

	enr.ID = uuid.New().String()
	repo.enrollments.table[enr.ID] = &enr
	return enr, nil
}

func (repo *classRepository) GetEnrollmentByID(_ context.Context, id string) (class.Enrollment, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	if enr, ok := repo.enrollments.table[id]; ok {
		e := *enr
		e.ClientName = repo.clientName(e.ClientID)
		return e, nil
	}
	return class.Enrollment{}, class.ErrEnrollmentNotFound
}

func (repo *classRepository) GetActiveEnrollment(_ context.Context, clientID, classID string) (class.Enrollment, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	for _, enr := range repo.enrollments.table {
		if enr.ClientID == clientID && enr.ClassID == classID && enr.Status == class.EnrollmentActive {
			e := *enr
			e.ClientName = repo.clientName(e.ClientID)
			return e, nil
		}
	}
	return class.Enrollment{}, class.ErrEnrollmentNotFound
}

func (repo *classRepository) QueryEnrollmentsByClassID(_ context.Context, classID string) ([]class.Enrollment, error) {
	repo.enrollments.RLock()
	defer repo.enrollments.RUnlock()

	var enrollments []class.Enrollment
	for _, enr := range repo.enrollments.table {
		if enr.ClassID == classID {
			e := *enr
			e.ClientName = repo.clientName(e.ClientID)
			enrollments = append(enrollments, e)
		}
	}
	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].EnrollmentDate.After(enrollments[j].EnrollmentDate)
	})
	return enrollments, nil
}

func (repo *classRepository) UpdateEnrollment(_ context.Context, enr class.Enrollment) (class.Enrollment, error) {
	repo.enrollments.Lock()
	defer repo.enrollments.Unlock()

	orig, ok := repo.enrollments.table[enr.ID]
	if !ok {
		return class.Enrollment{}, class.ErrEnrollmentNotFound
	}
	orig.Status = enr.Status
	orig.TerminationDate = enr.TerminationDate
	orig.CompletionDate = enr.CompletionDate
	orig.UpdatedAt = enr.UpdatedAt
	return *orig, nil
}

func (repo *classRepository) CreateAttendance(_ context.Context, att class.Attendance) (class.Attendance, error) {
	repo.attendance.Lock()
	defer repo.attendance.Unlock()

	att.ID = uuid.New().String()
	repo.attendance.table[att.ID] = &att
	return att, nil
}

func (repo *classRepository) QueryAttendanceByEnrollmentID(_ context.Context, enrollmentID string) ([]class.Attendance, error) {
	repo.attendance.RLock()
	defer repo.attendance.RUnlock()

	var marks []class.Attendance
	for _, att := range repo.attendance.table {
		if att.EnrollmentID == enrollmentID {
			marks = append(marks, *att)
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].Date.After(marks[j].Date) })
	return marks, nil
}
