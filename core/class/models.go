package class

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core"
)

// Enrollment statuses
const (
	EnrollmentActive     = "Enrolled"
	EnrollmentTerminated = "Terminated"
	EnrollmentCompleted  = "Completed"
)

// Class is a scheduled course offering clients enroll into.
type Class struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Schedule  string    `json:"schedule"` // e.g. "Tuesdays 18:00"
	StartDate time.Time `json:"startDate"`
	EndDate   null.Time `json:"endDate,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// Enrollment ties a client to a class.
type Enrollment struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId"`
	ClassID         string    `json:"classId"`
	Status          string    `json:"status"`
	EnrollmentDate  time.Time `json:"enrollmentDate"`
	TerminationDate null.Time `json:"terminationDate,omitempty"`
	CompletionDate  null.Time `json:"completionDate,omitempty"`
	CreatedAt       time.Time `json:"createdAt"` // UTC
	UpdatedAt       time.Time `json:"updatedAt"` // UTC

	// joined for listings, never stored
	ClientName string `json:"clientName,omitempty"`
}

// Attendance is one presence mark for an enrollment on a class date.
type Attendance struct {
	ID           string    `json:"id"`
	EnrollmentID string    `json:"enrollmentId"`
	Date         time.Time `json:"date"`
	Present      bool      `json:"present"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"` // UTC

	// joined for listings, never stored
	ClientName string `json:"clientName,omitempty"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name      string    `json:"name" validate:"required"`
	Location  string    `json:"location"`
	Schedule  string    `json:"schedule"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   null.Time `json:"endDate"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Location = core.CleanString(nc.Location)
	nc.Schedule = core.CleanString(nc.Schedule)
	return core.Validate.Struct(nc)
}

// NewEnrollment contains information needed to enroll a client into a class.
type NewEnrollment struct {
	ClientID string `json:"clientId" validate:"required"`
	ClassID  string `json:"classId" validate:"required"`
}

func (ne *NewEnrollment) Validate() error {
	ne.ClientID = core.CleanString(ne.ClientID)
	ne.ClassID = core.CleanString(ne.ClassID)
	return core.Validate.Struct(ne)
}

// NewAttendance contains information needed to mark attendance.
type NewAttendance struct {
	EnrollmentID string    `json:"enrollmentId" validate:"required"`
	Date         time.Time `json:"date" validate:"required"`
	Present      bool      `json:"present"`
	Note         string    `json:"note"`
}

func (na *NewAttendance) Validate() error {
	na.EnrollmentID = core.CleanString(na.EnrollmentID)
	na.Note = core.CleanString(na.Note)
	return core.Validate.Struct(na)
}
