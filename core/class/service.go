package class

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/client"
)

var (
	// errors
	ErrNotFound           = errors.New("class not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrAlreadyEnrolled    = errors.New("client is already enrolled in this class")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryAllClasses(ctx context.Context) ([]Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)

		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollmentByID(ctx context.Context, id string) (Enrollment, error)
		// GetActiveEnrollment returns the client's active enrollment in the class, if any.
		GetActiveEnrollment(ctx context.Context, clientID, classID string) (Enrollment, error)
		QueryEnrollmentsByClassID(ctx context.Context, classID string) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)

		CreateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		QueryAttendanceByEnrollmentID(ctx context.Context, enrollmentID string) ([]Attendance, error)
	}

	Service struct {
		repo    Repository
		clients *client.Service
		audit   *audit.Service
		logger  core.Logger
	}
)

func NewService(repo Repository, clients *client.Service, auditSvc *audit.Service, logger core.Logger) *Service {
	return &Service{repo: repo, clients: clients, audit: auditSvc, logger: logger}
}

func (svc *Service) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		Name:      nc.Name,
		Location:  nc.Location,
		Schedule:  nc.Schedule,
		StartDate: nc.StartDate,
		EndDate:   nc.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *Service) QueryAllClasses(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryAllClasses(ctx)
}

func (svc *Service) GetClassByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

// Enroll places a client into a class. If the client's current follow-up is
// "Assign to Class", enrolling checks that task off, moving them to the
// admin review step.
func (svc *Service) Enroll(ctx context.Context, actor string, ne NewEnrollment) (Enrollment, error) {
	cl, err := svc.clients.GetByID(ctx, ne.ClientID)
	if err != nil {
		return Enrollment{}, err
	}
	cls, err := svc.repo.GetClassByID(ctx, ne.ClassID)
	if err != nil {
		return Enrollment{}, err
	}
	if _, err = svc.repo.GetActiveEnrollment(ctx, ne.ClientID, ne.ClassID); err == nil {
		return Enrollment{}, core.NewValidationError(ErrAlreadyEnrolled,
			core.FieldError{Field: "clientId", Error: ErrAlreadyEnrolled.Error()})
	} else if !errors.Is(err, ErrEnrollmentNotFound) {
		return Enrollment{}, pkgerrors.Wrap(err, "checking existing enrollment")
	}

	now := time.Now().UTC()
	enr := Enrollment{
		ClientID:       ne.ClientID,
		ClassID:        ne.ClassID,
		Status:         EnrollmentActive,
		EnrollmentDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	enr, err = svc.repo.CreateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, pkgerrors.Wrap(err, "creating enrollment")
	}

	if _, err = svc.clients.Update(ctx, ne.ClientID, client.UpdateClient{ClassID: ne.ClassID}); err != nil {
		svc.logger.Error("setting client classID after enrollment", err,
			map[string]interface{}{"clientId": ne.ClientID, "classId": ne.ClassID})
	}

	if cl.FollowUp == client.TaskAssignToClass {
		if res := svc.clients.CompleteCurrentTask(ctx, actor, ne.ClientID); !res.Success {
			svc.logger.Warn("completing Assign to Class after enrollment: "+res.Message,
				map[string]interface{}{"clientId": ne.ClientID})
		}
	}

	svc.audit.Record(ctx, actor, "enrollment", enr.ID, audit.ActionCreate, map[string]interface{}{
		"clientId":  ne.ClientID,
		"classId":   ne.ClassID,
		"className": cls.Name,
	})
	return enr, nil
}

func (svc *Service) QueryEnrollments(ctx context.Context, classID string) ([]Enrollment, error) {
	return svc.repo.QueryEnrollmentsByClassID(ctx, classID)
}

// Terminate ends an active enrollment.
func (svc *Service) Terminate(ctx context.Context, actor, enrollmentID string) (Enrollment, error) {
	enr, err := svc.repo.GetEnrollmentByID(ctx, enrollmentID)
	if err != nil {
		return Enrollment{}, err
	}

	now := time.Now().UTC()
	enr.Status = EnrollmentTerminated
	enr.TerminationDate.SetValid(now)
	enr.UpdatedAt = now
	enr, err = svc.repo.UpdateEnrollment(ctx, enr)
	if err != nil {
		return Enrollment{}, pkgerrors.Wrap(err, "terminating enrollment")
	}

	svc.audit.Record(ctx, actor, "enrollment", enr.ID, audit.ActionUpdate, map[string]interface{}{
		"status": EnrollmentTerminated,
	})
	return enr, nil
}

func (svc *Service) MarkAttendance(ctx context.Context, na NewAttendance) (Attendance, error) {
	if _, err := svc.repo.GetEnrollmentByID(ctx, na.EnrollmentID); err != nil {
		return Attendance{}, err
	}
	att := Attendance{
		EnrollmentID: na.EnrollmentID,
		Date:         na.Date,
		Present:      na.Present,
		Note:         na.Note,
		CreatedAt:    time.Now().UTC(),
	}
	return svc.repo.CreateAttendance(ctx, att)
}

func (svc *Service) QueryAttendance(ctx context.Context, enrollmentID string) ([]Attendance, error) {
	return svc.repo.QueryAttendanceByEnrollmentID(ctx, enrollmentID)
}
