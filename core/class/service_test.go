package class_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
	dummydb "github.com/amanihq/amani/storage/database/dummy"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTestServices(t *testing.T) (*class.Service, *client.Service) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	logger := testLogger{t: t}
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	clientSvc := client.NewService(dummydb.NewClientRepository(db), auditSvc, logger)
	return class.NewService(dummydb.NewClassRepository(db), clientSvc, auditSvc, logger), clientSvc
}

func createClient(t *testing.T, svc *client.Service, task client.Task) client.Client {
	cl, err := svc.Create(context.Background(), client.NewClient{
		FirstName: "Mandla",
		LastName:  "Nkosi",
		Email:     "mandla@example.com",
		FollowUp:  task,
	})
	require.NoError(t, err)
	return cl
}

func createClass(t *testing.T, svc *class.Service) class.Class {
	cls, err := svc.CreateClass(context.Background(), class.NewClass{
		Name:      "Anger Management",
		Location:  "Main Office",
		Schedule:  "Tuesdays 18:00",
		StartDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	return cls
}

func Test_classService_Enroll(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	t.Run("checks off Assign to Class", func(t *testing.T) {
		cls := createClass(t, svc)
		cl := createClient(t, clients, client.TaskAssignToClass)

		enr, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
		require.NoError(t, err)
		assert.Equal(t, class.EnrollmentActive, enr.Status)

		got, err := clients.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, cls.ID, got.ClassID)
		assert.Equal(t, client.TaskAdminCall, got.FollowUp)
		assert.Equal(t, client.StatusReadyForClass, got.OnboardingStatus)
	})

	t.Run("leaves other follow-ups alone", func(t *testing.T) {
		cls := createClass(t, svc)
		cl := createClient(t, clients, client.TaskCallClient)

		_, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
		require.NoError(t, err)

		got, err := clients.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskCallClient, got.FollowUp)
	})

	t.Run("rejects a duplicate active enrollment", func(t *testing.T) {
		cls := createClass(t, svc)
		cl := createClient(t, clients, client.TaskAssignToClass)

		_, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
		require.NoError(t, err)

		_, err = svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects unknown class or client", func(t *testing.T) {
		cls := createClass(t, svc)
		cl := createClient(t, clients, client.TaskAssignToClass)

		_, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: "00000000-0000-0000-0000-000000000000"})
		assert.ErrorIs(t, err, class.ErrNotFound)

		_, err = svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: "00000000-0000-0000-0000-000000000000", ClassID: cls.ID})
		assert.ErrorIs(t, err, client.ErrNotFound)
	})
}

func Test_classService_TerminateAndReenroll(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	cls := createClass(t, svc)
	cl := createClient(t, clients, client.TaskAssignToClass)

	enr, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
	require.NoError(t, err)

	terminated, err := svc.Terminate(ctx, "front-desk", enr.ID)
	require.NoError(t, err)
	assert.Equal(t, class.EnrollmentTerminated, terminated.Status)
	assert.True(t, terminated.TerminationDate.Valid)

	// a terminated enrollment no longer blocks re-enrolling
	_, err = svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
	assert.NoError(t, err)
}

func Test_classService_Attendance(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	cls := createClass(t, svc)
	cl := createClient(t, clients, client.TaskAssignToClass)
	enr, err := svc.Enroll(ctx, "front-desk", class.NewEnrollment{ClientID: cl.ID, ClassID: cls.ID})
	require.NoError(t, err)

	att, err := svc.MarkAttendance(ctx, class.NewAttendance{
		EnrollmentID: enr.ID,
		Date:         time.Now().UTC(),
		Present:      true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, att.ID)

	marks, err := svc.QueryAttendance(ctx, enr.ID)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.True(t, marks[0].Present)

	_, err = svc.MarkAttendance(ctx, class.NewAttendance{
		EnrollmentID: "00000000-0000-0000-0000-000000000000",
		Date:         time.Now().UTC(),
	})
	assert.ErrorIs(t, err, class.ErrEnrollmentNotFound)
}
