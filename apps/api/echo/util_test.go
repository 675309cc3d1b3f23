package echoapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/facilitator"
	"github.com/amanihq/amani/core/payment"
	"github.com/amanihq/amani/core/staff"
	emailsvc "github.com/amanihq/amani/services/email"
	dummydb "github.com/amanihq/amani/storage/database/dummy"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

type testServices struct {
	staff       *staff.Service
	clients     *client.Service
	payments    *payment.Service
	classes     *class.Service
	facilitator *facilitator.Service
	audit       *audit.Service
}

func newTestServer(t *testing.T) (Server, testServices) {
	db, err := dummydb.Open()
	require.NoError(t, err)

	logger := testLogger{t: t}
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	clientSvc := client.NewService(dummydb.NewClientRepository(db), auditSvc, logger)
	svcs := testServices{
		staff:       staff.NewService(dummydb.NewStaffRepository(db)),
		clients:     clientSvc,
		payments:    payment.NewService(dummydb.NewPaymentRepository(db), clientSvc, auditSvc, logger),
		classes:     class.NewService(dummydb.NewClassRepository(db), clientSvc, auditSvc, logger),
		facilitator: facilitator.NewService(dummydb.NewFacilitatorRepository(db)),
		audit:       auditSvc,
	}

	srv := NewServer(&Options{
		Address:        "localhost:8000",
		DisableReqLogs: true,
		Logger:         logger,
		EmailSvc:       emailsvc.NewConsoleServiceMock(),
		StaffSvc:       svcs.staff,
		ClientSvc:      svcs.clients,
		PaymentSvc:     svcs.payments,
		ClassSvc:       svcs.classes,
		FacilitatorSvc: svcs.facilitator,
		AuditSvc:       svcs.audit,
	})
	return srv, svcs
}

func createStaff(t *testing.T, svc *staff.Service, uname string, roles []string) staff.Staff {
	stf, err := svc.Create(context.Background(), staff.NewStaff{
		Name:            "Test " + uname,
		Username:        uname,
		Email:           uname + "@amani.test",
		Password:        "Str0ngPassw0rd!",
		PasswordConfirm: "Str0ngPassw0rd!",
		Roles:           roles,
	})
	require.NoError(t, err)
	return stf
}

func getToken(t *testing.T, stf staff.Staff) string {
	token, err := GenerateToken(GetStaffClaims(stf))
	require.NoError(t, err)
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}
