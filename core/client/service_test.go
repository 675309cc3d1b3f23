package client_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/client"
	dummydb "github.com/amanihq/amani/storage/database/dummy"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTestService(t *testing.T) (*client.Service, *audit.Service) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	logger := testLogger{t: t}
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	return client.NewService(dummydb.NewClientRepository(db), auditSvc, logger), auditSvc
}

func createClient(t *testing.T, svc *client.Service, task client.Task) client.Client {
	cl, err := svc.Create(context.Background(), client.NewClient{
		FirstName: "Naledi",
		LastName:  "Dlamini",
		Email:     "naledi@example.com",
		FollowUp:  task,
	})
	require.NoError(t, err)
	return cl
}

func Test_clientService_Create_setsDerivedStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskSendPaymentSMS)
	assert.Equal(t, client.StatusInitiation, cl.OnboardingStatus)

	// new intake arrives with no follow-up at all
	fresh := createClient(t, svc, client.TaskUnset)
	assert.Equal(t, client.StatusInitiation, fresh.OnboardingStatus)

	got, err := svc.GetByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, cl.FollowUp, got.FollowUp)
}

func Test_clientService_CompleteCurrentTask_walksPipeline(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskInitialContact)

	steps := []struct {
		wantNext   client.Task
		wantStatus client.Status
	}{
		{client.TaskCallClient, client.StatusInitiation},
		{client.TaskSendSignupSMS, client.StatusInitiation},
		{client.TaskConfirmSignup, client.StatusInitiation},
		{client.TaskSendPaymentSMS, client.StatusPaymentDue},
		{client.TaskConfirmPayment, client.StatusPaymentDue},
	}
	for _, step := range steps {
		res := svc.CompleteCurrentTask(ctx, "tester", cl.ID)
		require.True(t, res.Success, "completing towards %q: %s", step.wantNext, res.Message)
		assert.Equal(t, step.wantNext, res.NextFollowUp)
		assert.Equal(t, step.wantStatus, res.NewOnboardingStatus)
	}

	got, err := svc.GetByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, client.TaskConfirmPayment, got.FollowUp)
	assert.Equal(t, client.StatusPaymentDue, got.OnboardingStatus)
}

func Test_clientService_CompleteCurrentTask_automaticIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskConfirmPayment)

	res := svc.CompleteCurrentTask(ctx, "tester", cl.ID)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "cannot be completed manually")
	assert.Empty(t, res.NextFollowUp)
	assert.Empty(t, res.NewOnboardingStatus)

	// the stored pair is untouched
	got, err := svc.GetByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, client.TaskConfirmPayment, got.FollowUp)
	assert.Equal(t, client.StatusPaymentDue, got.OnboardingStatus)
}

func Test_clientService_CompleteCurrentTask_terminalIsRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskNone)

	res := svc.CompleteCurrentTask(ctx, "tester", cl.ID)
	assert.False(t, res.Success)
	assert.Equal(t, "Onboarding is already complete.", res.Message)
}

func Test_clientService_CompleteCurrentTask_notFound(t *testing.T) {
	svc, _ := newTestService(t)

	res := svc.CompleteCurrentTask(context.Background(), "tester", "00000000-0000-0000-0000-000000000000")
	assert.False(t, res.Success)
	assert.Equal(t, "Client not found.", res.Message)
}

func Test_clientService_SetTask(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskInitialContact)

	// jump straight to an automatic checkpoint
	res := svc.SetTask(ctx, "tester", cl.ID, client.TaskConfirmDocs)
	require.True(t, res.Success)
	assert.Equal(t, client.TaskConfirmDocs, res.NextFollowUp)
	assert.Equal(t, client.StatusDocsPending, res.NewOnboardingStatus)

	// clearing the pipeline is allowed and serializes as null
	res = svc.SetTask(ctx, "tester", cl.ID, client.TaskNone)
	require.True(t, res.Success)
	assert.Equal(t, client.StatusComplete, res.NewOnboardingStatus)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nextFollowUp":null`)

	// unknown values never reach storage
	res = svc.SetTask(ctx, "tester", cl.ID, client.Task("Ship It"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Unknown follow-up task")

	got, err := svc.GetByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, client.TaskNone, got.FollowUp)
}

func Test_clientService_ResolveAutomatic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	t.Run("advances awaiting client", func(t *testing.T) {
		cl := createClient(t, svc, client.TaskConfirmPayment)

		advanced, err := svc.ResolveAutomatic(ctx, "billing", cl.ID, client.TaskConfirmPayment)
		require.NoError(t, err)
		assert.True(t, advanced)

		got, err := svc.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskSendDocSignSMS, got.FollowUp)
		assert.Equal(t, client.StatusDocsPending, got.OnboardingStatus)
	})

	t.Run("no-op when not awaiting", func(t *testing.T) {
		cl := createClient(t, svc, client.TaskCallClient)

		advanced, err := svc.ResolveAutomatic(ctx, "billing", cl.ID, client.TaskConfirmPayment)
		require.NoError(t, err)
		assert.False(t, advanced)

		got, err := svc.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskCallClient, got.FollowUp)
	})

	t.Run("rejects manual tasks", func(t *testing.T) {
		cl := createClient(t, svc, client.TaskCallClient)

		_, err := svc.ResolveAutomatic(ctx, "billing", cl.ID, client.TaskCallClient)
		assert.Error(t, err)
	})
}

func Test_clientService_Delete_isIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskInitialContact)

	res := svc.Delete(ctx, "tester", cl.ID)
	assert.True(t, res.Success)
	assert.Equal(t, "Client deleted.", res.Message)

	res = svc.Delete(ctx, "tester", cl.ID)
	assert.True(t, res.Success)
	assert.Equal(t, "Client already deleted.", res.Message)
}

func Test_clientService_taskMoves_areAudited(t *testing.T) {
	svc, auditSvc := newTestService(t)
	ctx := context.Background()

	cl := createClient(t, svc, client.TaskInitialContact)
	res := svc.CompleteCurrentTask(ctx, "tester", cl.ID)
	require.True(t, res.Success)

	entries, err := auditSvc.Filter(ctx, audit.QueryFilter{Entity: "client", EntityID: cl.ID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCompleteTask, entries[0].Action)
	assert.Equal(t, "tester", entries[0].Actor)
	assert.Contains(t, string(entries[0].Changes.JSON), string(client.TaskCallClient))
}

func Test_clientService_Filter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	naledi := createClient(t, svc, client.TaskInitialContact)
	paying := createClient(t, svc, client.TaskConfirmPayment)

	byStatus, err := svc.Filter(ctx, client.QueryFilter{Statuses: []client.Status{client.StatusPaymentDue}})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, paying.ID, byStatus[0].ID)

	bySearch, err := svc.Filter(ctx, client.QueryFilter{Search: "naledi"})
	require.NoError(t, err)
	require.Len(t, bySearch, 2) // both share the same first name
	_ = naledi

	empty, err := svc.Filter(ctx, client.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, empty, 2)
}
