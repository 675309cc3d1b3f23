package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/payment"
	dummydb "github.com/amanihq/amani/storage/database/dummy"
)

type testLogger struct{ t *testing.T }

func (l testLogger) Debug(msg string, args ...interface{}) { l.t.Logf("DEBUG: %s %v", msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.t.Logf("INFO: %s %v", msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.t.Logf("WARN: %s %v", msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.t.Logf("ERROR: %s %v", msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }

func newTestServices(t *testing.T) (*payment.Service, *client.Service) {
	db, err := dummydb.Open()
	require.NoError(t, err)
	logger := testLogger{t: t}
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	clientSvc := client.NewService(dummydb.NewClientRepository(db), auditSvc, logger)
	return payment.NewService(dummydb.NewPaymentRepository(db), clientSvc, auditSvc, logger), clientSvc
}

func createClient(t *testing.T, svc *client.Service, task client.Task) client.Client {
	cl, err := svc.Create(context.Background(), client.NewClient{
		FirstName: "Lindiwe",
		LastName:  "Maseko",
		Email:     "lindiwe@example.com",
		FollowUp:  task,
	})
	require.NoError(t, err)
	return cl
}

func Test_paymentService_Record(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	t.Run("debits balance and resolves the payment checkpoint", func(t *testing.T) {
		cl := createClient(t, clients, client.TaskConfirmPayment)

		pmt, err := svc.Record(ctx, "billing", payment.NewPayment{
			ClientID:    cl.ID,
			Amount:      450,
			Method:      payment.MethodCard,
			PaymentDate: time.Now().UTC(),
		})
		require.NoError(t, err)
		assert.NotEmpty(t, pmt.ID)

		got, err := clients.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, -450.0, got.CurrentBalance)
		assert.Equal(t, client.TaskSendDocSignSMS, got.FollowUp)
		assert.Equal(t, client.StatusDocsPending, got.OnboardingStatus)
	})

	t.Run("leaves the pipeline alone when not awaiting payment", func(t *testing.T) {
		cl := createClient(t, clients, client.TaskCallClient)

		_, err := svc.Record(ctx, "billing", payment.NewPayment{
			ClientID:    cl.ID,
			Amount:      100,
			Method:      payment.MethodCash,
			PaymentDate: time.Now().UTC(),
		})
		require.NoError(t, err)

		got, err := clients.GetByID(ctx, cl.ID)
		require.NoError(t, err)
		assert.Equal(t, client.TaskCallClient, got.FollowUp)
	})

	t.Run("rejects unknown clients", func(t *testing.T) {
		_, err := svc.Record(ctx, "billing", payment.NewPayment{
			ClientID:    "00000000-0000-0000-0000-000000000000",
			Amount:      100,
			Method:      payment.MethodCash,
			PaymentDate: time.Now().UTC(),
		})
		assert.ErrorIs(t, err, client.ErrNotFound)
	})
}

func Test_paymentService_Void(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	cl := createClient(t, clients, client.TaskCallClient)
	pmt, err := svc.Record(ctx, "billing", payment.NewPayment{
		ClientID:    cl.ID,
		Amount:      300,
		Method:      payment.MethodLink,
		PaymentDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Void(ctx, "billing", pmt.ID))

	// credited back
	got, err := clients.GetByID(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.CurrentBalance)

	_, err = svc.GetByID(ctx, pmt.ID)
	assert.ErrorIs(t, err, payment.ErrNotFound)

	assert.ErrorIs(t, svc.Void(ctx, "billing", pmt.ID), payment.ErrNotFound)
}

func Test_paymentService_QueryByClient(t *testing.T) {
	svc, clients := newTestServices(t)
	ctx := context.Background()

	cl := createClient(t, clients, client.TaskCallClient)
	other := createClient(t, clients, client.TaskCallClient)

	for _, amount := range []float64{100, 200} {
		_, err := svc.Record(ctx, "billing", payment.NewPayment{
			ClientID:    cl.ID,
			Amount:      amount,
			Method:      payment.MethodCash,
			PaymentDate: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	pmts, err := svc.QueryByClient(ctx, cl.ID)
	require.NoError(t, err)
	assert.Len(t, pmts, 2)

	none, err := svc.QueryByClient(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
