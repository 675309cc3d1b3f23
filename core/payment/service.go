package payment

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/client"
)

var ErrNotFound = errors.New("payment not found")

const auditEntity = "payment"

type (
	Repository interface {
		CreatePayment(ctx context.Context, pmt Payment) (Payment, error)
		// QueryAllPayments returns payments newest first, with ClientName joined in.
		QueryAllPayments(ctx context.Context) ([]Payment, error)
		GetPaymentByID(ctx context.Context, id string) (Payment, error)
		QueryPaymentsByClientID(ctx context.Context, clientID string) ([]Payment, error)
		DeletePaymentByID(ctx context.Context, id string) error
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

// Record stores a payment, debits the client's balance and, if the client is
// awaiting payment confirmation, resolves that automatic task.
func (svc *Service) Record(ctx context.Context, actor string, np NewPayment) (Payment, error) {
	if _, err := svc.clients.GetByID(ctx, np.ClientID); err != nil {
		return Payment{}, err
	}

	now := time.Now().UTC()
	pmt := Payment{
		ClientID:    np.ClientID,
		Amount:      np.Amount,
		Method:      np.Method,
		Note:        np.Note,
		PaymentDate: np.PaymentDate.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	pmt, err := svc.repo.CreatePayment(ctx, pmt)
	if err != nil {
		return Payment{}, pkgerrors.Wrap(err, "creating payment")
	}

	if _, err = svc.clients.AdjustBalance(ctx, np.ClientID, -np.Amount); err != nil {
		svc.logger.Error("adjusting client balance after payment", err,
			map[string]interface{}{"paymentId": pmt.ID, "clientId": np.ClientID})
	}

	advanced, err := svc.clients.ResolveAutomatic(ctx, actor, np.ClientID, client.TaskConfirmPayment)
	if err != nil {
		svc.logger.Error("resolving payment confirmation task", err,
			map[string]interface{}{"paymentId": pmt.ID, "clientId": np.ClientID})
	}

	svc.audit.Record(ctx, actor, auditEntity, pmt.ID, audit.ActionCreate, map[string]interface{}{
		"clientId": np.ClientID,
		"amount":   np.Amount,
		"method":   np.Method,
		"advanced": advanced,
	})
	return pmt, nil
}

// Void removes a recorded payment and credits the amount back onto the
// client's balance.
func (svc *Service) Void(ctx context.Context, actor, id string) error {
	pmt, err := svc.repo.GetPaymentByID(ctx, id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeletePaymentByID(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "deleting payment")
	}
	if _, err = svc.clients.AdjustBalance(ctx, pmt.ClientID, pmt.Amount); err != nil {
		svc.logger.Error("adjusting client balance after void", err,
			map[string]interface{}{"paymentId": id, "clientId": pmt.ClientID})
	}

	svc.audit.Record(ctx, actor, auditEntity, id, audit.ActionDelete, map[string]interface{}{
		"clientId": pmt.ClientID,
		"amount":   pmt.Amount,
	})
	return nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Payment, error) {
	return svc.repo.QueryAllPayments(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	return svc.repo.GetPaymentByID(ctx, id)
}

func (svc *Service) QueryByClient(ctx context.Context, clientID string) ([]Payment, error) {
	return svc.repo.QueryPaymentsByClientID(ctx, clientID)
}
