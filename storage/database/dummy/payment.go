package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/payment"
)

type paymentRepository struct {
	db      *paymentTable
	clients *clientTable
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *DB) *paymentRepository {
	return &paymentRepository{db: db.payment, clients: db.client}
}

func (repo *paymentRepository) clientName(clientID string) string {
	repo.clients.RLock()
	defer repo.clients.RUnlock()
	if cl, ok := repo.clients.table[clientID]; ok {
		return cl.FullName()
	}
	return ""
}

func (repo *paymentRepository) query() []payment.Payment {
	payments := make([]payment.Payment, 0, len(repo.db.table))
	for _, pmt := range repo.db.table {
		p := *pmt
		p.ClientName = repo.clientName(p.ClientID)
		payments = append(payments, p)
	}
	// newest first
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })
	return payments
}

func (repo *paymentRepository) CreatePayment(_ context.Context, pmt payment.Payment) (payment.Payment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	pmt.ID = uuid.New().String()
	repo.db.table[pmt.ID] = &pmt
	return pmt, nil
}

func (repo *paymentRepository) QueryAllPayments(_ context.Context) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *paymentRepository) GetPaymentByID(_ context.Context, id string) (payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if pmt, ok := repo.db.table[id]; ok {
		p := *pmt
		p.ClientName = repo.clientName(p.ClientID)
		return p, nil
	}
	return payment.Payment{}, payment.ErrNotFound
}

func (repo *paymentRepository) QueryPaymentsByClientID(_ context.Context, clientID string) ([]payment.Payment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var payments []payment.Payment
	for _, pmt := range repo.query() {
		if pmt.ClientID == clientID {
			payments = append(payments, pmt)
		}
	}
	return payments, nil
}

func (repo *paymentRepository) DeletePaymentByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return payment.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
