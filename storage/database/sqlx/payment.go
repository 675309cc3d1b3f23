package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/amanihq/amani/core/payment"
)

type paymentRepository struct {
	db *sqlx.DB
}

var _ payment.Repository = (*paymentRepository)(nil) // interface compliance check

func NewPaymentRepository(db *sqlx.DB) *paymentRepository {
	return &paymentRepository{db: db}
}

type paymentRow struct {
	ID          string    `db:"id"`
	ClientID    string    `db:"client_id"`
	Amount      float64   `db:"amount"`
	Method      string    `db:"method"`
	Note        string    `db:"note"`
	PaymentDate time.Time `db:"payment_date"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	ClientName  string    `db:"client_name"`
}

func (repo paymentRepository) unrow(row paymentRow) payment.Payment {
	return payment.Payment{
		ID:          row.ID,
		ClientID:    row.ClientID,
		Amount:      row.Amount,
		Method:      row.Method,
		Note:        row.Note,
		PaymentDate: row.PaymentDate,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		ClientName:  row.ClientName,
	}
}

func (repo paymentRepository) unrowSlice(rows []paymentRow) []payment.Payment {
	payments := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, repo.unrow(row))
	}
	return payments
}

// trapNoRowsErr maps psql "no rows" err to payment.ErrNotFound
func (repo paymentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return payment.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// client name is joined into every read so listings need no extra round trip
const paymentSelect = `
SELECT p.id, p.client_id, p.amount, p.method, p.note, p.payment_date, p.created_at, p.updated_at,
       TRIM(c.first_name || ' ' || c.last_name) AS client_name
FROM payment p
JOIN client c ON c.id = p.client_id`

func (repo paymentRepository) CreatePayment(ctx context.Context, pmt payment.Payment) (payment.Payment, error) {
	pmt.ID = uuid.New().String()
	q := `
		INSERT INTO payment (id, client_id, amount, method, note, payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		pmt.ID, pmt.ClientID, pmt.Amount, pmt.Method, pmt.Note,
		pmt.PaymentDate.UTC(), pmt.CreatedAt.UTC(), pmt.UpdatedAt.UTC())
	if err != nil {
		return payment.Payment{}, errors.Wrap(err, "inserting payment")
	}
	return pmt, nil
}

func (repo paymentRepository) QueryAllPayments(ctx context.Context) ([]payment.Payment, error) {
	var rows []paymentRow
	q := paymentSelect + ` ORDER BY p.payment_date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying payments")
	}
	return repo.unrowSlice(rows), nil
}

func (repo paymentRepository) GetPaymentByID(ctx context.Context, id string) (payment.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return payment.Payment{}, payment.ErrNotFound
	}

	var row paymentRow
	q := paymentSelect + ` WHERE p.id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return payment.Payment{}, repo.trapNoRowsErr(err, "finding payment by ID")
	}
	return repo.unrow(row), nil
}

func (repo paymentRepository) QueryPaymentsByClientID(ctx context.Context, clientID string) ([]payment.Payment, error) {
	var rows []paymentRow
	q := paymentSelect + ` WHERE p.client_id = $1 ORDER BY p.payment_date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, clientID); err != nil {
		return nil, errors.Wrap(err, "querying client payments")
	}
	return repo.unrowSlice(rows), nil
}

func (repo paymentRepository) DeletePaymentByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM payment WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting payment")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return payment.ErrNotFound
	}
	return nil
}
