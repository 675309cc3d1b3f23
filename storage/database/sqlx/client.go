package sqlxrepos

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core/client"
)

type clientRepository struct {
	db *sqlx.DB
}

var _ client.Repository = (*clientRepository)(nil) // interface compliance check

func NewClientRepository(db *sqlx.DB) *clientRepository {
	return &clientRepository{db: db}
}

type clientRow struct {
	ID               string    `db:"id"`
	FirstName        string    `db:"first_name"`
	LastName         string    `db:"last_name"`
	Email            string    `db:"email"`
	Phone            string    `db:"phone"`
	ReferralSource   string    `db:"referral_source"`
	Notes            string    `db:"notes"`
	ClassID          string    `db:"class_id"`
	CurrentBalance   float64   `db:"current_balance"`
	FollowUp         string    `db:"follow_up"`
	OnboardingStatus string    `db:"onboarding_status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (repo clientRepository) row(cl client.Client) clientRow {
	return clientRow{
		ID:               cl.ID,
		FirstName:        cl.FirstName,
		LastName:         cl.LastName,
		Email:            cl.Email,
		Phone:            cl.Phone,
		ReferralSource:   cl.ReferralSource,
		Notes:            cl.Notes,
		ClassID:          cl.ClassID,
		CurrentBalance:   cl.CurrentBalance,
		FollowUp:         string(cl.FollowUp),
		OnboardingStatus: string(cl.OnboardingStatus),
		CreatedAt:        cl.CreatedAt.UTC(),
		UpdatedAt:        cl.UpdatedAt.UTC(),
	}
}

func (repo clientRepository) unrow(row clientRow) client.Client {
	return client.Client{
		ID:               row.ID,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Email:            row.Email,
		Phone:            row.Phone,
		ReferralSource:   row.ReferralSource,
		Notes:            row.Notes,
		ClassID:          row.ClassID,
		CurrentBalance:   row.CurrentBalance,
		FollowUp:         client.Task(row.FollowUp),
		OnboardingStatus: client.Status(row.OnboardingStatus),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func (repo clientRepository) unrowSlice(rows []clientRow) []client.Client {
	clients := make([]client.Client, 0, len(rows))
	for _, row := range rows {
		clients = append(clients, repo.unrow(row))
	}
	return clients
}

// trapNoRowsErr maps psql "no rows" err to client.ErrNotFound
func (repo clientRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return client.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const clientColumns = `id, first_name, last_name, email, phone, referral_source, notes,
class_id, current_balance, follow_up, onboarding_status, created_at, updated_at`

func (repo clientRepository) CreateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	cl.ID = uuid.New().String()
	q := `
		INSERT INTO client (` + clientColumns + `)
		VALUES (:id, :first_name, :last_name, :email, :phone, :referral_source, :notes,
		        :class_id, :current_balance, :follow_up, :onboarding_status, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(cl)); err != nil {
		return client.Client{}, errors.Wrap(err, "inserting client")
	}
	return cl, nil
}

func (repo clientRepository) QueryAllClients(ctx context.Context) ([]client.Client, error) {
	var rows []clientRow
	q := `SELECT ` + clientColumns + ` FROM client ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying clients")
	}
	return repo.unrowSlice(rows), nil
}

func (repo clientRepository) GetClientByID(ctx context.Context, id string) (client.Client, error) {
	if _, err := uuid.Parse(id); err != nil {
		return client.Client{}, client.ErrNotFound
	}

	var row clientRow
	q := `SELECT ` + clientColumns + ` FROM client WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return client.Client{}, repo.trapNoRowsErr(err, "finding client by ID")
	}
	return repo.unrow(row), nil
}

func (repo clientRepository) FilterClients(ctx context.Context, filter client.QueryFilter) ([]client.Client, error) {
	conds := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	// clients with FirstName, LastName, Email or Phone matching the search keyword
	if filter.Search != "" {
		conds = append(conds, `(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)`)
		val := "%" + filter.Search + "%"
		args = append(args, val, val, val, val)
	}
	if len(filter.Statuses) > 0 {
		conds = append(conds, `onboarding_status IN (?)`)
		args = append(args, statusStrings(filter.Statuses))
	}
	if len(filter.Tasks) > 0 {
		conds = append(conds, `follow_up IN (?)`)
		args = append(args, taskStrings(filter.Tasks))
	}
	if !filter.CreatedFrom.IsZero() {
		conds = append(conds, `created_at >= ?`)
		args = append(args, filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		conds = append(conds, `created_at <= ?`)
		args = append(args, filter.CreatedTo.UTC())
	}

	q := `SELECT ` + clientColumns + ` FROM client`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "binding client filter")
	}

	var rows []clientRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), inArgs...); err != nil {
		return nil, errors.Wrap(err, "filtering clients")
	}
	return repo.unrowSlice(rows), nil
}

func (repo clientRepository) UpdateClient(ctx context.Context, cl client.Client) (client.Client, error) {
	q := `
		UPDATE client
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone,
		    referral_source = :referral_source, notes = :notes, class_id = :class_id,
		    updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, repo.row(cl))
	if err != nil {
		return client.Client{}, errors.Wrap(err, "updating client")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return client.Client{}, client.ErrNotFound
	}
	return repo.GetClientByID(ctx, cl.ID)
}

// UpdateClientFollowUp patches both pipeline fields in a single statement so
// no reader can see the pair half-written.
func (repo clientRepository) UpdateClientFollowUp(ctx context.Context, id string, task client.Task, status client.Status) (client.Client, error) {
	var row clientRow
	q := `
		UPDATE client
		SET follow_up = $1, onboarding_status = $2, updated_at = $3
		WHERE id = $4
		RETURNING ` + clientColumns
	err := repo.db.GetContext(ctx, &row, q, string(task), string(status), time.Now().UTC(), id)
	if err != nil {
		return client.Client{}, repo.trapNoRowsErr(err, "patching client follow-up")
	}
	return repo.unrow(row), nil
}

func (repo clientRepository) AdjustClientBalance(ctx context.Context, id string, delta float64) (client.Client, error) {
	var row clientRow
	q := `
		UPDATE client
		SET current_balance = current_balance + $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + clientColumns
	err := repo.db.GetContext(ctx, &row, q, delta, time.Now().UTC(), id)
	if err != nil {
		return client.Client{}, repo.trapNoRowsErr(err, "adjusting client balance")
	}
	return repo.unrow(row), nil
}

func (repo clientRepository) DeleteClientByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM client WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting client")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return client.ErrNotFound
	}
	return nil
}

func statusStrings(statuses []client.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

func taskStrings(tasks []client.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, string(t))
	}
	return out
}

// null.Time helpers shared by the other repositories in this package.

func nullTime(t null.Time) null.Time {
	if t.Valid {
		t.Time = t.Time.UTC()
	}
	return t
}
