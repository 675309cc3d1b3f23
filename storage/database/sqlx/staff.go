package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core/staff"
)

type staffRepository struct {
	db *sqlx.DB
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *sqlx.DB) *staffRepository {
	return &staffRepository{db: db}
}

type staffRow struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	IsActive     bool           `db:"is_active"`
	Roles        pq.StringArray `db:"roles"`
	PasswordHash null.Bytes     `db:"password_hash"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	LastLogin    null.Time      `db:"last_login"`
}

func (repo staffRepository) row(stf staff.Staff) staffRow {
	return staffRow{
		ID:           stf.ID,
		Name:         stf.Name,
		Username:     stf.Username,
		Email:        stf.Email,
		IsActive:     stf.IsActive,
		Roles:        stf.Roles,
		PasswordHash: null.BytesFrom(stf.PasswordHash),
		CreatedAt:    stf.CreatedAt.UTC(),
		UpdatedAt:    stf.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(stf.LastLogin.UTC(), !stf.LastLogin.IsZero()),
	}
}

func (repo staffRepository) unrow(row staffRow) staff.Staff {
	return staff.Staff{
		ID:           row.ID,
		Name:         row.Name,
		Username:     row.Username,
		Email:        row.Email,
		IsActive:     row.IsActive,
		Roles:        row.Roles,
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		LastLogin:    row.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to staff.ErrNotFound
func (repo staffRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return staff.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

const staffColumns = `id, name, username, email, is_active, roles, password_hash,
created_at, updated_at, last_login`

func (repo staffRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...staff.Staff) error {
	args := []interface{}{username}
	q := `SELECT username, email FROM staff WHERE (username = ? OR email = ?)`
	if email == "" {
		email = username
	}
	args = append(args, email)

	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, stf := range excluded {
			ids = append(ids, stf.ID)
		}
		q += ` AND id NOT IN (?)`
		args = append(args, ids)
	}

	q, inArgs, err := sqlx.In(q, args...)
	if err != nil {
		return errors.Wrap(err, "binding uniqueness check")
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), inArgs...); err != nil {
		return errors.Wrap(err, "checking staff uniqueness")
	}
	for _, row := range rows {
		if row.Username == username {
			return staff.ErrUsernameExists
		}
		if row.Email == email {
			return staff.ErrEmailExists
		}
	}
	return nil
}

func (repo staffRepository) CreateStaff(ctx context.Context, stf staff.Staff) (staff.Staff, error) {
	stf.ID = uuid.New().String()
	q := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES (:id, :name, :username, :email, :is_active, :roles, :password_hash,
		        :created_at, :updated_at, :last_login)`
	if _, err := repo.db.NamedExecContext(ctx, q, repo.row(stf)); err != nil {
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return stf, nil
}

func (repo staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	var rows []staffRow
	q := `SELECT ` + staffColumns + ` FROM staff ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}
	all := make([]staff.Staff, 0, len(rows))
	for _, row := range rows {
		all = append(all, repo.unrow(row))
	}
	return all, nil
}

func (repo staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	if _, err := uuid.Parse(id); err != nil {
		return staff.Staff{}, staff.ErrNotFound
	}

	var row staffRow
	q := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`
	if err := repo.db.GetContext(ctx, &row, q, id); err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "finding staff by ID")
	}
	return repo.unrow(row), nil
}

func (repo staffRepository) GetStaffByUsernameOrEmail(ctx context.Context, username string) (staff.Staff, error) {
	var row staffRow
	q := `SELECT ` + staffColumns + ` FROM staff WHERE username = $1 OR email = $1`
	if err := repo.db.GetContext(ctx, &row, q, username); err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "finding staff")
	}
	return repo.unrow(row), nil
}

func (repo staffRepository) UpdateStaff(ctx context.Context, stf staff.Staff, isActive *bool) (staff.Staff, error) {
	orig, err := repo.GetStaffByID(ctx, stf.ID)
	if err != nil {
		return staff.Staff{}, err
	}

	// only save set fields
	if stf.Roles != nil {
		orig.Roles = stf.Roles
	}
	if stf.PasswordHash != nil {
		orig.PasswordHash = stf.PasswordHash
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	if stf.Name != "" {
		orig.Name = stf.Name
	}
	if stf.Username != "" {
		orig.Username = stf.Username
	}
	if stf.Email != "" {
		orig.Email = stf.Email
	}
	if !stf.LastLogin.IsZero() {
		orig.LastLogin = stf.LastLogin
	}
	if !stf.UpdatedAt.IsZero() {
		orig.UpdatedAt = stf.UpdatedAt
	}

	q := `
		UPDATE staff
		SET name = :name, username = :username, email = :email, is_active = :is_active,
		    roles = :roles, password_hash = :password_hash, updated_at = :updated_at,
		    last_login = :last_login
		WHERE id = :id`
	if _, err = repo.db.NamedExecContext(ctx, q, repo.row(orig)); err != nil {
		return staff.Staff{}, errors.Wrap(err, "updating staff")
	}
	return orig, nil
}

func (repo staffRepository) DeleteStaffByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, inArgs, err := sqlx.In(`DELETE FROM staff WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "binding staff delete")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), inArgs...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return nil
}
