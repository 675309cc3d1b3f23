package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core/facilitator"
)

type facilitatorRepository struct {
	db *sqlx.DB
}

var _ facilitator.Repository = (*facilitatorRepository)(nil) // interface compliance check

func NewFacilitatorRepository(db *sqlx.DB) *facilitatorRepository {
	return &facilitatorRepository{db: db}
}

type facilitatorRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	Specialty string    `db:"specialty"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type assignmentRow struct {
	ID            string    `db:"id"`
	FacilitatorID string    `db:"facilitator_id"`
	ClassID       string    `db:"class_id"`
	StartDate     time.Time `db:"start_date"`
	EndDate       null.Time `db:"end_date"`
	CreatedAt     time.Time `db:"created_at"`
}

func (repo facilitatorRepository) unrow(row facilitatorRow) facilitator.Facilitator {
	return facilitator.Facilitator{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Specialty: row.Specialty,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (repo facilitatorRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return facilitator.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo facilitatorRepository) CreateFacilitator(ctx context.Context, fac facilitator.Facilitator) (facilitator.Facilitator, error) {
	fac.ID = uuid.New().String()
	q := `
		INSERT INTO facilitator (id, name, email, phone, specialty, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, q,
		fac.ID, fac.Name, fac.Email, fac.Phone, fac.Specialty, fac.IsActive,
		fac.CreatedAt.UTC(), fac.UpdatedAt.UTC())
	if err != nil {
		return facilitator.Facilitator{}, errors.Wrap(err, "inserting facilitator")
	}
	return fac, nil
}

func (repo facilitatorRepository) QueryAllFacilitators(ctx context.Context) ([]facilitator.Facilitator, error) {
	var rows []facilitatorRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM facilitator ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying facilitators")
	}
	all := make([]facilitator.Facilitator, 0, len(rows))
	for _, row := range rows {
		all = append(all, repo.unrow(row))
	}
	return all, nil
}

func (repo facilitatorRepository) GetFacilitatorByID(ctx context.Context, id string) (facilitator.Facilitator, error) {
	if _, err := uuid.Parse(id); err != nil {
		return facilitator.Facilitator{}, facilitator.ErrNotFound
	}

	var row facilitatorRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM facilitator WHERE id = $1`, id); err != nil {
		return facilitator.Facilitator{}, repo.trapNoRowsErr(err, "finding facilitator by ID")
	}
	return repo.unrow(row), nil
}

func (repo facilitatorRepository) UpdateFacilitator(ctx context.Context, fac facilitator.Facilitator, isActive *bool) (facilitator.Facilitator, error) {
	if isActive != nil {
		fac.IsActive = *isActive
	}
	q := `
		UPDATE facilitator
		SET name = $1, email = $2, phone = $3, specialty = $4, is_active = $5, updated_at = $6
		WHERE id = $7`
	res, err := repo.db.ExecContext(ctx, q,
		fac.Name, fac.Email, fac.Phone, fac.Specialty, fac.IsActive, fac.UpdatedAt.UTC(), fac.ID)
	if err != nil {
		return facilitator.Facilitator{}, errors.Wrap(err, "updating facilitator")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return facilitator.Facilitator{}, facilitator.ErrNotFound
	}
	return fac, nil
}

func (repo facilitatorRepository) DeleteFacilitatorByID(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM facilitator WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting facilitator")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return facilitator.ErrNotFound
	}
	return nil
}

func (repo facilitatorRepository) CreateAssignment(ctx context.Context, asg facilitator.Assignment) (facilitator.Assignment, error) {
	asg.ID = uuid.New().String()
	q := `
		INSERT INTO facilitator_assignment (id, facilitator_id, class_id, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, q,
		asg.ID, asg.FacilitatorID, asg.ClassID, asg.StartDate.UTC(),
		nullTime(asg.EndDate), asg.CreatedAt.UTC())
	if err != nil {
		return facilitator.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo facilitatorRepository) QueryAssignmentsByClassID(ctx context.Context, classID string) ([]facilitator.Assignment, error) {
	var rows []assignmentRow
	q := `SELECT * FROM facilitator_assignment WHERE class_id = $1 ORDER BY start_date DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, classID); err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]facilitator.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, facilitator.Assignment{
			ID:            row.ID,
			FacilitatorID: row.FacilitatorID,
			ClassID:       row.ClassID,
			StartDate:     row.StartDate,
			EndDate:       row.EndDate,
			CreatedAt:     row.CreatedAt,
		})
	}
	return assignments, nil
}
