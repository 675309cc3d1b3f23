package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

type auditRow struct {
	ID        string    `db:"id"`
	Actor     string    `db:"actor"`
	Entity    string    `db:"entity"`
	EntityID  string    `db:"entity_id"`
	Action    string    `db:"action"`
	Changes   null.JSON `db:"changes"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo auditRepository) unrow(row auditRow) audit.Entry {
	return audit.Entry{
		ID:        row.ID,
		Actor:     row.Actor,
		Entity:    row.Entity,
		EntityID:  row.EntityID,
		Action:    row.Action,
		Changes:   row.Changes,
		CreatedAt: row.CreatedAt,
	}
}

func (repo auditRepository) unrowSlice(rows []auditRow) []audit.Entry {
	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, repo.unrow(row))
	}
	return entries
}

func (repo auditRepository) CreateEntry(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	entry.ID = uuid.New().String()
	q := `
		INSERT INTO audit_entry (id, actor, entity, entity_id, action, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := repo.db.ExecContext(ctx, q,
		entry.ID, entry.Actor, entry.Entity, entry.EntityID, entry.Action,
		entry.Changes, entry.CreatedAt.UTC())
	if err != nil {
		return audit.Entry{}, errors.Wrap(err, "inserting audit entry")
	}
	return entry, nil
}

func (repo auditRepository) QueryAllEntries(ctx context.Context) ([]audit.Entry, error) {
	var rows []auditRow
	q := `SELECT * FROM audit_entry ORDER BY created_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying audit entries")
	}
	return repo.unrowSlice(rows), nil
}

func (repo auditRepository) FilterEntries(ctx context.Context, filter audit.QueryFilter) ([]audit.Entry, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	if filter.Entity != "" {
		conds = append(conds, `entity = ?`)
		args = append(args, filter.Entity)
	}
	if filter.EntityID != "" {
		conds = append(conds, `entity_id = ?`)
		args = append(args, filter.EntityID)
	}
	if filter.Actor != "" {
		conds = append(conds, `actor = ?`)
		args = append(args, filter.Actor)
	}

	q := `SELECT * FROM audit_entry`
	if len(conds) > 0 {
		q += ` WHERE ` + strings.Join(conds, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	var rows []auditRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "filtering audit entries")
	}
	return repo.unrowSlice(rows), nil
}
