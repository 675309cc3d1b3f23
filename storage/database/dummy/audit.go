package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/audit"
)

type auditRepository struct {
	db *auditTable
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) query() []audit.Entry {
	entries := make([]audit.Entry, 0, len(repo.db.table))
	for _, entry := range repo.db.table {
		entries = append(entries, *entry)
	}
	// newest first
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries
}

func (repo *auditRepository) CreateEntry(_ context.Context, entry audit.Entry) (audit.Entry, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	entry.ID = uuid.New().String()
	repo.db.table[entry.ID] = &entry
	return entry, nil
}

func (repo *auditRepository) QueryAllEntries(_ context.Context) ([]audit.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *auditRepository) FilterEntries(_ context.Context, filter audit.QueryFilter) ([]audit.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var entries []audit.Entry
	for _, entry := range repo.query() {
		if filter.Entity != "" && entry.Entity != filter.Entity {
			continue
		}
		if filter.EntityID != "" && entry.EntityID != filter.EntityID {
			continue
		}
		if filter.Actor != "" && entry.Actor != filter.Actor {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
