package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) *staffRepository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) query() []staff.Staff {
	all := make([]staff.Staff, 0, len(repo.db.table))
	for _, stf := range repo.db.table {
		all = append(all, *stf)
	}
	return all
}

func (repo *staffRepository) CheckUsernameUniqueness(_ context.Context, username, email string, excluded ...staff.Staff) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stf := range repo.query() {
		if isExcluded(stf, excluded) {
			continue
		}
		if stf.Username == username {
			return staff.ErrUsernameExists
		}
		if email != "" && stf.Email == email {
			return staff.ErrEmailExists
		}
	}
	return nil
}

func (repo *staffRepository) CreateStaff(_ context.Context, stf staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stf.ID = uuid.New().String()
	repo.db.table[stf.ID] = &stf
	return stf, nil
}

func (repo *staffRepository) QueryAllStaff(_ context.Context) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *staffRepository) GetStaffByID(_ context.Context, id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stf, ok := repo.db.table[id]; ok {
		return *stf, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByUsernameOrEmail(_ context.Context, username string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stf := range repo.query() {
		if (stf.Username == username) || (stf.Email == username) {
			return stf, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) UpdateStaff(_ context.Context, stf staff.Staff, isActive *bool) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only save set fields
	orig, ok := repo.db.table[stf.ID]
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
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
	return *orig, nil
}

func (repo *staffRepository) DeleteStaffByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func isExcluded(stf staff.Staff, excluded []staff.Staff) bool {
	for _, ex := range excluded {
		if ex.ID == stf.ID {
			return true
		}
	}
	return false
}
