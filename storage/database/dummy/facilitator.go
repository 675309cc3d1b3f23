package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/amanihq/amani/core/facilitator"
)

type facilitatorRepository struct {
	db          *facilitatorTable
	assignments *assignmentTable
}

var _ facilitator.Repository = (*facilitatorRepository)(nil) // interface compliance check

func NewFacilitatorRepository(db *DB) *facilitatorRepository {
	return &facilitatorRepository{db: db.facilitator, assignments: db.assignment}
}

func (repo *facilitatorRepository) CreateFacilitator(_ context.Context, fac facilitator.Facilitator) (facilitator.Facilitator, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	fac.ID = uuid.New().String()
	repo.db.table[fac.ID] = &fac
	return fac, nil
}

func (repo *facilitatorRepository) QueryAllFacilitators(_ context.Context) ([]facilitator.Facilitator, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	all := make([]facilitator.Facilitator, 0, len(repo.db.table))
	for _, fac := range repo.db.table {
		all = append(all, *fac)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (repo *facilitatorRepository) GetFacilitatorByID(_ context.Context, id string) (facilitator.Facilitator, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if fac, ok := repo.db.table[id]; ok {
		return *fac, nil
	}
	return facilitator.Facilitator{}, facilitator.ErrNotFound
}

func (repo *facilitatorRepository) UpdateFacilitator(_ context.Context, fac facilitator.Facilitator, isActive *bool) (facilitator.Facilitator, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[fac.ID]
	if !ok {
		return facilitator.Facilitator{}, facilitator.ErrNotFound
	}
	if fac.Name != "" {
		orig.Name = fac.Name
	}
	if fac.Email != "" {
		orig.Email = fac.Email
	}
	if fac.Phone != "" {
		orig.Phone = fac.Phone
	}
	if fac.Specialty != "" {
		orig.Specialty = fac.Specialty
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = fac.UpdatedAt
	return *orig, nil
}

func (repo *facilitatorRepository) DeleteFacilitatorByID(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return facilitator.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}

func (repo *facilitatorRepository) CreateAssignment(_ context.Context, asg facilitator.Assignment) (facilitator.Assignment, error) {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	asg.ID = uuid.New().String()
	repo.assignments.table[asg.ID] = &asg
	return asg, nil
}

func (repo *facilitatorRepository) QueryAssignmentsByClassID(_ context.Context, classID string) ([]facilitator.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	var assignments []facilitator.Assignment
	for _, asg := range repo.assignments.table {
		if asg.ClassID == classID {
			assignments = append(assignments, *asg)
		}
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].StartDate.After(assignments[j].StartDate)
	})
	return assignments, nil
}
