package facilitator

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("facilitator not found")

type (
	Repository interface {
		CreateFacilitator(ctx context.Context, fac Facilitator) (Facilitator, error)
		QueryAllFacilitators(ctx context.Context) ([]Facilitator, error)
		GetFacilitatorByID(ctx context.Context, id string) (Facilitator, error)
		UpdateFacilitator(ctx context.Context, fac Facilitator, isActive *bool) (Facilitator, error)
		DeleteFacilitatorByID(ctx context.Context, id string) error

		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		QueryAssignmentsByClassID(ctx context.Context, classID string) ([]Assignment, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, nf NewFacilitator) (Facilitator, error) {
	now := time.Now().UTC()
	fac := Facilitator{
		Name:      nf.Name,
		Email:     nf.Email,
		Phone:     nf.Phone,
		Specialty: nf.Specialty,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateFacilitator(ctx, fac)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Facilitator, error) {
	return svc.repo.QueryAllFacilitators(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Facilitator, error) {
	return svc.repo.GetFacilitatorByID(ctx, id)
}

func (svc *Service) Deactivate(ctx context.Context, id string) (Facilitator, error) {
	fac, err := svc.repo.GetFacilitatorByID(ctx, id)
	if err != nil {
		return Facilitator{}, err
	}
	fac.UpdatedAt = time.Now().UTC()
	inactive := false
	return svc.repo.UpdateFacilitator(ctx, fac, &inactive)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteFacilitatorByID(ctx, id)
}

func (svc *Service) Assign(ctx context.Context, na NewAssignment) (Assignment, error) {
	if _, err := svc.repo.GetFacilitatorByID(ctx, na.FacilitatorID); err != nil {
		return Assignment{}, err
	}
	asg := Assignment{
		FacilitatorID: na.FacilitatorID,
		ClassID:       na.ClassID,
		StartDate:     na.StartDate,
		CreatedAt:     time.Now().UTC(),
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *Service) QueryAssignments(ctx context.Context, classID string) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByClassID(ctx, classID)
}
