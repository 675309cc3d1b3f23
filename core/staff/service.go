package staff

import (
	"context"
	"errors"
	"time"

	"github.com/amanihq/amani/core"
)

var (
	// errors
	ErrNotFound       = errors.New("staff member not found")
	ErrEmailExists    = errors.New("a staff member with this email already exists")
	ErrUsernameExists = errors.New("a staff member with this username already exists")
)

type (
	Repository interface {
		CheckUsernameUniqueness(ctx context.Context, username, email string, excluded ...Staff) error
		CreateStaff(ctx context.Context, stf Staff) (Staff, error)
		QueryAllStaff(ctx context.Context) ([]Staff, error)
		GetStaffByID(ctx context.Context, id string) (Staff, error)
		GetStaffByUsernameOrEmail(ctx context.Context, username string) (Staff, error)
		UpdateStaff(ctx context.Context, stf Staff, isActive *bool) (Staff, error)
		DeleteStaffByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(uname, email string, excluded ...Staff) error {
	err := svc.repo.CheckUsernameUniqueness(context.Background(), uname, email, excluded...)
	if err == nil {
		return nil
	}
	var field string
	switch err {
	case ErrUsernameExists:
		field = "username"
	case ErrEmailExists:
		field = "email"
	default:
		return err
	}
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}

func (svc *Service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	now := time.Now().UTC()
	stf := Staff{
		Name:      ns.Name,
		Username:  ns.Username,
		Email:     ns.Email,
		IsActive:  true,
		Roles:     ns.Roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stf.SetPassword(ns.Password); err != nil {
		return Staff{}, err
	}
	return svc.repo.CreateStaff(ctx, stf)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Staff, error) {
	return svc.repo.QueryAllStaff(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaffByID(ctx, id)
}

func (svc *Service) GetByUsernameOrEmail(ctx context.Context, uname string) (Staff, error) {
	return svc.repo.GetStaffByUsernameOrEmail(ctx, core.CleanString(uname, true /* lower */))
}

func (svc *Service) Update(ctx context.Context, id string, us UpdateStaff) (Staff, error) {
	orig, err := svc.repo.GetStaffByID(ctx, id)
	if err != nil {
		return Staff{}, err
	}
	if err := us.Validate(orig, svc); err != nil {
		return Staff{}, err
	}

	stf := Staff{
		ID:        id,
		Name:      us.Name,
		Username:  us.Username,
		Email:     us.Email,
		Roles:     us.Roles,
		UpdatedAt: time.Now().UTC(),
	}
	if us.Password != "" {
		if err := stf.SetPassword(us.Password); err != nil {
			return Staff{}, err
		}
	}
	return svc.repo.UpdateStaff(ctx, stf, us.IsActive)
}

func (svc *Service) SetLastLogin(ctx context.Context, stf Staff) (Staff, error) {
	stf.LastLogin = time.Now().UTC()
	return svc.repo.UpdateStaff(ctx, stf, nil)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStaffByID(ctx, ids...)
}
