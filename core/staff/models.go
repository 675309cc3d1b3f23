package staff

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/amanihq/amani/core"
)

// Roles
const (
	// Admin
	RoleAdmin      = "admin:"
	RoleAdminOwner = "admin:owner"

	// Counselor (runs onboarding calls and classes)
	RoleCounselor = "counselor:"
)

var (
	AdminRoles     = []string{RoleAdmin, RoleAdminOwner}
	CounselorRoles = []string{RoleCounselor}
	AllRoles       = getAllRoles()

	rolePriorities = map[string]int{
		// Admins: 20 - 11
		RoleAdminOwner: 20,
		RoleAdmin:      11,

		// Counselors: 10 - 1
		RoleCounselor: 1,
	}

	Roles = []Role{
		{Name: "Counselor", Value: RoleCounselor},
		{Name: "Admin", Value: RoleAdmin},
		{Name: "Admin Owner", Value: RoleAdminOwner},
	}
)

func getAllRoles() []string {
	all := make([]string, 0, 3)
	all = append(all, AdminRoles...)
	all = append(all, CounselorRoles...)
	return all
}

func RolePriority(role string) int {
	return rolePriorities[role]
}

func MaxRolePriority(roles []string) int {
	var max int
	for _, role := range roles {
		if RolePriority(role) > max {
			max = RolePriority(role)
		}
	}
	return max
}

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"isActive"`
	Roles        []string  `json:"roles"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin"` // UTC
}

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Staff) RoleStartsWith(prefix string) bool {
	for _, role := range s.Roles {
		if strings.HasPrefix(role, prefix) {
			return true
		}
	}
	return false
}

func (s *Staff) IsAdmin() bool {
	return s.RoleStartsWith(RoleAdmin)
}

func (s *Staff) IsCounselor() bool {
	return s.RoleStartsWith(RoleCounselor)
}

// NewStaff contains information needed to create a new Staff member.
type NewStaff struct {
	Name            string   `json:"name" validate:"required"`
	Username        string   `json:"username" validate:"required,min=4,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Password        string   `json:"password" validate:"required,min=8"`
	PasswordConfirm string   `json:"passwordConfirm" validate:"required,eqfield=Password"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
}

func (ns *NewStaff) Validate(svc *Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkUniqueness(ns.Username, ns.Email)
}

// UpdateStaff defines what information may be provided to modify an existing Staff member.
type UpdateStaff struct {
	Name            string   `json:"name"`
	Username        string   `json:"username" validate:"omitempty,min=4,alphanum_"`
	Email           string   `json:"email" validate:"omitempty,email"`
	IsActive        *bool    `json:"isActive"`
	Roles           []string `json:"roles" validate:"omitempty,allroles"`
	Password        string   `json:"password" validate:"omitempty,min=8"`
	PasswordConfirm string   `json:"passwordConfirm" validate:"required_with=Password,eqfield=Password"`
}

func (us *UpdateStaff) Validate(orig Staff, svc *Service) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	if uname := core.CleanString(us.Username, true /* lower */); uname != "" {
		us.Username = uname
	} else {
		us.Username = orig.Username
	}

	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if err := core.Validate.Struct(us); err != nil {
		return err
	}
	return svc.checkUniqueness(us.Username, us.Email, orig)
}
