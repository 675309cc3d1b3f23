package facilitator

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/amanihq/amani/core"
)

// Facilitator runs classes; assignments tie them to class offerings.
type Facilitator struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

type Assignment struct {
	ID            string    `json:"id"`
	FacilitatorID string    `json:"facilitatorId"`
	ClassID       string    `json:"classId"`
	StartDate     time.Time `json:"startDate"`
	EndDate       null.Time `json:"endDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"` // UTC
}

// NewFacilitator contains information needed to create a new Facilitator.
type NewFacilitator struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

func (nf *NewFacilitator) Validate() error {
	nf.Name = core.CleanString(nf.Name)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	nf.Phone = core.CleanString(nf.Phone)
	nf.Specialty = core.CleanString(nf.Specialty)
	return core.Validate.Struct(nf)
}

// NewAssignment contains information needed to assign a Facilitator to a class.
type NewAssignment struct {
	FacilitatorID string    `json:"facilitatorId" validate:"required"`
	ClassID       string    `json:"classId" validate:"required"`
	StartDate     time.Time `json:"startDate"`
}

func (na *NewAssignment) Validate() error {
	na.FacilitatorID = core.CleanString(na.FacilitatorID)
	na.ClassID = core.CleanString(na.ClassID)
	if na.StartDate.IsZero() {
		na.StartDate = time.Now().UTC()
	}
	return core.Validate.Struct(na)
}
