package client

import (
	"time"

	"github.com/amanihq/amani/core"
)

// Client is a person going through (or done with) onboarding into a class.
// OnboardingStatus is always StatusOf(FollowUp); the two fields are only
// ever written together (see Service).
type Client struct {
	ID             string  `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	ReferralSource string  `json:"referralSource"`
	Notes          string  `json:"notes"`
	ClassID        string  `json:"classID,omitempty"`
	CurrentBalance float64 `json:"currentBalance"`

	FollowUp         Task   `json:"followUp"`
	OnboardingStatus Status `json:"onboardingStatus"`

	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (c Client) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// NewClient contains information needed to create a new Client, whether it
// arrives through the intake webhook or is keyed in by staff.
type NewClient struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	ReferralSource string `json:"referralSource"`
	Notes          string `json:"notes"`
	FollowUp       Task   `json:"followUp"`
}

func (nc *NewClient) Validate() error {
	nc.FirstName = core.CleanString(nc.FirstName)
	nc.LastName = core.CleanString(nc.LastName)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Phone = core.CleanString(nc.Phone)
	nc.ReferralSource = core.CleanString(nc.ReferralSource)
	nc.Notes = core.CleanString(nc.Notes)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	if !(nc.FollowUp.IsUnset() || nc.FollowUp.Known()) {
		return core.NewValidationError(nil, core.FieldError{Field: "followUp", Error: errUnknownTask})
	}
	return nil
}

// UpdateClient defines the contact fields staff may modify on an existing
// Client. Follow-up and status can only move through the task operations.
type UpdateClient struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	ReferralSource string `json:"referralSource"`
	Notes          string `json:"notes"`
	ClassID        string `json:"classID"`
}

func (uc *UpdateClient) Validate(orig Client) error {
	if name := core.CleanString(uc.FirstName); name != "" {
		uc.FirstName = name
	} else {
		uc.FirstName = orig.FirstName
	}
	if name := core.CleanString(uc.LastName); name != "" {
		uc.LastName = name
	} else {
		uc.LastName = orig.LastName
	}
	if email := core.CleanString(uc.Email, true /* lower */); email != "" {
		uc.Email = email
	} else {
		uc.Email = orig.Email
	}
	if phone := core.CleanString(uc.Phone); phone != "" {
		uc.Phone = phone
	} else {
		uc.Phone = orig.Phone
	}
	if src := core.CleanString(uc.ReferralSource); src != "" {
		uc.ReferralSource = src
	} else {
		uc.ReferralSource = orig.ReferralSource
	}
	if notes := core.CleanString(uc.Notes); notes != "" {
		uc.Notes = notes
	} else {
		uc.Notes = orig.Notes
	}
	if uc.ClassID == "" {
		uc.ClassID = orig.ClassID
	}
	return core.Validate.Struct(uc)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	Statuses    []Status  `query:"status"`
	Tasks       []Task    `query:"follow_up"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Statuses == nil && qf.Tasks == nil &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// TaskResult is the discriminated outcome of the task mutations. On failure
// only Success and Message are set; NextFollowUp marshals as null when the
// pipeline just completed.
type TaskResult struct {
	Success             bool   `json:"success"`
	Message             string `json:"message,omitempty"`
	NextFollowUp        Task   `json:"nextFollowUp,omitempty"`
	NewOnboardingStatus Status `json:"newOnboardingStatus,omitempty"`
}

// DeleteResult reports a deletion. Deleting an already-absent client is a
// success with a distinct message.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
