package payment

import (
	"time"

	"github.com/amanihq/amani/core"
)

// Payment methods
const (
	MethodCash = "cash"
	MethodCard = "card"
	MethodLink = "payment-link"
)

// Payment is money received from a client, reducing their balance. A payment
// arriving while the client is parked on the "🤖 Confirm Payment" checkpoint
// also advances their onboarding pipeline.
type Payment struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Note        string    `json:"note,omitempty"`
	PaymentDate time.Time `json:"paymentDate"` // UTC
	CreatedAt   time.Time `json:"createdAt"`   // UTC
	UpdatedAt   time.Time `json:"updatedAt"`   // UTC

	// joined for listings, never stored
	ClientName string `json:"clientName,omitempty"`
}

// NewPayment contains information needed to record a Payment.
type NewPayment struct {
	ClientID    string    `json:"clientId" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Method      string    `json:"method" validate:"required,oneof=cash card payment-link"`
	Note        string    `json:"note"`
	PaymentDate time.Time `json:"paymentDate"`
}

func (np *NewPayment) Validate() error {
	np.ClientID = core.CleanString(np.ClientID)
	np.Note = core.CleanString(np.Note)
	if np.PaymentDate.IsZero() {
		np.PaymentDate = time.Now().UTC()
	}
	return core.Validate.Struct(np)
}
