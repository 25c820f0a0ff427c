package model

import "time"

// Payment statuses.  Completed and Refunded are final.
const (
	PayPending   = "Pending"
	PayCompleted = "Completed"
	PayRefunded  = "Refunded"
	PayFailed    = "Failed"
)

// PaymentStatuses lists statuses accepted by UpdatePaymentStatus.
var PaymentStatuses = []string{PayPending, PayCompleted, PayRefunded, PayFailed}

// PaymentMethods lists methods accepted by UpdatePaymentMethod.
var PaymentMethods = []string{"Cash", "Card", "Bank Transfer", "Online"}

// Finalized reports whether a payment in status s is frozen.
func Finalized(s string) bool { return s == PayCompleted || s == PayRefunded }

// Payment mirrors the `Payment` table.  Amount is DECIMAL and kept as text
// to avoid float rounding.
type Payment struct {
	ID            uint64     `json:"pay_id"`
	UserID        uint64     `json:"user_id"`
	ApplicationID *uint64    `json:"adoption_app_id,omitempty"`
	Method        string     `json:"method"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	Date          *time.Time `json:"date,omitempty"`
}

// PaymentView is the row shown on the manage payments page.
type PaymentView struct {
	Payment
	UserName  string  `json:"user_name"`
	PetID     *uint64 `json:"pet_id,omitempty"`
	AppStatus *string `json:"app_status,omitempty"`
}
