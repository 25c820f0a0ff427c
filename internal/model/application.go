package model

import "time"

// Adoption application statuses.  Approved and Rejected are terminal.
const (
	AppPending  = "Pending"
	AppApproved = "Approved"
	AppRejected = "Rejected"
)

// WithdrawReason is recorded when an applicant withdraws a pending application.
const WithdrawReason = "User withdrew application"

// ApplicationStatuses lists the filterable statuses.
var ApplicationStatuses = []string{AppPending, AppApproved, AppRejected}

// AdoptionApplication mirrors the `AdoptionApplication` table.
type AdoptionApplication struct {
	ID         uint64     `json:"adopt_app_id"`
	UserID     uint64     `json:"user_id"`
	PetID      uint64     `json:"pet_id"`
	Status     string     `json:"status"`
	Reason     string     `json:"reason"`
	Date       *time.Time `json:"date,omitempty"`
	ApprovedBy *uint64    `json:"approved_by,omitempty"`
}

// Terminal reports whether no further transition is allowed.
func (a AdoptionApplication) Terminal() bool {
	return a.Status == AppApproved || a.Status == AppRejected
}

// ApplicationView is the denormalized row shown on application pages.
type ApplicationView struct {
	AdoptionApplication
	AdopterName       string  `json:"user_name"`
	AdopterEmail      string  `json:"email"`
	PetName           string  `json:"pet_name"`
	PetStatus         string  `json:"pet_status"`
	ShelterName       string  `json:"shelter_name"`
	Species           string  `json:"species,omitempty"`
	Breed             string  `json:"breed,omitempty"`
	ApproverName      *string `json:"approver_name,omitempty"`
	CompletedPayments int     `json:"completed_payments"`
	TotalAmount       *string `json:"total_amount,omitempty"`
}
