package model

import "time"

// WorkerRequest statuses.
const (
	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

// WorkerRequest mirrors the `WorkerRequest` table.
type WorkerRequest struct {
	ID            uint64    `json:"request_id"`
	UserID        uint64    `json:"user_id"`
	Message       string    `json:"message"`
	RequestedRole string    `json:"requested_role"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// WorkerRequestView adds the requester's identity for the admin review page.
type WorkerRequestView struct {
	WorkerRequest
	UserName    string `json:"user_name"`
	Email       string `json:"email"`
	CurrentRole string `json:"current_role"`
}
