package service

import (
	"context"
	"strings"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// RequestableRoles are the roles a user may ask an admin for.
var RequestableRoles = []string{model.RoleShelterWorker, model.RoleAdmin}

// WorkerRequestService handles role-upgrade requests.  A user has at most
// one Pending request at a time.
type WorkerRequestService struct {
	Workers WorkerStore
	Users   UserStore
	Events  queue.Publisher
}

func NewWorkerRequestService(workers WorkerStore, users UserStore, events queue.Publisher) *WorkerRequestService {
	return &WorkerRequestService{Workers: workers, Users: users, Events: events}
}

// Status returns the actor's Pending request, or nil.
func (s *WorkerRequestService) Status(ctx context.Context, userID uint64) (*model.WorkerRequest, error) {
	return s.Workers.PendingRequest(ctx, userID)
}

func roleLabel(role string) string {
	if role == model.RoleAdmin {
		return "Admin"
	}
	return "Shelter Worker"
}

// Request files a Pending upgrade to role (shelter_worker when empty).
// Users already holding role or a higher one get apperr.ErrRoleAlreadyGranted.
func (s *WorkerRequestService) Request(ctx context.Context, actor *session.Session, role, message string) (uint64, error) {
	if role == "" {
		role = model.RoleShelterWorker
	}
	if !oneOf(role, RequestableRoles) {
		return 0, apperr.Validation(apperr.CodeInvalidValue, "Unknown role.")
	}
	if model.Covers(actor.Role, role) {
		return 0, apperr.ErrRoleAlreadyGranted
	}
	message = strings.TrimSpace(message)
	if message == "" {
		message = "Request to become a " + roleLabel(role)
	}
	id, err := s.Workers.CreateRequest(ctx, actor.UserID, message, role)
	if err := track(ctx, "worker_request.create", err); err != nil {
		return 0, err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.WorkerRequested, actor.UserID, id, "role", role))
	return id, nil
}

// Approve grants the requested role and closes the request.  A request
// whose user meanwhile got the role or a higher one fails with
// apperr.ErrRoleSuperseded and stays Pending for the admin to reject.
func (s *WorkerRequestService) Approve(ctx context.Context, actor *session.Session, requestID uint64) (model.WorkerRequest, error) {
	if requestID == 0 {
		return model.WorkerRequest{}, apperr.Required("Request")
	}
	wr, err := s.Workers.ApproveRequest(ctx, requestID)
	if err := track(ctx, "worker_request.approve", err); err != nil {
		return wr, err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.WorkerApproved, actor.UserID, requestID,
		"user_id", idString(wr.UserID), "role", wr.RequestedRole))
	return wr, nil
}

func (s *WorkerRequestService) Reject(ctx context.Context, actor *session.Session, requestID uint64) error {
	if requestID == 0 {
		return apperr.Required("Request")
	}
	if err := track(ctx, "worker_request.reject", s.Workers.RejectRequest(ctx, requestID)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.WorkerRejected, actor.UserID, requestID))
	return nil
}

func (s *WorkerRequestService) ListPending(ctx context.Context) ([]model.WorkerRequestView, error) {
	return s.Workers.ListPending(ctx)
}
