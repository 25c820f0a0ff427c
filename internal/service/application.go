package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// ApplicationService drives the adoption application state machine:
// Pending -> Approved | Rejected.  The transitions themselves and their
// side effects (pet adoption, payment creation, auto-rejection of rival
// applications) run inside the stored procedures.
type ApplicationService struct {
	Apps    ApplicationStore
	Workers WorkerStore
	Users   UserStore
	Pets    PetStore
	Events  queue.Publisher
}

func NewApplicationService(apps ApplicationStore, workers WorkerStore, users UserStore, pets PetStore, events queue.Publisher) *ApplicationService {
	return &ApplicationService{Apps: apps, Workers: workers, Users: users, Pets: pets, Events: events}
}

func isApplicant(role string) bool {
	return role == model.RoleAdopter || role == model.RoleGeneral
}

// Submit files a Pending application.  Applicants can only apply for
// themselves; staff may file on behalf of an adopter or general user.
func (s *ApplicationService) Submit(ctx context.Context, actor *session.Session, userID, petID uint64, reason string) error {
	if isApplicant(actor.Role) {
		userID = actor.UserID
	}
	if userID == 0 {
		return apperr.Required("User")
	}
	if petID == 0 {
		return apperr.Required("Pet")
	}
	if !isApplicant(actor.Role) {
		target, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return track(ctx, "application.submit", err)
		}
		if !isApplicant(target.Role) {
			return track(ctx, "application.submit", apperr.ErrApplicantOnly)
		}
	}
	reason = strings.TrimSpace(reason)
	if err := track(ctx, "application.submit", s.Apps.Submit(ctx, userID, petID, reason)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.ApplicationSubmitted, actor.UserID, 0,
		"user_id", idString(userID), "pet_id", idString(petID)))
	return nil
}

// Approve marks appID Approved by workerID.  A zero workerID is resolved
// from the acting user's ShelterWorker profile; without one the call
// fails with apperr.ErrWorkerIDRequired.  It returns the worker id used.
func (s *ApplicationService) Approve(ctx context.Context, actor *session.Session, appID, workerID uint64) (uint64, error) {
	if appID == 0 {
		return 0, apperr.Required("Application")
	}
	if workerID == 0 {
		id, ok, err := s.WorkerIDFor(ctx, actor.UserID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, track(ctx, "application.approve", apperr.ErrWorkerIDRequired)
		}
		workerID = id
	}
	if err := track(ctx, "application.approve", s.Apps.Approve(ctx, appID, workerID)); err != nil {
		return 0, err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.ApplicationApproved, actor.UserID, appID,
		"worker_id", idString(workerID)))
	return workerID, nil
}

// Reject marks appID Rejected.  reason must not be blank.
func (s *ApplicationService) Reject(ctx context.Context, actor *session.Session, appID uint64, reason string) error {
	if appID == 0 {
		return apperr.Required("Application")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return track(ctx, "application.reject", apperr.ErrReasonRequired)
	}
	if err := track(ctx, "application.reject", s.Apps.Reject(ctx, appID, reason)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.ApplicationRejected, actor.UserID, appID, "reason", reason))
	return nil
}

// Withdraw lets an applicant reject their own Pending application with a
// fixed reason.
func (s *ApplicationService) Withdraw(ctx context.Context, actor *session.Session, appID uint64) error {
	if appID == 0 {
		return apperr.Required("Application")
	}
	if !isApplicant(actor.Role) {
		return apperr.ErrNotOwner
	}
	app, err := s.Apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if app.UserID != actor.UserID {
		return track(ctx, "application.withdraw", apperr.ErrNotOwner)
	}
	if app.Terminal() {
		return track(ctx, "application.withdraw", apperr.ErrApplicationClosed)
	}
	if err := track(ctx, "application.withdraw", s.Apps.Reject(ctx, appID, model.WithdrawReason)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.ApplicationWithdrawn, actor.UserID, appID))
	return nil
}

// List returns all applications, most recent first, optionally restricted
// to one status (exact match).
func (s *ApplicationService) List(ctx context.Context, status string) ([]model.ApplicationView, error) {
	if err := filter("status", status, model.ApplicationStatuses); err != nil {
		return nil, err
	}
	return s.Apps.List(ctx, status)
}

func (s *ApplicationService) ListForUser(ctx context.Context, userID uint64) ([]model.ApplicationView, error) {
	return s.Apps.ListByUser(ctx, userID)
}

// WorkerIDFor resolves the shelter worker id of userID.  ok is false when
// the user has no worker profile.
func (s *ApplicationService) WorkerIDFor(ctx context.Context, userID uint64) (id uint64, ok bool, err error) {
	id, err = s.Workers.WorkerIDForUser(ctx, userID)
	if errors.Is(err, apperr.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ApplicationForm holds the dropdown options of the submission form.
type ApplicationForm struct {
	Users []model.UserOption `json:"users"`
	Pets  []model.PetOption  `json:"pets"`
}

// FormOptions lists the users the actor may file for and the Available
// pets.  Applicants only see themselves.
func (s *ApplicationService) FormOptions(ctx context.Context, actor *session.Session) (ApplicationForm, error) {
	var form ApplicationForm
	if isApplicant(actor.Role) {
		form.Users = []model.UserOption{{ID: actor.UserID, Name: actor.Name}}
	} else {
		users, err := s.Users.Options(ctx, model.RoleAdopter, model.RoleGeneral)
		if err != nil {
			return form, err
		}
		form.Users = users
	}
	pets, err := s.Pets.Available(ctx)
	if err != nil {
		return form, err
	}
	form.Pets = pets
	return form, nil
}
