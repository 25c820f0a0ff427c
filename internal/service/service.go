// Package service holds the authenticator and the workflow operations that
// sit between the page handlers and the repositories.  Services validate
// input, enforce the few rules that live outside the database, and publish
// an event after every successful transition.
package service

import (
	"context"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/obs"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
)

type UserStore interface {
	Authenticate(ctx context.Context, email, password string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, u repository.NewUser) error
	UpdateRole(ctx context.Context, id uint64, role string) error
	List(ctx context.Context, role string) ([]model.UserSummary, error)
	Options(ctx context.Context, roles ...string) ([]model.UserOption, error)
}

type ApplicationStore interface {
	Submit(ctx context.Context, userID, petID uint64, reason string) error
	Approve(ctx context.Context, appID, workerID uint64) error
	Reject(ctx context.Context, appID uint64, reason string) error
	GetByID(ctx context.Context, id uint64) (model.AdoptionApplication, error)
	List(ctx context.Context, status string) ([]model.ApplicationView, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.ApplicationView, error)
}

type PaymentStore interface {
	Status(ctx context.Context, payID uint64) (string, error)
	UpdateStatus(ctx context.Context, payID uint64, status string) error
	UpdateMethod(ctx context.Context, payID uint64, method string) error
	List(ctx context.Context, status string) ([]model.PaymentView, error)
}

type PetStore interface {
	List(ctx context.Context) ([]model.PetView, error)
	Available(ctx context.Context) ([]model.PetOption, error)
	UpdateStatus(ctx context.Context, petID uint64, status string) error
	Create(ctx context.Context, p repository.NewPet) (uint64, error)
	Delete(ctx context.Context, petID uint64) error
	CreateType(ctx context.Context, species, breed string) (uint64, error)
	Types(ctx context.Context) ([]model.PetType, error)
	Shelters(ctx context.Context) ([]model.Shelter, error)
}

// OverviewStore runs the aggregate queries of the view all data page.
type OverviewStore interface {
	AvailablePets(ctx context.Context) ([]model.PetView, error)
	AdoptionSummary(ctx context.Context) ([]model.StatusCount, error)
	PopularPets(ctx context.Context) ([]model.PopularPet, error)
	WorkerMappings(ctx context.Context) ([]model.WorkerMapping, error)
}

type WorkerStore interface {
	WorkerIDForUser(ctx context.Context, userID uint64) (uint64, error)
	PendingRequest(ctx context.Context, userID uint64) (*model.WorkerRequest, error)
	CreateRequest(ctx context.Context, userID uint64, message, role string) (uint64, error)
	ApproveRequest(ctx context.Context, requestID uint64) (model.WorkerRequest, error)
	RejectRequest(ctx context.Context, requestID uint64) error
	ListPending(ctx context.Context) ([]model.WorkerRequestView, error)
}

// publish emits ev and only logs a failure; the transition already
// committed and must not be reported as failed.
func publish(ctx context.Context, p queue.Publisher, ev queue.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("event publish failed", "type", ev.Type, "error", err)
	}
}

// track counts a transition attempt and logs infrastructure failures with
// their raw cause.
func track(ctx context.Context, transition string, err error) error {
	outcome := "ok"
	if err != nil {
		ae := apperr.As(err)
		outcome = ae.Kind.String()
		if ae.Kind == apperr.KindInfrastructure {
			logger.FromContext(ctx).Error("transition failed", "transition", transition, "error", ae.Err)
		}
	}
	obs.WorkflowTransitions.WithLabelValues(transition, outcome).Inc()
	return err
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// filter validates an optional exact-match filter value.
func filter(field, v string, allowed []string) error {
	if v == "" || oneOf(v, allowed) {
		return nil
	}
	return apperr.Validation(apperr.CodeInvalidValue, "Unknown "+field+" filter.")
}
