package service

import (
	"context"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// UserService backs the admin user pages.
type UserService struct {
	Users  UserStore
	Events queue.Publisher
}

func NewUserService(users UserStore, events queue.Publisher) *UserService {
	return &UserService{Users: users, Events: events}
}

// Add creates a user with an explicit role.
func (s *UserService) Add(ctx context.Context, actor *session.Session, u repository.NewUser) error {
	if u.Role == "" {
		u.Role = model.RoleGeneral
	}
	return createUser(ctx, s.Users, s.Events, actor.UserID, u)
}

// UpdateRole changes a user's role.  Sessions of that user pick the change
// up on their next request.
func (s *UserService) UpdateRole(ctx context.Context, actor *session.Session, userID uint64, role string) error {
	if userID == 0 {
		return apperr.Required("User")
	}
	if !model.ValidRole(role) {
		return apperr.Validation(apperr.CodeInvalidValue, "Unknown role.")
	}
	if err := track(ctx, "user.role", s.Users.UpdateRole(ctx, userID, role)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.UserRoleUpdated, actor.UserID, userID, "role", role))
	return nil
}

// List returns users newest first, optionally with one exact role.
func (s *UserService) List(ctx context.Context, role string) ([]model.UserSummary, error) {
	if err := filter("role", role, model.Roles); err != nil {
		return nil, err
	}
	return s.Users.List(ctx, role)
}
