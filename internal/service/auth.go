package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// AuthService verifies credentials, manages sessions and keeps the cached
// role in each session in sync with the User row.
type AuthService struct {
	Users    UserStore
	Sessions session.Store
	Events   queue.Publisher
}

func NewAuthService(users UserStore, sessions session.Store, events queue.Publisher) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Events: events}
}

// Login checks email and password and opens a session.  An unknown email
// and a wrong password both yield apperr.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.Required("Email")
	}
	if password == "" {
		return nil, apperr.Required("Password")
	}
	u, err := s.Users.Authenticate(ctx, email, password)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	sess := &session.Session{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, apperr.Infrastructure(err)
	}
	logger.FromContext(ctx).Info("user logged in", "user_id", u.ID, "role", u.Role)
	return sess, nil
}

// Logout destroys the session.  An unknown id is not an error.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if err := s.Sessions.Destroy(ctx, sid); err != nil {
		return apperr.Infrastructure(err)
	}
	return nil
}

// Session loads the session bound to sid.  A missing or expired session
// is reported as session.ErrNotFound.
func (s *AuthService) Session(ctx context.Context, sid string) (*session.Session, error) {
	sess, err := s.Sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Infrastructure(err)
	}
	return sess, nil
}

// Refresh re-reads the User row behind sess and overwrites the cached
// name, email and role.  It reports whether the role changed.  When the
// user no longer exists the session is destroyed and session.ErrNotFound
// is returned.
func (s *AuthService) Refresh(ctx context.Context, sess *session.Session) (bool, error) {
	u, err := s.Users.GetByID(ctx, sess.UserID)
	if errors.Is(err, apperr.ErrNotFound) {
		_ = s.Sessions.Destroy(ctx, sess.ID)
		return false, session.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	changed := u.Role != sess.Role
	if !changed && u.Name == sess.Name && u.Email == sess.Email {
		return false, nil
	}
	sess.Name, sess.Email, sess.Role = u.Name, u.Email, u.Role
	if err := s.Sessions.Save(ctx, sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return false, session.ErrNotFound
		}
		return false, apperr.Infrastructure(err)
	}
	if changed {
		logger.FromContext(ctx).Info("session role refreshed", "user_id", u.ID, "role", u.Role)
	}
	return changed, nil
}

// RegisterInput is the self-registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register creates a general user.  The role is never taken from input.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	return createUser(ctx, s.Users, s.Events, 0, repository.NewUser{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Phone:    in.Phone,
		Role:     model.RoleGeneral,
	})
}

func createUser(ctx context.Context, users UserStore, events queue.Publisher, actorID uint64, u repository.NewUser) error {
	switch {
	case strings.TrimSpace(u.Name) == "":
		return apperr.Required("Name")
	case strings.TrimSpace(u.Email) == "":
		return apperr.Required("Email")
	case u.Password == "":
		return apperr.Required("Password")
	case !model.ValidRole(u.Role):
		return apperr.Validation(apperr.CodeInvalidValue, "Unknown role.")
	}
	if err := track(ctx, "user.create", users.Create(ctx, u)); err != nil {
		return err
	}
	publish(ctx, events, queue.NewEvent(queue.UserRegistered, actorID, 0,
		"email", strings.ToLower(strings.TrimSpace(u.Email)), "role", u.Role))
	return nil
}

func idString(id uint64) string { return strconv.FormatUint(id, 10) }
