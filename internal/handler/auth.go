package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/service"
	"github.com/iliyamo/pet-shelter/internal/session"
	"github.com/iliyamo/pet-shelter/internal/utils"
)

// Authenticator is the service behind the login, logout and register pages.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*session.Session, error)
	Logout(ctx context.Context, sid string) error
	Register(ctx context.Context, in service.RegisterInput) error
}

// AuthHandler bundles dependencies for the public auth pages.
type AuthHandler struct {
	Auth         Authenticator
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

func NewAuthHandler(auth Authenticator, secret string, ttl time.Duration, secure bool) *AuthHandler {
	return &AuthHandler{Auth: auth, Secret: secret, TTL: ttl, CookieSecure: secure}
}

// ----- forms -----

type loginForm struct {
	Email    string `form:"email" label:"Email" validate:"required,email"`
	Password string `form:"password" label:"Password" validate:"required"`
}

type registerForm struct {
	Name     string `form:"name" label:"Name" validate:"required,max=100"`
	Email    string `form:"email" label:"Email" validate:"required,email,max=255"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
	Phone    string `form:"phone" label:"Phone" validate:"omitempty,max=20"`
}

// publicView is the template context of the unauthenticated pages.
type publicView struct {
	Page     string `json:"page"`
	Template string `json:"template"`
	Flash
}

func renderPublic(c echo.Context, page string, fl Flash) error {
	status := fl.status
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, publicView{Page: page, Template: page + ".html", Flash: fl})
}

// Index sends the browser to the dashboard or the login page.
func (h *AuthHandler) Index(c echo.Context) error {
	if currentSession(c) != nil {
		return c.Redirect(http.StatusFound, "/page/dashboard")
	}
	return c.Redirect(http.StatusFound, "/login")
}

// LoginPage serves the login form.  Logged-in users go to the dashboard.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if currentSession(c) != nil {
		return c.Redirect(http.StatusFound, "/page/dashboard")
	}
	var fl Flash
	if c.QueryParam("registered") == "1" {
		fl = success("Registration successful. Please log in.")
	}
	return renderPublic(c, "login", fl)
}

// Login checks the credentials, opens a session and sets the signed cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var f loginForm
	if err := bindForm(c, &f); err != nil {
		return renderPublic(c, "login", flashFor(c.Request().Context(), err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Auth.Login(ctx, f.Email, f.Password)
	if err != nil {
		return renderPublic(c, "login", flashFor(ctx, err))
	}
	tok, err := utils.NewSessionToken(h.Secret, sess.ID, h.TTL)
	if err != nil {
		_ = h.Auth.Logout(ctx, sess.ID)
		return renderPublic(c, "login", flashFor(ctx, apperr.Infrastructure(err)))
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/page/dashboard")
}

// Logout destroys the session unconditionally and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := currentSession(c); sess != nil {
		if err := h.Auth.Logout(c.Request().Context(), sess.ID); err != nil {
			logger.FromContext(c.Request().Context()).Error("logout failed", "error", err)
		}
	}
	middleware.ClearSessionCookie(c)
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) RegisterPage(c echo.Context) error {
	if currentSession(c) != nil {
		return c.Redirect(http.StatusFound, "/page/dashboard")
	}
	return renderPublic(c, "register", Flash{})
}

// Register creates a general account and sends the user to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var f registerForm
	if err := bindForm(c, &f); err != nil {
		return renderPublic(c, "register", flashFor(c.Request().Context(), err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Auth.Register(ctx, service.RegisterInput{
		Name: f.Name, Email: f.Email, Password: f.Password, Phone: f.Phone,
	})
	if err != nil {
		return renderPublic(c, "register", flashFor(ctx, err))
	}
	return c.Redirect(http.StatusFound, "/login?registered=1")
}
