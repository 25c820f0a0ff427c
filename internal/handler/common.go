package handler // handler defines http handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/access"
	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/logger"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// Flash is the message+severity pair shown above a page.  AlertClass is a
// Bootstrap alert modifier: success, info, warning or danger.
type Flash struct {
	Message    string `json:"message,omitempty"`
	AlertClass string `json:"alert_class,omitempty"`
	// HTTP status of the response, 0 means 200.
	status int
}

func success(msg string) Flash { return Flash{Message: msg, AlertClass: "success", status: http.StatusOK} }

func info(msg string) Flash { return Flash{Message: msg, AlertClass: "info", status: http.StatusOK} }

// flashFor converts an operation error into a user-facing message.
// Infrastructure failures are logged with their cause and shown with a
// generic message.
func flashFor(ctx context.Context, err error) Flash {
	ae := apperr.As(err)
	f := Flash{Message: ae.Message, status: apperr.HTTPStatus(ae)}
	switch ae.Kind {
	case apperr.KindDomain:
		f.AlertClass = "warning"
	case apperr.KindInfrastructure:
		f.AlertClass = "danger"
		f.Message = apperr.GenericMessage
		logger.FromContext(ctx).Error("request failed", "error", ae.Err)
	default:
		f.AlertClass = "danger"
	}
	return f
}

// UserView is the part of the session exposed to templates.
type UserView struct {
	ID    uint64 `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// PageView is the template context of an authenticated page.
type PageView struct {
	Page     string           `json:"page"`
	Template string           `json:"template"`
	User     UserView         `json:"user"`
	Nav      []access.NavItem `json:"nav"`
	Flash
	Data any `json:"data,omitempty"`
}

func render(c echo.Context, page access.Page, sess *session.Session, data any, fl Flash) error {
	status := fl.status
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, PageView{
		Page:     page.String(),
		Template: page.Template(),
		User:     UserView{ID: sess.UserID, Name: sess.Name, Email: sess.Email, Role: sess.Role},
		Nav:      access.NavMenu(sess.Role),
		Flash:    fl,
		Data:     data,
	})
}

// currentSession returns the session loaded by middleware.LoadSession.
func currentSession(c echo.Context) *session.Session {
	return middleware.CurrentSession(c)
}

func isPost(c echo.Context) bool { return c.Request().Method == http.MethodPost } // form submission

// bindForm binds and validates a submitted form into dst.
func bindForm(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		// Bind fails on type mismatches such as letters in a numeric id.
		return apperr.Validation(apperr.CodeInvalidValue, "Invalid form submission.")
	}
	return c.Validate(dst)
}
