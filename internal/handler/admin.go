package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/service"
	"github.com/iliyamo/pet-shelter/internal/session"
)

type addUserForm struct {
	Name     string `form:"name" label:"Name" validate:"required,max=100"`
	Email    string `form:"email" label:"Email" validate:"required,email,max=255"`
	Password string `form:"password" label:"Password" validate:"required,min=6"`
	Phone    string `form:"phone" label:"Phone" validate:"omitempty,max=20"`
	Role     string `form:"role" label:"Role" validate:"required,oneof=admin shelter_worker adopter general"`
}

func (h *PageHandler) addUser(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f addUserForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else {
			err := h.Users.Add(ctx, sess, repository.NewUser{
				Name: f.Name, Email: f.Email, Password: f.Password, Phone: f.Phone, Role: f.Role,
			})
			fl = outcome(ctx, err, "User "+f.Name+" added successfully.")
		}
	}
	return echo.Map{"roles": model.Roles}, fl, nil
}

type roleForm struct {
	UserID uint64 `form:"user_id" label:"User" validate:"required"`
	Role   string `form:"role" label:"Role" validate:"required"`
}

func (h *PageHandler) manageUsers(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f roleForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else {
			fl = outcome(ctx, h.Users.UpdateRole(ctx, sess, f.UserID, f.Role),
				fmt.Sprintf("User #%d is now %s.", f.UserID, f.Role))
		}
	}
	role := c.QueryParam("role")
	users, err := h.Users.List(ctx, role)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{"users": users, "roles": model.Roles, "role_filter": role}, fl, nil
}

type roleRequestForm struct {
	Role    string `form:"requested_role"`
	Message string `form:"message" label:"Message" validate:"max=500"`
}

// requestWorkerRole shows the caller's pending upgrade request and files
// new ones.
func (h *PageHandler) requestWorkerRole(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if sess.Role == model.RoleAdmin {
		fl = info("You are already an admin. No upgrade needed.")
	} else if isPost(c) {
		var f roleRequestForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else {
			_, err := h.Workers.Request(ctx, sess, f.Role, f.Message)
			fl = outcome(ctx, err, "Your request has been submitted. An admin will review it soon.")
		}
	}
	pending, err := h.Workers.Status(ctx, sess.UserID)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{
		"pending":          pending,
		"current_role":     sess.Role,
		"requestable":      service.RequestableRoles,
		"already_upgraded": sess.Role == model.RoleAdmin,
	}, fl, nil
}

type reviewForm struct {
	Action    string `form:"action" label:"Action" validate:"required,oneof=approve reject"`
	RequestID uint64 `form:"request_id" label:"Request" validate:"required"`
}

// viewWorkerApplications lets an admin approve or reject role requests.
func (h *PageHandler) viewWorkerApplications(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f reviewForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else if f.Action == "approve" {
			wr, err := h.Workers.Approve(ctx, sess, f.RequestID)
			fl = outcome(ctx, err, fmt.Sprintf("Request #%d approved; user #%d is now %s.", f.RequestID, wr.UserID, wr.RequestedRole))
		} else {
			fl = outcome(ctx, h.Workers.Reject(ctx, sess, f.RequestID), fmt.Sprintf("Request #%d rejected.", f.RequestID))
		}
	}
	requests, err := h.Workers.ListPending(ctx)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{"requests": requests}, fl, nil
}
