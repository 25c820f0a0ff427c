package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// applicationActionForm is posted by the approve and reject buttons of
// the manage applications table.
type applicationActionForm struct {
	Action   string `form:"action" label:"Action" validate:"required,oneof=approve reject"`
	AppID    uint64 `form:"application_id" label:"Application" validate:"required"`
	WorkerID uint64 `form:"worker_id"` // optional; derived from the approver's profile when 0
	Reason   string `form:"reason"`    // required for reject, checked by the service
}

// manageApplications lists every application and handles approve/reject.
func (h *PageHandler) manageApplications(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f applicationActionForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else if f.Action == "approve" {
			used, err := h.Apps.Approve(ctx, sess, f.AppID, f.WorkerID)
			fl = outcome(ctx, err, fmt.Sprintf("Application #%d approved by worker #%d.", f.AppID, used))
		} else {
			err := h.Apps.Reject(ctx, sess, f.AppID, f.Reason)
			fl = outcome(ctx, err, fmt.Sprintf("Application #%d rejected.", f.AppID))
		}
	}

	status := c.QueryParam("status") // exact match, empty lists all
	apps, err := h.Apps.List(ctx, status)
	if err != nil {
		return nil, fl, err
	}
	data := echo.Map{
		"applications":  apps,
		"status_filter": status,
		"statuses":      model.ApplicationStatuses,
	}
	// Approvers with a worker profile do not need to type their id.
	workerID, ok, err := h.Apps.WorkerIDFor(ctx, sess.UserID)
	if err != nil {
		return nil, fl, err
	}
	if ok {
		data["worker_id"] = workerID
	}
	return data, fl, nil
}

type withdrawForm struct {
	AppID uint64 `form:"application_id" label:"Application" validate:"required"`
}

// manageMyApplications lists the caller's own applications and handles
// withdrawal.
func (h *PageHandler) manageMyApplications(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f withdrawForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else {
			fl = outcome(ctx, h.Apps.Withdraw(ctx, sess, f.AppID), fmt.Sprintf("Application #%d withdrawn.", f.AppID))
		}
	}
	apps, err := h.Apps.ListForUser(ctx, sess.UserID)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{"applications": apps}, fl, nil
}

type submitForm struct {
	UserID uint64 `form:"user_id"`
	PetID  uint64 `form:"pet_id" label:"Pet" validate:"required"`
	Reason string `form:"reason" label:"Reason" validate:"max=1000"`
}

// addApplication files a new application.
func (h *PageHandler) addApplication(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f submitForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else {
			fl = outcome(ctx, h.Apps.Submit(ctx, sess, f.UserID, f.PetID, f.Reason), "Adoption application submitted successfully!")
		}
	}
	form, err := h.Apps.FormOptions(ctx, sess)
	if err != nil {
		return nil, fl, err
	}
	return form, fl, nil
}

type paymentActionForm struct {
	Action string `form:"action" label:"Action" validate:"required,oneof=update_status update_method"`
	PayID  uint64 `form:"payment_id" label:"Payment" validate:"required"`
	Status string `form:"status"`
	Method string `form:"method"`
}

// managePayments lists payments and edits status or method of open ones.
func (h *PageHandler) managePayments(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f paymentActionForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else if f.Action == "update_status" {
			fl = outcome(ctx, h.Payments.UpdateStatus(ctx, sess, f.PayID, f.Status),
				fmt.Sprintf("Payment #%d status updated to %s.", f.PayID, f.Status))
		} else {
			fl = outcome(ctx, h.Payments.UpdateMethod(ctx, sess, f.PayID, f.Method),
				fmt.Sprintf("Payment #%d method updated to %s.", f.PayID, f.Method))
		}
	}
	status := c.QueryParam("status")
	payments, err := h.Payments.List(ctx, status)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{
		"payments":      payments,
		"status_filter": status,
		"statuses":      model.PaymentStatuses,
		"methods":       model.PaymentMethods,
	}, fl, nil
}
