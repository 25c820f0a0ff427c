package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/access"
	"github.com/iliyamo/pet-shelter/internal/middleware"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/service"
	"github.com/iliyamo/pet-shelter/internal/session"
)

type ApplicationWorkflow interface {
	Submit(ctx context.Context, actor *session.Session, userID, petID uint64, reason string) error
	Approve(ctx context.Context, actor *session.Session, appID, workerID uint64) (uint64, error)
	Reject(ctx context.Context, actor *session.Session, appID uint64, reason string) error
	Withdraw(ctx context.Context, actor *session.Session, appID uint64) error
	List(ctx context.Context, status string) ([]model.ApplicationView, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.ApplicationView, error)
	WorkerIDFor(ctx context.Context, userID uint64) (uint64, bool, error)
	FormOptions(ctx context.Context, actor *session.Session) (service.ApplicationForm, error)
}

type PaymentWorkflow interface {
	UpdateStatus(ctx context.Context, actor *session.Session, payID uint64, status string) error
	UpdateMethod(ctx context.Context, actor *session.Session, payID uint64, method string) error
	List(ctx context.Context, status string) ([]model.PaymentView, error)
}

type WorkerRequestWorkflow interface {
	Status(ctx context.Context, userID uint64) (*model.WorkerRequest, error)
	Request(ctx context.Context, actor *session.Session, role, message string) (uint64, error)
	Approve(ctx context.Context, actor *session.Session, requestID uint64) (model.WorkerRequest, error)
	Reject(ctx context.Context, actor *session.Session, requestID uint64) error
	ListPending(ctx context.Context) ([]model.WorkerRequestView, error)
}

type UserAdmin interface {
	Add(ctx context.Context, actor *session.Session, u repository.NewUser) error
	UpdateRole(ctx context.Context, actor *session.Session, userID uint64, role string) error
	List(ctx context.Context, role string) ([]model.UserSummary, error)
}

type PetCatalog interface {
	List(ctx context.Context) ([]model.PetView, error)
	FormOptions(ctx context.Context) (service.RegisterForm, error)
	Register(ctx context.Context, actor *session.Session, p repository.NewPet, newSpecies string) (uint64, error)
	UpdateStatus(ctx context.Context, actor *session.Session, petID uint64, status string) error
	Delete(ctx context.Context, actor *session.Session, petID uint64) error
	Overview(ctx context.Context, actor *session.Session) (model.Overview, error)
}

// pageFunc serves one page.  A returned error means the page data could
// not be loaded; action outcomes are reported through the Flash.
type pageFunc func(c echo.Context, sess *session.Session) (any, Flash, error)

// PageHandler dispatches /page/:page_name to the page implementations.
type PageHandler struct {
	Apps     ApplicationWorkflow
	Payments PaymentWorkflow
	Workers  WorkerRequestWorkflow
	Users    UserAdmin
	Pets     PetCatalog

	pages map[access.Page]pageFunc
}

// NewPageHandler wires every page.  It panics if a dependency is nil.
func NewPageHandler(apps ApplicationWorkflow, payments PaymentWorkflow, workers WorkerRequestWorkflow, users UserAdmin, pets PetCatalog) *PageHandler {
	if apps == nil || payments == nil || workers == nil || users == nil || pets == nil {
		panic("nil service passed to NewPageHandler")
	}
	h := &PageHandler{Apps: apps, Payments: payments, Workers: workers, Users: users, Pets: pets}
	h.pages = map[access.Page]pageFunc{
		access.Dashboard:              h.dashboard,
		access.ViewPets:               h.viewPets,
		access.RegisterPet:            h.registerPet,
		access.ManagePets:             h.managePets,
		access.AddApplication:         h.addApplication,
		access.ManageApplications:     h.manageApplications,
		access.ManageMyApplications:   h.manageMyApplications,
		access.ManagePayments:         h.managePayments,
		access.AddUser:                h.addUser,
		access.ManageUsers:            h.manageUsers,
		access.RequestWorkerRole:      h.requestWorkerRole,
		access.ViewWorkerApplications: h.viewWorkerApplications,
		access.ViewAllData:            h.viewAllData,
		// Analytics is registered without an implementation and renders
		// the placeholder.
	}
	return h
}

// Dispatch serves the page resolved by middleware.RequirePageAccess.
func (h *PageHandler) Dispatch(c echo.Context) error {
	sess := currentSession(c)
	page, ok := c.Get(middleware.CtxPage).(access.Page)
	if sess == nil || !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	fn, implemented := h.pages[page]
	if !implemented {
		return render(c, page, sess, echo.Map{"placeholder": true}, info(page.Label()+" is not available yet."))
	}

	data, fl, err := fn(c, sess)
	if err != nil {
		return render(c, page, sess, nil, flashFor(c.Request().Context(), err))
	}
	if fl.Message == "" {
		if changed, _ := c.Get(middleware.CtxRoleChanged).(bool); changed {
			fl = info("Your role has been updated to " + sess.Role + ".")
		}
	}
	return render(c, page, sess, data, fl)
}

// outcome turns the result of a form action into a flash.
func outcome(ctx context.Context, err error, ok string) Flash {
	if err != nil {
		return flashFor(ctx, err)
	}
	return success(ok)
}
