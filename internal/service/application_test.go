package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/session"
)

type appFixture struct {
	svc     *ApplicationService
	apps    *stubApps
	workers *stubWorkers
	users   *stubUsers
	pets    *stubPets
	pub     *recordingPublisher
}

func newAppFixture() appFixture {
	users := newStubUsers()
	users.byID[1] = model.User{ID: 1, Name: "Root", Role: model.RoleAdmin}
	users.byID[2] = model.User{ID: 2, Name: "Ann", Role: model.RoleAdopter}
	users.byID[4] = model.User{ID: 4, Name: "Bo", Role: model.RoleGeneral}
	users.byID[8] = model.User{ID: 8, Name: "Wes", Role: model.RoleShelterWorker}
	f := appFixture{
		apps:    newStubApps(),
		workers: newStubWorkers(users),
		users:   users,
		pets:    &stubPets{status: map[uint64]string{}},
		pub:     &recordingPublisher{},
	}
	f.svc = NewApplicationService(f.apps, f.workers, f.users, f.pets, f.pub)
	return f
}

var (
	adopter = &session.Session{UserID: 2, Name: "Ann", Role: model.RoleAdopter}
	worker  = &session.Session{UserID: 8, Name: "Wes", Role: model.RoleShelterWorker}
	admin   = &session.Session{UserID: 1, Name: "Root", Role: model.RoleAdmin}
)

func TestSubmitThenApprove(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, " good home "))
	app := f.apps.apps[1]
	assert.Equal(t, model.AppPending, app.Status)
	assert.Equal(t, uint64(2), app.UserID)
	assert.Equal(t, "good home", app.Reason)

	used, err := f.svc.Approve(ctx, worker, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), used)
	assert.Equal(t, model.AppApproved, f.apps.apps[1].Status)
	assert.Equal(t, []string{queue.ApplicationSubmitted, queue.ApplicationApproved}, f.pub.types())
}

func TestSubmitApplicantCannotFileForOthers(t *testing.T) {
	f := newAppFixture()
	require.NoError(t, f.svc.Submit(context.Background(), adopter, 99, 5, ""))
	assert.Equal(t, adopter.UserID, f.apps.apps[1].UserID)
}

func TestSubmitStaffFilesOnlyForApplicants(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	err := f.svc.Submit(ctx, worker, 1, 5, "for the boss")
	assert.ErrorIs(t, err, apperr.ErrApplicantOnly)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	err = f.svc.Submit(ctx, admin, 8, 5, "")
	assert.ErrorIs(t, err, apperr.ErrApplicantOnly)
	err = f.svc.Submit(ctx, worker, worker.UserID, 5, "")
	assert.ErrorIs(t, err, apperr.ErrApplicantOnly)
	err = f.svc.Submit(ctx, worker, 404, 5, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, f.apps.submitted)
	assert.Empty(t, f.pub.events)

	require.NoError(t, f.svc.Submit(ctx, worker, 4, 5, ""))
	assert.Equal(t, uint64(4), f.apps.apps[1].UserID)
}

func TestSubmitMissingFields(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()

	err := f.svc.Submit(ctx, worker, 0, 5, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	err = f.svc.Submit(ctx, adopter, 0, 0, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Zero(t, f.apps.submitted)
}

func TestSubmitAdoptedPet(t *testing.T) {
	f := newAppFixture()
	f.apps.submitErr = apperr.ErrAlreadyAdopted

	err := f.svc.Submit(context.Background(), adopter, 0, 5, "good home")
	assert.True(t, errors.Is(err, apperr.ErrAlreadyAdopted))
	assert.Empty(t, f.apps.apps)
	assert.Empty(t, f.pub.events)
}

func TestApproveResolvesWorkerFromProfile(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	f.workers.workerIDs[worker.UserID] = 3
	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, ""))

	used, err := f.svc.Approve(ctx, worker, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), used)
	assert.Equal(t, [][2]uint64{{1, 3}}, f.apps.approved)
}

func TestApproveWithoutWorkerIdentity(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, ""))

	_, err := f.svc.Approve(ctx, admin, 1, 0)
	assert.True(t, errors.Is(err, apperr.ErrWorkerIDRequired))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, model.AppPending, f.apps.apps[1].Status)
}

func TestTerminalApplicationsStayTerminal(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, ""))
	require.NoError(t, f.svc.Reject(ctx, worker, 1, "no yard"))

	_, err := f.svc.Approve(ctx, worker, 1, 3)
	assert.True(t, errors.Is(err, apperr.ErrApplicationClosed))
	err = f.svc.Reject(ctx, worker, 1, "again")
	assert.True(t, errors.Is(err, apperr.ErrApplicationClosed))
	assert.Equal(t, "no yard", f.apps.apps[1].Reason)
}

func TestRejectRequiresReason(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, ""))

	err := f.svc.Reject(ctx, worker, 1, "   ")
	assert.True(t, errors.Is(err, apperr.ErrReasonRequired))
	assert.Empty(t, f.apps.rejected)
}

func TestWithdraw(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Submit(ctx, adopter, 0, 5, ""))

	other := &session.Session{UserID: 77, Role: model.RoleGeneral}
	assert.True(t, errors.Is(f.svc.Withdraw(ctx, other, 1), apperr.ErrNotOwner))
	assert.True(t, errors.Is(f.svc.Withdraw(ctx, worker, 1), apperr.ErrNotOwner))

	require.NoError(t, f.svc.Withdraw(ctx, adopter, 1))
	assert.Equal(t, model.WithdrawReason, f.apps.rejected[1])
	assert.Equal(t, model.AppRejected, f.apps.apps[1].Status)

	assert.True(t, errors.Is(f.svc.Withdraw(ctx, adopter, 1), apperr.ErrApplicationClosed))
}

func TestListRejectsUnknownFilter(t *testing.T) {
	f := newAppFixture()
	_, err := f.svc.List(context.Background(), "pend")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.svc.List(context.Background(), model.AppPending)
	assert.NoError(t, err)
}

func TestFormOptionsRestrictsApplicants(t *testing.T) {
	f := newAppFixture()
	ctx := context.Background()
	f.users.options = []model.UserOption{{ID: 2, Name: "Ann"}, {ID: 4, Name: "Bo"}}
	f.pets.available = []model.PetOption{{ID: 5, Name: "Rex"}}

	form, err := f.svc.FormOptions(ctx, adopter)
	require.NoError(t, err)
	assert.Equal(t, []model.UserOption{{ID: 2, Name: "Ann"}}, form.Users)
	assert.Len(t, form.Pets, 1)

	form, err = f.svc.FormOptions(ctx, worker)
	require.NoError(t, err)
	assert.Len(t, form.Users, 2)
	assert.Equal(t, []string{model.RoleAdopter, model.RoleGeneral}, f.users.roles)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newAppFixture()
	f.pub.err = errors.New("broker down")
	require.NoError(t, f.svc.Submit(context.Background(), adopter, 0, 5, ""))
	assert.Len(t, f.pub.events, 1)
}
