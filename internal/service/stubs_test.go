package service

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/session"
)

type stubUsers struct {
	byID     map[uint64]model.User
	password map[string]string // email -> password
	created  []repository.NewUser
	options  []model.UserOption
	roles    []string
	err      error
}

func newStubUsers() *stubUsers {
	return &stubUsers{byID: map[uint64]model.User{}, password: map[string]string{}}
}

func (s *stubUsers) Authenticate(_ context.Context, email, password string) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	for _, u := range s.byID {
		if u.Email == email && s.password[email] == password {
			return u, nil
		}
	}
	return model.User{}, apperr.ErrNotFound
}

func (s *stubUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) Create(_ context.Context, u repository.NewUser) error {
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return apperr.ErrEmailExists
		}
	}
	id := uint64(len(s.byID) + 1)
	s.byID[id] = model.User{ID: id, Name: u.Name, Email: u.Email, Role: u.Role}
	s.password[u.Email] = u.Password
	s.created = append(s.created, u)
	return nil
}

func (s *stubUsers) UpdateRole(_ context.Context, id uint64, role string) error {
	u, ok := s.byID[id]
	if !ok {
		return apperr.ErrNotFound
	}
	u.Role = role
	s.byID[id] = u
	return nil
}

func (s *stubUsers) List(context.Context, string) ([]model.UserSummary, error) {
	return nil, nil
}

func (s *stubUsers) Options(_ context.Context, roles ...string) ([]model.UserOption, error) {
	s.roles = roles
	return s.options, nil
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]session.Session
	n    int
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]session.Session{}} }

func (m *memSessions) Create(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	s.ID = "sid-" + idString(uint64(m.n))
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[s.ID]; !ok {
		return session.ErrNotFound
	}
	m.data[s.ID] = *s
	return nil
}

func (m *memSessions) Destroy(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

type stubApps struct {
	apps      map[uint64]model.AdoptionApplication
	submitErr error
	approved  [][2]uint64
	rejected  map[uint64]string
	submitted int
}

func newStubApps() *stubApps {
	return &stubApps{apps: map[uint64]model.AdoptionApplication{}, rejected: map[uint64]string{}}
}

func (s *stubApps) Submit(_ context.Context, userID, petID uint64, reason string) error {
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted++
	id := uint64(len(s.apps) + 1)
	s.apps[id] = model.AdoptionApplication{ID: id, UserID: userID, PetID: petID, Status: model.AppPending, Reason: reason}
	return nil
}

func (s *stubApps) Approve(_ context.Context, appID, workerID uint64) error {
	a, ok := s.apps[appID]
	if !ok {
		return apperr.ErrNotFound
	}
	if a.Terminal() {
		return apperr.ErrApplicationClosed
	}
	a.Status = model.AppApproved
	a.ApprovedBy = &workerID
	s.apps[appID] = a
	s.approved = append(s.approved, [2]uint64{appID, workerID})
	return nil
}

func (s *stubApps) Reject(_ context.Context, appID uint64, reason string) error {
	a, ok := s.apps[appID]
	if !ok {
		return apperr.ErrNotFound
	}
	if a.Terminal() {
		return apperr.ErrApplicationClosed
	}
	a.Status = model.AppRejected
	a.Reason = reason
	s.apps[appID] = a
	s.rejected[appID] = reason
	return nil
}

func (s *stubApps) GetByID(_ context.Context, id uint64) (model.AdoptionApplication, error) {
	a, ok := s.apps[id]
	if !ok {
		return a, apperr.ErrNotFound
	}
	return a, nil
}

func (s *stubApps) List(context.Context, string) ([]model.ApplicationView, error) { return nil, nil }

func (s *stubApps) ListByUser(context.Context, uint64) ([]model.ApplicationView, error) {
	return nil, nil
}

type stubWorkers struct {
	workerIDs map[uint64]uint64 // user -> worker
	pending   map[uint64]*model.WorkerRequest
	requests  map[uint64]model.WorkerRequest
	users     *stubUsers
}

func newStubWorkers(users *stubUsers) *stubWorkers {
	return &stubWorkers{
		workerIDs: map[uint64]uint64{},
		pending:   map[uint64]*model.WorkerRequest{},
		requests:  map[uint64]model.WorkerRequest{},
		users:     users,
	}
}

func (s *stubWorkers) WorkerIDForUser(_ context.Context, userID uint64) (uint64, error) {
	id, ok := s.workerIDs[userID]
	if !ok {
		return 0, apperr.ErrNotFound
	}
	return id, nil
}

func (s *stubWorkers) PendingRequest(_ context.Context, userID uint64) (*model.WorkerRequest, error) {
	return s.pending[userID], nil
}

func (s *stubWorkers) CreateRequest(_ context.Context, userID uint64, message, role string) (uint64, error) {
	if s.pending[userID] != nil {
		return 0, apperr.ErrPendingRequest
	}
	id := uint64(len(s.requests) + 1)
	wr := model.WorkerRequest{ID: id, UserID: userID, Message: message, RequestedRole: role, Status: model.RequestPending}
	s.requests[id] = wr
	s.pending[userID] = &wr
	return id, nil
}

func (s *stubWorkers) ApproveRequest(ctx context.Context, requestID uint64) (model.WorkerRequest, error) {
	wr, ok := s.requests[requestID]
	if !ok {
		return wr, apperr.ErrNotFound
	}
	if wr.Status != model.RequestPending {
		return wr, apperr.ErrRequestClosed
	}
	if u, err := s.users.GetByID(ctx, wr.UserID); err == nil && model.Covers(u.Role, wr.RequestedRole) {
		return wr, apperr.ErrRoleSuperseded
	}
	if err := s.users.UpdateRole(ctx, wr.UserID, wr.RequestedRole); err != nil {
		return wr, err
	}
	wr.Status = model.RequestApproved
	s.requests[requestID] = wr
	delete(s.pending, wr.UserID)
	return wr, nil
}

func (s *stubWorkers) RejectRequest(_ context.Context, requestID uint64) error {
	wr, ok := s.requests[requestID]
	if !ok || wr.Status != model.RequestPending {
		return apperr.ErrRequestClosed
	}
	wr.Status = model.RequestRejected
	s.requests[requestID] = wr
	delete(s.pending, wr.UserID)
	return nil
}

func (s *stubWorkers) ListPending(context.Context) ([]model.WorkerRequestView, error) { return nil, nil }

type stubPayments struct {
	status  map[uint64]string
	methods map[uint64]string
	calls   int
}

func (s *stubPayments) Status(_ context.Context, id uint64) (string, error) {
	st, ok := s.status[id]
	if !ok {
		return "", apperr.ErrNotFound
	}
	return st, nil
}

func (s *stubPayments) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.calls++
	s.status[id] = status
	return nil
}

func (s *stubPayments) UpdateMethod(_ context.Context, id uint64, method string) error {
	s.calls++
	s.methods[id] = method
	return nil
}

func (s *stubPayments) List(context.Context, string) ([]model.PaymentView, error) { return nil, nil }

type stubPets struct {
	status    map[uint64]string
	available []model.PetOption
	types     []model.PetType
	created   []repository.NewPet
	deleted   []uint64
}

func (s *stubPets) List(context.Context) ([]model.PetView, error) { return nil, nil }

func (s *stubPets) Available(context.Context) ([]model.PetOption, error) { return s.available, nil }

func (s *stubPets) UpdateStatus(_ context.Context, id uint64, status string) error {
	current, ok := s.status[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if current == model.PetAdopted {
		return apperr.ErrPetAdopted
	}
	s.status[id] = status
	return nil
}

func (s *stubPets) Create(_ context.Context, p repository.NewPet) (uint64, error) {
	id := uint64(len(s.status) + 1)
	s.status[id] = model.PetAvailable
	s.created = append(s.created, p)
	return id, nil
}

func (s *stubPets) Delete(_ context.Context, id uint64) error {
	current, ok := s.status[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if current == model.PetAdopted {
		return apperr.ErrReferenced
	}
	delete(s.status, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubPets) CreateType(_ context.Context, species, breed string) (uint64, error) {
	for _, t := range s.types {
		if t.Species == species && t.Breed == breed {
			return t.ID, nil
		}
	}
	id := uint64(len(s.types) + 1)
	s.types = append(s.types, model.PetType{ID: id, Species: species, Breed: breed})
	return id, nil
}

func (s *stubPets) Types(context.Context) ([]model.PetType, error)    { return s.types, nil }
func (s *stubPets) Shelters(context.Context) ([]model.Shelter, error) { return nil, nil }

type stubOverview struct {
	mappingCalls int
}

func (s *stubOverview) AvailablePets(context.Context) ([]model.PetView, error) {
	return []model.PetView{{Pet: model.Pet{ID: 5, Name: "Rex", Status: model.PetAvailable}}}, nil
}

func (s *stubOverview) AdoptionSummary(context.Context) ([]model.StatusCount, error) {
	return []model.StatusCount{{Status: model.AppPending, Count: 3}}, nil
}

func (s *stubOverview) PopularPets(context.Context) ([]model.PopularPet, error) {
	return []model.PopularPet{{PetID: 5, Name: "Rex", Applications: 3}}, nil
}

func (s *stubOverview) WorkerMappings(context.Context) ([]model.WorkerMapping, error) {
	s.mappingCalls++
	return []model.WorkerMapping{{ShelterWorker: model.ShelterWorker{WorkerID: 3, UserID: 8, ShelterID: 1}, Name: "Wes"}}, nil
}

type recordingPublisher struct {
	events []queue.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

var errDown = errors.New("dial tcp 10.0.0.5:3306: connection refused")
