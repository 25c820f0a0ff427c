package service

import (
	"context"
	"strings"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/queue"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/session"
)

// PetService backs the pet pages and the read-only data overview.
type PetService struct {
	Pets    PetStore
	Reports OverviewStore
	Events  queue.Publisher
}

func NewPetService(pets PetStore, reports OverviewStore, events queue.Publisher) *PetService {
	return &PetService{Pets: pets, Reports: reports, Events: events}
}

func (s *PetService) List(ctx context.Context) ([]model.PetView, error) {
	return s.Pets.List(ctx)
}

// RegisterForm holds the dropdown options of the registration page.
type RegisterForm struct {
	Types    []model.PetType `json:"pet_types"`
	Shelters []model.Shelter `json:"shelters"`
}

func (s *PetService) FormOptions(ctx context.Context) (RegisterForm, error) {
	var f RegisterForm
	types, err := s.Pets.Types(ctx)
	if err != nil {
		return f, err
	}
	shelters, err := s.Pets.Shelters(ctx)
	if err != nil {
		return f, err
	}
	f.Types, f.Shelters = types, shelters
	return f, nil
}

// SplitSpecies reads "Species - Breed" as typed into the new species field.
// The breed defaults to model.DefaultBreed.
func SplitSpecies(v string) (species, breed string) {
	parts := strings.SplitN(v, "-", 2)
	species = strings.TrimSpace(parts[0])
	breed = model.DefaultBreed
	if len(parts) == 2 {
		if b := strings.TrimSpace(parts[1]); b != "" {
			breed = b
		}
	}
	return species, breed
}

// Register adds an Available pet.  A non-empty newSpecies registers that
// pet type first and replaces p.TypeID.
func (s *PetService) Register(ctx context.Context, actor *session.Session, p repository.NewPet, newSpecies string) (uint64, error) {
	p.Name = strings.TrimSpace(p.Name)
	species, breed := SplitSpecies(newSpecies)
	switch {
	case p.Name == "":
		return 0, apperr.Required("Name")
	case species == "" && p.TypeID == 0:
		return 0, apperr.Required("Pet type")
	case p.ShelterID == 0:
		return 0, apperr.Required("Shelter")
	case p.Age < 0:
		return 0, apperr.Validation(apperr.CodeInvalidValue, "Age cannot be negative.")
	}
	if species != "" {
		typeID, err := s.Pets.CreateType(ctx, species, breed)
		if err := track(ctx, "pet_type.create", err); err != nil {
			return 0, err
		}
		p.TypeID = typeID
		publish(ctx, s.Events, queue.NewEvent(queue.PetTypeCreated, actor.UserID, typeID,
			"species", species, "breed", breed))
	}
	id, err := s.Pets.Create(ctx, p)
	if err := track(ctx, "pet.register", err); err != nil {
		return 0, err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.PetRegistered, actor.UserID, id, "name", p.Name))
	return id, nil
}

// UpdateStatus sets a manual status.  Adopted is reachable only through
// application approval, and Adopted pets are frozen.
func (s *PetService) UpdateStatus(ctx context.Context, actor *session.Session, petID uint64, status string) error {
	if petID == 0 {
		return apperr.Required("Pet")
	}
	if !oneOf(status, model.PetStatuses) {
		return apperr.Validation(apperr.CodeInvalidValue, "Unknown pet status.")
	}
	if err := track(ctx, "pet.status", s.Pets.UpdateStatus(ctx, petID, status)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.PetStatusUpdated, actor.UserID, petID, "status", status))
	return nil
}

// Delete removes a pet that no application refers to.
func (s *PetService) Delete(ctx context.Context, actor *session.Session, petID uint64) error {
	if petID == 0 {
		return apperr.Required("Pet")
	}
	if err := track(ctx, "pet.delete", s.Pets.Delete(ctx, petID)); err != nil {
		return err
	}
	publish(ctx, s.Events, queue.NewEvent(queue.PetDeleted, actor.UserID, petID))
	return nil
}

// Overview collects the view all data snapshot.  Worker mappings are only
// loaded for admins.
func (s *PetService) Overview(ctx context.Context, actor *session.Session) (model.Overview, error) {
	var o model.Overview
	var err error
	if o.AvailablePets, err = s.Reports.AvailablePets(ctx); err != nil {
		return o, err
	}
	if o.AdoptionSummary, err = s.Reports.AdoptionSummary(ctx); err != nil {
		return o, err
	}
	if o.Shelters, err = s.Pets.Shelters(ctx); err != nil {
		return o, err
	}
	if o.PetTypes, err = s.Pets.Types(ctx); err != nil {
		return o, err
	}
	if o.PopularPets, err = s.Reports.PopularPets(ctx); err != nil {
		return o, err
	}
	if actor.Role == model.RoleAdmin {
		if o.WorkerMappings, err = s.Reports.WorkerMappings(ctx); err != nil {
			return o, err
		}
	}
	return o, nil
}
