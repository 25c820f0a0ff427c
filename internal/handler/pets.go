package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pet-shelter/internal/access"
	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
	"github.com/iliyamo/pet-shelter/internal/repository"
	"github.com/iliyamo/pet-shelter/internal/session"
)

func (h *PageHandler) dashboard(c echo.Context, sess *session.Session) (any, Flash, error) {
	// Shortcuts are the nav entries minus the dashboard itself.
	shortcuts := access.NavMenu(sess.Role)
	if len(shortcuts) > 0 {
		shortcuts = shortcuts[1:]
	}
	return echo.Map{
		"welcome":   "Welcome, " + sess.Name,
		"role":      sess.Role,
		"shortcuts": shortcuts,
	}, Flash{}, nil
}

func (h *PageHandler) viewPets(c echo.Context, _ *session.Session) (any, Flash, error) {
	pets, err := h.Pets.List(c.Request().Context())
	if err != nil {
		return nil, Flash{}, err
	}
	return echo.Map{"pets": pets}, Flash{}, nil
}

// otherType is the type_id option that registers a new species.
const otherType = "other"

type registerPetForm struct {
	Name       string `form:"name" label:"Name" validate:"required,max=100"`
	Age        int    `form:"age" label:"Age" validate:"min=0,max=50"`
	Gender     string `form:"gender" label:"Gender" validate:"required,oneof=Male Female"`
	TypeID     string `form:"type_id" label:"Pet type" validate:"required"` // id, or "other"
	NewSpecies string `form:"new_species" label:"New species" validate:"max=121"`
	ShelterID  uint64 `form:"shelter_id" label:"Shelter" validate:"required"`
}

// petType resolves the type selection.  "other" needs a new species name;
// anything else must be a numeric id.
func (f registerPetForm) petType() (typeID uint64, newSpecies string, err error) {
	if f.TypeID == otherType {
		newSpecies = strings.TrimSpace(f.NewSpecies)
		if newSpecies == "" {
			return 0, "", apperr.Validation(apperr.CodeMissingField,
				"You selected 'Other' for Species/Type. Please provide the new species name.")
		}
		return 0, newSpecies, nil
	}
	typeID, err = strconv.ParseUint(f.TypeID, 10, 64)
	if err != nil || typeID == 0 {
		return 0, "", apperr.Validation(apperr.CodeInvalidValue, "Invalid form submission.")
	}
	return typeID, "", nil
}

func (h *PageHandler) registerPet(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f registerPetForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else if typeID, species, err := f.petType(); err != nil {
			fl = flashFor(ctx, err)
		} else {
			id, err := h.Pets.Register(ctx, sess, repository.NewPet{
				Name: f.Name, Age: f.Age, Gender: f.Gender, TypeID: typeID, ShelterID: f.ShelterID,
			}, species)
			fl = outcome(ctx, err, fmt.Sprintf("Pet %s registered with id #%d.", f.Name, id))
		}
	}
	// Loaded after the POST so a new species shows up right away.
	form, err := h.Pets.FormOptions(ctx)
	if err != nil {
		return nil, fl, err
	}
	return form, fl, nil
}

type petActionForm struct {
	Action string `form:"action" label:"Action" validate:"omitempty,oneof=update_status delete"`
	PetID  uint64 `form:"pet_id" label:"Pet" validate:"required"`
	Status string `form:"status" label:"Status"`
}

// managePets edits the manual pet status or deletes a pet.  Adopted pets
// are read-only and pets with applications cannot be deleted.
func (h *PageHandler) managePets(c echo.Context, sess *session.Session) (any, Flash, error) {
	ctx := c.Request().Context()
	var fl Flash
	if isPost(c) {
		var f petActionForm
		if err := bindForm(c, &f); err != nil {
			fl = flashFor(ctx, err)
		} else if f.Action == "delete" {
			fl = outcome(ctx, h.Pets.Delete(ctx, sess, f.PetID), fmt.Sprintf("Pet #%d deleted.", f.PetID))
		} else {
			fl = outcome(ctx, h.Pets.UpdateStatus(ctx, sess, f.PetID, f.Status),
				fmt.Sprintf("Pet #%d status updated to %s.", f.PetID, f.Status))
		}
	}
	pets, err := h.Pets.List(ctx)
	if err != nil {
		return nil, fl, err
	}
	return echo.Map{"pets": pets, "statuses": model.PetStatuses}, fl, nil
}

func (h *PageHandler) viewAllData(c echo.Context, sess *session.Session) (any, Flash, error) {
	o, err := h.Pets.Overview(c.Request().Context(), sess)
	if err != nil {
		return nil, Flash{}, err
	}
	return o, Flash{}, nil
}
