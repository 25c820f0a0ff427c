package model

import "time"

// Pet statuses.  The list is open-ended in the database; these are the
// values the application writes.
const (
	PetAvailable   = "Available"
	PetAdopted     = "Adopted"
	PetMedicalHold = "Medical Hold"
)

// PetStatuses lists statuses selectable from the manage page.  Adopted is
// only ever set by ApproveApplication.
var PetStatuses = []string{PetAvailable, PetMedicalHold}

// Pet mirrors the `Pet` table.
type Pet struct {
	ID        uint64    `json:"pet_id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Status    string    `json:"status"`
	TypeID    uint64    `json:"type_id"`
	ShelterID uint64    `json:"shelter_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PetView joins a pet with its type and shelter.
type PetView struct {
	Pet
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	ShelterName string `json:"shelter_name"`
}

// PetOption is an entry of the available-pets dropdown.
type PetOption struct {
	ID   uint64 `json:"pet_id"`
	Name string `json:"name"`
}

// DefaultBreed is stored when a new species is registered without a breed.
const DefaultBreed = "N/A"

// PetType mirrors the `PetType` table.
type PetType struct {
	ID      uint64 `json:"type_id"`
	Species string `json:"species"`
	Breed   string `json:"breed"`
}

// Shelter mirrors the `Shelter` table.
type Shelter struct {
	ID   uint64 `json:"shelter_id"`
	Name string `json:"name"`
}
