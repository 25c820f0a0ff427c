package model

// StatusCount is one row of the adoption summary.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PopularPet is a pet that drew more applications than the average pet
// with at least one application.
type PopularPet struct {
	PetID        uint64 `json:"pet_id"`
	Name         string `json:"name"`
	Applications int    `json:"app_count"`
}

// Overview is the read-only snapshot behind the view all data page.
// WorkerMappings is only filled for admins.
type Overview struct {
	AvailablePets   []PetView       `json:"available_pets"`
	AdoptionSummary []StatusCount   `json:"adoption_summary"`
	Shelters        []Shelter       `json:"shelters"`
	PetTypes        []PetType       `json:"pet_types"`
	PopularPets     []PopularPet    `json:"popular_pets"`
	WorkerMappings  []WorkerMapping `json:"worker_mappings,omitempty"`
}
