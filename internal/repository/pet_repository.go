package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// PetRepo provides pet listings, registration, deletion and manual status edits.
type PetRepo struct {
	db *sql.DB
}

func NewPetRepo(db *sql.DB) *PetRepo { return &PetRepo{db: db} }

// NewPet holds the registration form values.
type NewPet struct {
	Name      string
	Age       int
	Gender    string
	TypeID    uint64
	ShelterID uint64
}

// List returns every pet joined with its type and shelter, newest first.
func (r *PetRepo) List(ctx context.Context) ([]model.PetView, error) {
	return listPets(ctx, r.db, "")
}

// listPets runs the joined pet listing with an optional WHERE clause.
func listPets(ctx context.Context, db *sql.DB, where string, args ...any) ([]model.PetView, error) {
	q := `SELECT p.pet_id, p.name, p.age, p.gender, p.status, p.type_id, p.shelter_id, p.created_at,
	             pt.species, pt.breed, s.name
	      FROM Pet p
	      JOIN PetType pt ON p.type_id = pt.type_id
	      JOIN Shelter s ON p.shelter_id = s.shelter_id ` + where + `
	      ORDER BY p.created_at DESC, p.pet_id DESC`
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.PetView, 0)
	for rows.Next() {
		var v model.PetView
		if err := rows.Scan(&v.ID, &v.Name, &v.Age, &v.Gender, &v.Status, &v.TypeID, &v.ShelterID, &v.CreatedAt,
			&v.Species, &v.Breed, &v.ShelterName); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// Available lists pets that can still receive applications.
func (r *PetRepo) Available(ctx context.Context) ([]model.PetOption, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT pet_id, name FROM Pet WHERE status = ? ORDER BY name", model.PetAvailable)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.PetOption, 0)
	for rows.Next() {
		var o model.PetOption
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// UpdateStatus sets a manual status.  The current status is read under a
// row lock so an approval cannot adopt the pet in between; a missing pet is
// apperr.ErrNotFound and an Adopted one apperr.ErrPetAdopted.
func (r *PetRepo) UpdateStatus(ctx context.Context, petID uint64, status string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Infrastructure(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var current string
	if err := tx.QueryRowContext(ctx, "SELECT status FROM Pet WHERE pet_id = ? FOR UPDATE", petID).Scan(&current); err != nil {
		return apperr.FromMySQL(err) // sql.ErrNoRows -> NotFound
	}
	if current == model.PetAdopted {
		return apperr.ErrPetAdopted
	}
	if _, err := tx.ExecContext(ctx, "UPDATE Pet SET status = ? WHERE pet_id = ?", status, petID); err != nil {
		return apperr.FromMySQL(err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Infrastructure(err)
	}
	committed = true
	return nil
}

// Delete removes a pet.  Pets referenced by an application (every Adopted
// pet is) are kept and reported as apperr.ErrReferenced.
func (r *PetRepo) Delete(ctx context.Context, petID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM Pet WHERE pet_id = ?", petID)
	if err != nil {
		return apperr.FromMySQL(err) // 1451 -> Referenced
	}
	return expectOne(res, apperr.ErrNotFound)
}

// Create registers an Available pet and returns its id.
func (r *PetRepo) Create(ctx context.Context, p NewPet) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO Pet (name, age, gender, status, type_id, shelter_id) VALUES (?, ?, ?, ?, ?, ?)",
		p.Name, p.Age, p.Gender, model.PetAvailable, p.TypeID, p.ShelterID)
	if err != nil {
		return 0, apperr.FromMySQL(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Infrastructure(err)
	}
	return uint64(id), nil
}

// CreateType returns the id of the species/breed pair, inserting it first
// when it does not exist yet.
func (r *PetRepo) CreateType(ctx context.Context, species, breed string) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT type_id FROM PetType WHERE species = ? AND breed = ? ORDER BY type_id LIMIT 1", species, breed).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, apperr.FromMySQL(err)
	}
	res, err := r.db.ExecContext(ctx, "INSERT INTO PetType (species, breed) VALUES (?, ?)", species, breed)
	if err != nil {
		return 0, apperr.FromMySQL(err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Infrastructure(err)
	}
	return uint64(newID), nil
}

// Types lists pet types for the registration form.
func (r *PetRepo) Types(ctx context.Context) ([]model.PetType, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT type_id, species, breed FROM PetType ORDER BY species, breed")
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.PetType, 0)
	for rows.Next() {
		var t model.PetType
		if err := rows.Scan(&t.ID, &t.Species, &t.Breed); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// Shelters lists shelters for the registration form.
func (r *PetRepo) Shelters(ctx context.Context) ([]model.Shelter, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT shelter_id, name FROM Shelter ORDER BY name")
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.Shelter, 0)
	for rows.Next() {
		var s model.Shelter
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}
