package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// OverviewRepo runs the read-only aggregate queries of the view all data
// page.  Pet types and shelters come from PetRepo so the lookup cache
// serves them.
type OverviewRepo struct {
	db *sql.DB
}

func NewOverviewRepo(db *sql.DB) *OverviewRepo { return &OverviewRepo{db: db} }

// AvailablePets lists Available pets with their type and shelter.
func (r *OverviewRepo) AvailablePets(ctx context.Context) ([]model.PetView, error) {
	return listPets(ctx, r.db, "WHERE p.status = ?", model.PetAvailable)
}

// AdoptionSummary counts applications per status.  Statuses without
// applications are omitted.
func (r *OverviewRepo) AdoptionSummary(ctx context.Context) ([]model.StatusCount, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM AdoptionApplication GROUP BY status ORDER BY status")
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.StatusCount, 0)
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// PopularPets returns pets with more applications than the average pet
// that has any, most applied-for first.
func (r *OverviewRepo) PopularPets(ctx context.Context) ([]model.PopularPet, error) {
	const q = `SELECT p.pet_id, p.name, COUNT(a.adopt_app_id) AS app_count
	           FROM Pet p
	           LEFT JOIN AdoptionApplication a ON p.pet_id = a.pet_id
	           GROUP BY p.pet_id, p.name
	           HAVING COUNT(a.adopt_app_id) > (
	               SELECT AVG(c.app_count) FROM (
	                   SELECT COUNT(adopt_app_id) AS app_count FROM AdoptionApplication GROUP BY pet_id
	               ) AS c
	           )
	           ORDER BY app_count DESC, p.pet_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.PopularPet, 0)
	for rows.Next() {
		var pp model.PopularPet
		if err := rows.Scan(&pp.PetID, &pp.Name, &pp.Applications); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// WorkerMappings lists every user with a ShelterWorker profile.
func (r *OverviewRepo) WorkerMappings(ctx context.Context) ([]model.WorkerMapping, error) {
	const q = `SELECT sw.worker_id, sw.user_id, sw.shelter_id, u.name, u.email, s.name
	           FROM ShelterWorker sw
	           JOIN User u ON sw.user_id = u.user_id
	           JOIN Shelter s ON sw.shelter_id = s.shelter_id
	           ORDER BY u.user_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.WorkerMapping, 0)
	for rows.Next() {
		var m model.WorkerMapping
		if err := rows.Scan(&m.WorkerID, &m.UserID, &m.ShelterID, &m.Name, &m.Email, &m.ShelterName); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}
