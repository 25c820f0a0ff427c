package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// ApplicationRepo drives the adoption application procedures and the
// denormalized listings.  State transitions happen only inside the stored
// procedures; this type never updates AdoptionApplication directly.
type ApplicationRepo struct {
	db *sql.DB
}

// NewApplicationRepo returns a new ApplicationRepo bound to the given database.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

// Submit creates a Pending application.  The duplicate-adoption trigger
// surfaces as apperr.ErrAlreadyAdopted.
func (r *ApplicationRepo) Submit(ctx context.Context, userID, petID uint64, reason string) error {
	return callProcedure(ctx, r.db, callAddApplication, userID, petID, reason)
}

// Approve marks the application Approved.  The procedure also sets the pet
// to Adopted, opens a Payment and auto-rejects other pending applications
// for the same pet.
func (r *ApplicationRepo) Approve(ctx context.Context, appID, workerID uint64) error {
	return callProcedure(ctx, r.db, callApproveApplication, appID, workerID)
}

// Reject marks the application Rejected with reason.
func (r *ApplicationRepo) Reject(ctx context.Context, appID uint64, reason string) error {
	return callProcedure(ctx, r.db, callRejectApplication, appID, reason)
}

// GetByID loads a single application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (model.AdoptionApplication, error) {
	const q = `SELECT adopt_app_id, user_id, pet_id, status, COALESCE(reason, ''), date, approved_by
	           FROM AdoptionApplication WHERE adopt_app_id = ?`
	var a model.AdoptionApplication
	var date sql.NullTime
	var approvedBy sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.UserID, &a.PetID, &a.Status, &a.Reason, &date, &approvedBy)
	if err != nil {
		return a, apperr.FromMySQL(err)
	}
	if date.Valid {
		a.Date = &date.Time
	}
	a.ApprovedBy = nullUint(approvedBy)
	return a, nil
}

// List returns all applications, newest first.  A non-empty status
// restricts the result to that exact status.
func (r *ApplicationRepo) List(ctx context.Context, status string) ([]model.ApplicationView, error) {
	q := `SELECT a.adopt_app_id, a.user_id, a.pet_id, a.status, COALESCE(a.reason, ''), a.date, a.approved_by,
	             u.name, u.email, p.name, p.status, s.name, au.name
	      FROM AdoptionApplication a
	      JOIN User u ON a.user_id = u.user_id
	      JOIN Pet p ON a.pet_id = p.pet_id
	      JOIN Shelter s ON p.shelter_id = s.shelter_id
	      LEFT JOIN ShelterWorker sw ON a.approved_by = sw.worker_id
	      LEFT JOIN User au ON sw.user_id = au.user_id`
	var args []any
	if status != "" {
		q += " WHERE a.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY a.adopt_app_id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.ApplicationView, 0)
	for rows.Next() {
		var v model.ApplicationView
		var date sql.NullTime
		var approvedBy sql.NullInt64
		var approver sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.PetID, &v.Status, &v.Reason, &date, &approvedBy,
			&v.AdopterName, &v.AdopterEmail, &v.PetName, &v.PetStatus, &v.ShelterName, &approver); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		if date.Valid {
			v.Date = &date.Time
		}
		v.ApprovedBy = nullUint(approvedBy)
		v.ApproverName = nullString(approver)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// ListByUser returns the applications submitted by userID, most recent
// first, with species, shelter and payment totals.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ApplicationView, error) {
	const q = `SELECT a.adopt_app_id, a.user_id, a.pet_id, a.status, COALESCE(a.reason, ''), a.date, a.approved_by,
	                  u.name, u.email, p.name, p.status, s.name, pt.species, pt.breed, au.name,
	                  (SELECT COUNT(*) FROM Payment pay WHERE pay.adoption_app_id = a.adopt_app_id AND pay.status = 'Completed'),
	                  (SELECT SUM(pay.amount) FROM Payment pay WHERE pay.adoption_app_id = a.adopt_app_id)
	           FROM AdoptionApplication a
	           JOIN User u ON a.user_id = u.user_id
	           JOIN Pet p ON a.pet_id = p.pet_id
	           JOIN PetType pt ON p.type_id = pt.type_id
	           JOIN Shelter s ON p.shelter_id = s.shelter_id
	           LEFT JOIN ShelterWorker sw ON a.approved_by = sw.worker_id
	           LEFT JOIN User au ON sw.user_id = au.user_id
	           WHERE a.user_id = ?
	           ORDER BY a.date DESC, a.adopt_app_id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.ApplicationView, 0)
	for rows.Next() {
		var v model.ApplicationView
		var date sql.NullTime
		var approvedBy sql.NullInt64
		var approver, total sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &v.PetID, &v.Status, &v.Reason, &date, &approvedBy,
			&v.AdopterName, &v.AdopterEmail, &v.PetName, &v.PetStatus, &v.ShelterName, &v.Species, &v.Breed,
			&approver, &v.CompletedPayments, &total); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		if date.Valid {
			v.Date = &date.Time
		}
		v.ApprovedBy = nullUint(approvedBy)
		v.ApproverName = nullString(approver)
		v.TotalAmount = nullString(total)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}
