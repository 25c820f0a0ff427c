package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// PaymentRepo reads payments and forwards status/method changes to the
// payment procedures.
type PaymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Status returns the current status of a payment.
func (r *PaymentRepo) Status(ctx context.Context, payID uint64) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, "SELECT status FROM Payment WHERE pay_id = ?", payID).Scan(&status)
	return status, apperr.FromMySQL(err)
}

// UpdateStatus calls UpdatePaymentStatus.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, payID uint64, status string) error {
	return callProcedure(ctx, r.db, callUpdatePaymentState, payID, status)
}

// UpdateMethod calls UpdatePaymentMethod.
func (r *PaymentRepo) UpdateMethod(ctx context.Context, payID uint64, method string) error {
	return callProcedure(ctx, r.db, callUpdatePaymentMeth, payID, method)
}

// List returns payments, newest first, optionally filtered by exact status.
func (r *PaymentRepo) List(ctx context.Context, status string) ([]model.PaymentView, error) {
	q := `SELECT p.pay_id, p.user_id, p.adoption_app_id, p.method, p.amount, p.status, p.date,
	             u.name, a.pet_id, a.status
	      FROM Payment p
	      JOIN User u ON p.user_id = u.user_id
	      LEFT JOIN AdoptionApplication a ON p.adoption_app_id = a.adopt_app_id`
	var args []any
	if status != "" {
		q += " WHERE p.status = ?"
		args = append(args, status)
	}
	q += " ORDER BY p.date DESC, p.pay_id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.PaymentView, 0)
	for rows.Next() {
		var v model.PaymentView
		var appID, petID sql.NullInt64
		var date sql.NullTime
		var appStatus sql.NullString
		if err := rows.Scan(&v.ID, &v.UserID, &appID, &v.Method, &v.Amount, &v.Status, &date,
			&v.UserName, &petID, &appStatus); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		v.ApplicationID = nullUint(appID)
		v.PetID = nullUint(petID)
		v.AppStatus = nullString(appStatus)
		if date.Valid {
			v.Date = &date.Time
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}
