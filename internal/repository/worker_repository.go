package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

// WorkerRepo covers ShelterWorker lookups and the WorkerRequest table.
type WorkerRepo struct {
	db *sql.DB
}

func NewWorkerRepo(db *sql.DB) *WorkerRepo { return &WorkerRepo{db: db} }

// WorkerIDForUser resolves the shelter worker identity of a user.
// apperr.ErrNotFound means the user has no worker profile.
func (r *WorkerRepo) WorkerIDForUser(ctx context.Context, userID uint64) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx, "SELECT worker_id FROM ShelterWorker WHERE user_id = ? LIMIT 1", userID).Scan(&id)
	return id, apperr.FromMySQL(err)
}

const requestColumns = "request_id, user_id, message, requested_role, status, created_at"

// PendingRequest returns the user's Pending request, or nil when none exists.
func (r *WorkerRepo) PendingRequest(ctx context.Context, userID uint64) (*model.WorkerRequest, error) {
	var wr model.WorkerRequest
	err := r.db.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM WorkerRequest WHERE user_id = ? AND status = ? ORDER BY request_id DESC LIMIT 1",
		userID, model.RequestPending).
		Scan(&wr.ID, &wr.UserID, &wr.Message, &wr.RequestedRole, &wr.Status, &wr.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return &wr, nil
}

// CreateRequest inserts a Pending request unless the user already has one.
// The check and the insert are a single statement so two concurrent
// submissions cannot both succeed.
func (r *WorkerRepo) CreateRequest(ctx context.Context, userID uint64, message, role string) (uint64, error) {
	const q = `INSERT INTO WorkerRequest (user_id, message, requested_role, status)
	           SELECT ?, ?, ?, 'Pending' FROM DUAL
	           WHERE NOT EXISTS (SELECT 1 FROM WorkerRequest WHERE user_id = ? AND status = 'Pending')`
	res, err := r.db.ExecContext(ctx, q, userID, message, role, userID)
	if err != nil {
		return 0, apperr.FromMySQL(err)
	}
	if err := expectOne(res, apperr.ErrPendingRequest); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Infrastructure(err)
	}
	return uint64(id), nil
}

// ApproveRequest grants the requested role and closes the request in one
// transaction.  A request that is no longer Pending yields
// apperr.ErrRequestClosed; a user who meanwhile got the role or a higher
// one yields apperr.ErrRoleSuperseded and keeps their role.
func (r *WorkerRepo) ApproveRequest(ctx context.Context, requestID uint64) (model.WorkerRequest, error) {
	var wr model.WorkerRequest
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wr, apperr.Infrastructure(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		"SELECT "+requestColumns+" FROM WorkerRequest WHERE request_id = ? FOR UPDATE", requestID).
		Scan(&wr.ID, &wr.UserID, &wr.Message, &wr.RequestedRole, &wr.Status, &wr.CreatedAt)
	if err != nil {
		return wr, apperr.FromMySQL(err)
	}
	if wr.Status != model.RequestPending {
		return wr, apperr.ErrRequestClosed
	}
	var held string
	if err := tx.QueryRowContext(ctx, "SELECT role FROM User WHERE user_id = ? FOR UPDATE", wr.UserID).Scan(&held); err != nil {
		return wr, apperr.FromMySQL(err)
	}
	if model.Covers(held, wr.RequestedRole) {
		return wr, apperr.ErrRoleSuperseded
	}
	if _, err := tx.ExecContext(ctx, "UPDATE User SET role = ? WHERE user_id = ?", wr.RequestedRole, wr.UserID); err != nil {
		return wr, apperr.FromMySQL(err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE WorkerRequest SET status = ? WHERE request_id = ?", model.RequestApproved, wr.ID); err != nil {
		return wr, apperr.FromMySQL(err)
	}
	if err := tx.Commit(); err != nil {
		return wr, apperr.Infrastructure(err)
	}
	committed = true
	wr.Status = model.RequestApproved
	return wr, nil
}

// RejectRequest closes a Pending request.
func (r *WorkerRepo) RejectRequest(ctx context.Context, requestID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE WorkerRequest SET status = ? WHERE request_id = ? AND status = ?",
		model.RequestRejected, requestID, model.RequestPending)
	if err != nil {
		return apperr.FromMySQL(err)
	}
	return expectOne(res, apperr.ErrRequestClosed)
}

// ListPending returns Pending requests with requester details, newest first.
func (r *WorkerRepo) ListPending(ctx context.Context) ([]model.WorkerRequestView, error) {
	const q = `SELECT wr.request_id, wr.user_id, wr.message, wr.requested_role, wr.status, wr.created_at,
	                  u.name, u.email, u.role
	           FROM WorkerRequest wr
	           JOIN User u ON wr.user_id = u.user_id
	           WHERE wr.status = 'Pending'
	           ORDER BY wr.created_at DESC, wr.request_id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.WorkerRequestView, 0)
	for rows.Next() {
		var v model.WorkerRequestView
		if err := rows.Scan(&v.ID, &v.UserID, &v.Message, &v.RequestedRole, &v.Status, &v.CreatedAt,
			&v.UserName, &v.Email, &v.CurrentRole); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}
