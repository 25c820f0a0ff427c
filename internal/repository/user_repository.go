package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/pet-shelter/internal/apperr"
	"github.com/iliyamo/pet-shelter/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the AddUser procedure arguments.  Password is hashed by
// the database.
type NewUser struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

const userColumns = "user_id, name, email, role, phone, created_at"

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &phone, &u.CreatedAt)
	u.Phone = nullString(phone)
	return u, err
}

// Authenticate returns the user whose email and password match.  The hash
// comparison runs inside MySQL; a mismatch and an unknown email both yield
// apperr.ErrNotFound.
func (r *UserRepo) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM User WHERE email = ? AND password_hash = SHA2(?, 256) LIMIT 1",
		email, password))
	return u, apperr.FromMySQL(err)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM User WHERE user_id = ? LIMIT 1", id))
	return u, apperr.FromMySQL(err)
}

// Create registers a user through the AddUser procedure.  A duplicate email
// surfaces as apperr.ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u NewUser) error {
	var phone any
	if p := strings.TrimSpace(u.Phone); p != "" {
		phone = p
	}
	return callProcedure(ctx, r.DB, callAddUser,
		strings.TrimSpace(u.Name), strings.ToLower(strings.TrimSpace(u.Email)), u.Password, phone, u.Role)
}

// UpdateRole changes a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE User SET role = ? WHERE user_id = ?", role, id)
	if err != nil {
		return apperr.FromMySQL(err)
	}
	return expectOne(res, apperr.ErrNotFound)
}

// List returns all users, newest first, optionally restricted to one role
// (exact match).
func (r *UserRepo) List(ctx context.Context, role string) ([]model.UserSummary, error) {
	q := `SELECT u.user_id, u.name, u.email, u.role, u.phone, u.created_at,
	             (SELECT COUNT(*) FROM AdoptionApplication aa WHERE aa.user_id = u.user_id AND aa.status = 'Approved'),
	             (SELECT COUNT(*) FROM AdoptionApplication aa WHERE aa.user_id = u.user_id)
	      FROM User u`
	var args []any
	if role != "" {
		q += " WHERE u.role = ?"
		args = append(args, role)
	}
	q += " ORDER BY u.created_at DESC, u.user_id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	out := make([]model.UserSummary, 0)
	for rows.Next() {
		var s model.UserSummary
		var phone sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Role, &phone, &s.CreatedAt,
			&s.ApprovedApplications, &s.TotalApplications); err != nil {
			return nil, apperr.FromMySQL(err)
		}
		s.Phone = nullString(phone)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromMySQL(err)
	}
	return out, nil
}

// Options lists users holding any of roles, ordered by name, for dropdowns.
func (r *UserRepo) Options(ctx context.Context, roles ...string) ([]model.UserOption, error) {
	out := make([]model.UserOption, 0)
	if len(roles) == 0 {
		return out, nil
	}
	args := make([]any, len(roles))
	for i, role := range roles {
		args[i] = role
	}
	q := "SELECT user_id, name FROM User WHERE role IN (?" + strings.Repeat(", ?", len(roles)-1) + ") ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.FromMySQL(err)
	}
	defer rows.Close()
	for rows.Next() {
		var o model.UserOption
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
