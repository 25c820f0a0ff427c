package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/pet-shelter/internal/apperr"
)

// Stored procedures exposed by the shelter schema.  Each runs atomically
// and signals domain errors with a stable MYSQL_ERRNO.
const (
	callAddUser            = "CALL AddUser(?, ?, SHA2(?, 256), ?, ?)"
	callAddApplication     = "CALL AddAdoptionApplication(?, ?, ?)"
	callApproveApplication = "CALL ApproveApplication(?, ?)"
	callRejectApplication  = "CALL RejectApplication(?, ?)"
	callUpdatePaymentState = "CALL UpdatePaymentStatus(?, ?)"
	callUpdatePaymentMeth  = "CALL UpdatePaymentMethod(?, ?)"
)

// callProcedure executes a CALL statement on a dedicated pool connection.
// The connection goes back to the pool on every return path.
func callProcedure(ctx context.Context, db *sql.DB, call string, args ...any) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return apperr.Infrastructure(err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, call, args...); err != nil {
		return apperr.FromMySQL(err)
	}
	return nil
}

// expectOne turns a zero-row UPDATE into notFound.
func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Infrastructure(err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func nullUint(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := uint64(v.Int64)
	return &u
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
