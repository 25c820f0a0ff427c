package apperr

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Error numbers raised by the stored procedures through
// SIGNAL SQLSTATE '45000' SET MYSQL_ERRNO = ...  See database/schema.sql.
const (
	ErrnoAlreadyAdopted    uint16 = 5001
	ErrnoEmailExists       uint16 = 5002
	ErrnoApplicationClosed uint16 = 5003
	ErrnoNotFound          uint16 = 5004
	ErrnoInvalidWorker     uint16 = 5005
	ErrnoPaymentFinalized  uint16 = 5006

	errnoDuplicateKey   uint16 = 1062 // ER_DUP_ENTRY
	errnoRowReferenced  uint16 = 1451 // ER_ROW_IS_REFERENCED_2, delete blocked by a child row
	errnoNoReferenced   uint16 = 1452 // ER_NO_REFERENCED_ROW_2, insert points at a missing parent
	errnoUnhandledUser  uint16 = 1644 // SIGNAL without MYSQL_ERRNO
	sqlStateUserDefined        = "45000"

	// emailKey is the unique index on User.email.  MySQL 8 reports it as
	// 'User.email', older servers as 'email'.
	emailKey = "email'"
)

var errnoCodes = map[uint16]*Error{
	ErrnoAlreadyAdopted:    ErrAlreadyAdopted,
	ErrnoEmailExists:       ErrEmailExists,
	ErrnoApplicationClosed: ErrApplicationClosed,
	ErrnoNotFound:          ErrNotFound,
	ErrnoInvalidWorker:     ErrInvalidWorker,
	ErrnoPaymentFinalized:  ErrFinalized,
	errnoRowReferenced:     ErrReferenced,
	errnoNoReferenced:      ErrNotFound,
}

// FromMySQL classifies a database error at the call site.  Signaled
// procedure errors become domain errors keyed by their MYSQL_ERRNO;
// sql.ErrNoRows becomes NotFound; everything else is infrastructure.
// A duplicate key is EmailExists only when the violated index is the
// email one.
func FromMySQL(err error) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Kind: KindDomain, Code: CodeNotFound, Message: ErrNotFound.Message, Err: err}
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return Infrastructure(err)
	}
	if me.Number == errnoDuplicateKey {
		tpl := ErrDuplicate
		if strings.Contains(me.Message, emailKey) {
			tpl = ErrEmailExists
		}
		return &Error{Kind: tpl.Kind, Code: tpl.Code, Message: tpl.Message, Err: err}
	}
	if tpl, ok := errnoCodes[me.Number]; ok {
		return &Error{Kind: tpl.Kind, Code: tpl.Code, Message: tpl.Message, Err: err}
	}
	if me.Number == errnoUnhandledUser || string(me.SQLState[:]) == sqlStateUserDefined {
		msg := strings.TrimSpace(me.Message)
		if msg == "" {
			msg = "The request was rejected by the database."
		}
		return &Error{Kind: KindDomain, Code: CodeRejected, Message: msg, Err: err}
	}
	return Infrastructure(err)
}
