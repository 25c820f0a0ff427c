package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signal(number uint16, msg string) *mysql.MySQLError {
	return &mysql.MySQLError{Number: number, SQLState: [5]byte{'4', '5', '0', '0', '0'}, Message: msg}
}

func TestFromMySQLMapsSignaledCodes(t *testing.T) {
	cases := []struct {
		number uint16
		want   *Error
	}{
		{ErrnoAlreadyAdopted, ErrAlreadyAdopted},
		{ErrnoEmailExists, ErrEmailExists},
		{ErrnoApplicationClosed, ErrApplicationClosed},
		{ErrnoNotFound, ErrNotFound},
		{ErrnoInvalidWorker, ErrInvalidWorker},
		{ErrnoPaymentFinalized, ErrFinalized},
		{1451, ErrReferenced},
		{1452, ErrNotFound},
	}
	for _, tc := range cases {
		got := FromMySQL(signal(tc.number, "raw text that must not leak"))
		require.True(t, errors.Is(got, tc.want), "errno %d -> %v", tc.number, got)
		assert.Equal(t, KindDomain, KindOf(got))
		assert.Equal(t, tc.want.Message, As(got).Message)
	}
}

func TestFromMySQLDuplicateKeyDependsOnIndex(t *testing.T) {
	cases := []struct {
		msg  string
		want *Error
	}{
		{"Duplicate entry 'a@x.com' for key 'User.email'", ErrEmailExists},
		{"Duplicate entry 'a@x.com' for key 'email'", ErrEmailExists},
		{"Duplicate entry '4' for key 'ShelterWorker.user_id'", ErrDuplicate},
		{"Duplicate entry '9' for key 'PRIMARY'", ErrDuplicate},
	}
	for _, tc := range cases {
		got := FromMySQL(&mysql.MySQLError{Number: 1062, Message: tc.msg})
		assert.True(t, errors.Is(got, tc.want), tc.msg)
		assert.Equal(t, KindDomain, KindOf(got))
		assert.NotContains(t, As(got).Message, "Duplicate entry")
	}
}

func TestFromMySQLUnknownSignalKeepsMessage(t *testing.T) {
	got := As(FromMySQL(signal(1644, "Pet is on medical hold")))
	assert.Equal(t, KindDomain, got.Kind)
	assert.Equal(t, CodeRejected, got.Code)
	assert.Equal(t, "Pet is on medical hold", got.Message)
}

func TestFromMySQLInfrastructure(t *testing.T) {
	raw := &mysql.MySQLError{Number: 1045, Message: "Access denied for user 'root'@'10.0.0.5'"}
	got := As(FromMySQL(raw))
	assert.Equal(t, KindInfrastructure, got.Kind)
	assert.Equal(t, GenericMessage, got.Message)
	assert.NotContains(t, got.Message, "root")

	got = As(FromMySQL(errors.New("dial tcp: connection refused")))
	assert.Equal(t, KindInfrastructure, got.Kind)
}

func TestFromMySQLNoRows(t *testing.T) {
	got := FromMySQL(fmt.Errorf("load: %w", sql.ErrNoRows))
	assert.True(t, errors.Is(got, ErrNotFound))
	assert.Nil(t, FromMySQL(nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrWorkerIDRequired))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrAlreadyAdopted))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ErrNotOwner))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
