// Package apperr defines the error taxonomy shared by the repository,
// service and handler layers.  Every error that crosses a service boundary
// is an *Error carrying a Kind (how the caller should recover) and a stable
// Code (what went wrong).  Handlers never inspect message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by recovery strategy.
type Kind int

const (
	// KindValidation marks malformed or missing client input.  The caller
	// re-renders the form with the message.
	KindValidation Kind = iota + 1
	// KindDomain marks a violated business rule, raised either by the data
	// layer or by a service guard.  No state was changed.
	KindDomain
	// KindInfrastructure marks connectivity or unexpected database failures.
	// The message shown to users is always generic.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDomain:
		return "domain"
	case KindInfrastructure:
		return "infrastructure"
	}
	return "unknown"
}

// Code is the machine-checkable reason attached to an Error.
type Code string

const (
	CodeMissingField       Code = "MissingField"
	CodeInvalidValue       Code = "InvalidValue"
	CodeWorkerIDRequired   Code = "WorkerIdRequired"
	CodeReasonRequired     Code = "ReasonRequired"
	CodeAlreadyAdopted     Code = "AlreadyAdopted"
	CodeFinalized          Code = "Finalized"
	CodeEmailExists        Code = "EmailExists"
	CodeApplicationClosed  Code = "ApplicationClosed"
	CodeNotFound           Code = "NotFound"
	CodeNotOwner           Code = "NotOwner"
	CodeInvalidCredentials Code = "InvalidCredentials"
	CodePendingRequest     Code = "PendingRequestExists"
	CodeRoleAlreadyGranted Code = "RoleAlreadyGranted"
	CodePetAdopted         Code = "PetAdopted"
	CodeInvalidWorker      Code = "InvalidWorker"
	CodeRequestClosed      Code = "RequestClosed"
	CodeRoleSuperseded     Code = "RoleSuperseded"
	CodeDuplicate          Code = "Duplicate"
	CodeReferenced         Code = "Referenced"
	CodeApplicantOnly      Code = "ApplicantOnly"
	CodeRejected           Code = "Rejected"
	CodeUnavailable        Code = "Unavailable"
)

// GenericMessage is shown for every infrastructure failure.
const GenericMessage = "Something went wrong while talking to the database. Please try again."

// Error is the structured error returned across layers.
type Error struct {
	Kind    Kind
	Code    Code
	Message string // user-facing text
	Err     error  // underlying cause, logged but never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s/%s: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s/%s: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Code so callers can write
// errors.Is(err, apperr.ErrAlreadyAdopted).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Validation builds a KindValidation error.
func Validation(code Code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

// Domain builds a KindDomain error.
func Domain(code Code, msg string) *Error {
	return &Error{Kind: KindDomain, Code: code, Message: msg}
}

// Infrastructure wraps an unexpected failure.
func Infrastructure(err error) *Error {
	return &Error{Kind: KindInfrastructure, Code: CodeUnavailable, Message: GenericMessage, Err: err}
}

// Required reports a missing form field.
func Required(field string) *Error {
	return Validation(CodeMissingField, field+" is required.")
}

// Sentinels for errors.Is comparisons.
var (
	ErrAlreadyAdopted     = Domain(CodeAlreadyAdopted, "This pet has already been adopted.")
	ErrFinalized          = Domain(CodeFinalized, "This payment is finalized and can no longer be changed.")
	ErrEmailExists        = Domain(CodeEmailExists, "Email already exists. Please use a different one.")
	ErrApplicationClosed  = Domain(CodeApplicationClosed, "This application has already been decided.")
	ErrNotFound           = Domain(CodeNotFound, "The requested record does not exist.")
	ErrNotOwner           = Domain(CodeNotOwner, "You can only manage your own applications.")
	ErrInvalidCredentials = Domain(CodeInvalidCredentials, "Invalid email or password.")
	ErrPendingRequest     = Domain(CodePendingRequest, "You already have a pending role request. Please wait for admin review.")
	ErrRoleAlreadyGranted = Domain(CodeRoleAlreadyGranted, "You already hold the requested role.")
	ErrPetAdopted         = Domain(CodePetAdopted, "Adopted pets cannot change status.")
	ErrInvalidWorker      = Domain(CodeInvalidWorker, "The worker ID does not match a shelter worker.")
	ErrRequestClosed      = Domain(CodeRequestClosed, "This role request has already been reviewed.")
	ErrRoleSuperseded     = Domain(CodeRoleSuperseded, "The user already holds this role or a higher one.")
	ErrDuplicate          = Domain(CodeDuplicate, "A record with the same values already exists.")
	ErrReferenced         = Domain(CodeReferenced, "This record is still in use and cannot be deleted.")
	ErrApplicantOnly      = Validation(CodeApplicantOnly, "Applications can only be filed for adopters or general users.")
	ErrWorkerIDRequired   = Validation(CodeWorkerIDRequired, "Worker ID is required for approval.")
	ErrReasonRequired     = Validation(CodeReasonRequired, "Rejection reason is required.")
)

// As extracts an *Error from err.  Non-nil errors that are not *Error are
// reported as infrastructure failures.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Infrastructure(err)
}

// KindOf returns the Kind of err, treating foreign errors as infrastructure.
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Kind
	}
	return 0
}

// HTTPStatus maps an error to the status code used for page responses.
func HTTPStatus(err error) int {
	ae := As(err)
	if ae == nil {
		return http.StatusOK
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDomain:
		switch ae.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeNotOwner:
			return http.StatusForbidden
		case CodeInvalidCredentials:
			return http.StatusUnauthorized
		}
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
