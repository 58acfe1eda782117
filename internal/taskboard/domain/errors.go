package domain

import (
	"errors"
	"fmt"
)

// Kind is the stable category of a failure. Clients branch on it.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindConflict        Kind = "CONFLICT"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindStateError      Kind = "STATE_ERROR"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindUnavailable     Kind = "UNAVAILABLE"
	KindInternal        Kind = "INTERNAL"
)

// Code refines a Kind for the cases callers need to tell apart.
type Code string

const (
	CodeCrossTenant       Code = "CROSS_TENANT"
	CodeAlreadyTracking   Code = "ALREADY_TRACKING"
	CodeNoActiveEntry     Code = "NO_ACTIVE_ENTRY"
	CodeInvalidTimeRange  Code = "INVALID_TIME_RANGE"
	CodeNoCredential      Code = "NO_CREDENTIAL"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeNoOrganization    Code = "NO_ORGANIZATION"
)

// Error is the error type returned by every taskboard operation.
type Error struct {
	Kind    Kind
	Code    Code   // optional
	Message string // human readable, may be shown to users
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches by code when the target carries one, by kind otherwise. So
// errors.Is(err, ErrNotFound) holds for a cross-tenant denial too.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrStateError   = &Error{Kind: KindStateError}
	ErrUnavailable  = &Error{Kind: KindUnavailable}
	ErrUnauthorized = &Error{Kind: KindUnauthenticated}

	ErrCrossTenant       = &Error{Kind: KindNotFound, Code: CodeCrossTenant}
	ErrAlreadyTracking   = &Error{Kind: KindConflict, Code: CodeAlreadyTracking}
	ErrNoActiveEntry     = &Error{Kind: KindStateError, Code: CodeNoActiveEntry}
	ErrInvalidTimeRange  = &Error{Kind: KindValidation, Code: CodeInvalidTimeRange}
	ErrInvalidCredential = &Error{Kind: KindUnauthenticated, Code: CodeInvalidCredential}
	ErrNoOrganization    = &Error{Kind: KindForbidden, Code: CodeNoOrganization}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that what does not exist.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func StateError(format string, args ...any) *Error {
	return &Error{Kind: KindStateError, Message: fmt.Sprintf(format, args...)}
}

// CrossTenant is reported to callers exactly like NotFound(what), so the
// existence of another tenant's resource never leaks.
func CrossTenant(what string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeCrossTenant, Message: what + " not found"}
}

func AlreadyTracking() *Error {
	return &Error{Kind: KindConflict, Code: CodeAlreadyTracking, Message: "time tracking already running for this task"}
}

func NoActiveEntry() *Error {
	return &Error{Kind: KindStateError, Code: CodeNoActiveEntry, Message: "no active time entry for this task"}
}

func InvalidTimeRange() *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidTimeRange, Message: "end time is before start time"}
}

func InvalidCredential(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Code: CodeInvalidCredential, Message: msg}
}

func NoOrganization() *Error {
	return &Error{Kind: KindForbidden, Code: CodeNoOrganization, Message: "join or create an organization first"}
}

// Unavailable wraps a transient infrastructure failure such as a store
// timeout. Callers may retry; nothing in this module does.
func Unavailable(cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: "service temporarily unavailable", Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Cause: cause}
}

// KindOf returns the kind of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
