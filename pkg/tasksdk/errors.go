package tasksdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds and codes as sent by the server.
const (
	KindValidation      = "VALIDATION"
	KindConflict        = "CONFLICT"
	KindForbidden       = "FORBIDDEN"
	KindNotFound        = "NOT_FOUND"
	KindStateError      = "STATE_ERROR"
	KindUnauthenticated = "UNAUTHENTICATED"
	KindUnavailable     = "UNAVAILABLE"
	KindRateLimited     = "RATE_LIMITED"

	CodeAlreadyTracking   = "ALREADY_TRACKING"
	CodeNoActiveEntry     = "NO_ACTIVE_ENTRY"
	CodeInvalidTimeRange  = "INVALID_TIME_RANGE"
	CodeNoCredential      = "NO_CREDENTIAL"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeNoOrganization    = "NO_ORGANIZATION"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Kind       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s/%s: %s", e.StatusCode, e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Kind, e.Message)
}

// HasKind reports whether err is an *APIError of the given kind.
func HasKind(err error, kind string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// HasCode reports whether err is an *APIError with the given code.
func HasCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// IsNotFound also covers resources of other organizations, which the server
// never distinguishes from missing ones.
func IsNotFound(err error) bool {
	return HasKind(err, KindNotFound)
}

// parseErrorResponse builds an *APIError from a failed response. Bodies that
// are not an ErrorResponse (a proxy's HTML page, say) keep the status text.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Kind:       http.StatusText(resp.StatusCode),
		Message:    string(body),
	}

	var e ErrorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		apiErr.Kind = e.Error
		apiErr.Code = e.Code
		apiErr.Message = e.Message
	}
	return apiErr
}
