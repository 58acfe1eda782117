package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// statusFor maps an error to its HTTP status. Codes take precedence over
// kinds because a few codes render differently from their kind.
func statusFor(de *domain.Error) int {
	switch de.Code {
	case domain.CodeAlreadyTracking, domain.CodeNoActiveEntry, domain.CodeInvalidTimeRange:
		return http.StatusBadRequest
	case domain.CodeCrossTenant:
		return http.StatusNotFound
	}

	switch de.Kind {
	case domain.KindValidation, domain.KindStateError:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an ErrorResponse. A cross-tenant denial is
// indistinguishable from a plain NOT_FOUND on the wire. Causes never leave
// the process.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal("internal error", err)
	}

	status := statusFor(de)
	code := string(de.Code)
	if de.Code == domain.CodeCrossTenant {
		code = ""
	}

	msg := de.Message
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", slog.Int("status", status), slog.Any("error", err))
		if de.Kind == domain.KindInternal {
			msg = "internal error"
		}
	case status == http.StatusUnauthorized && de.Code == "":
		code = string(domain.CodeInvalidCredential)
	}

	if status == http.StatusUnauthorized {
		httpx.WriteUnauthorized(w, code, msg)
		return
	}
	httpx.WriteError(w, status, string(de.Kind), code, msg)
}

// badRequest reports a body that could not be decoded.
func badRequest(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, string(domain.KindValidation), "", err.Error())
}
