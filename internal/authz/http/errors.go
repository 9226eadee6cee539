package http

import (
	"errors"
	"net/http"

	"github.com/classhubhq/classhub/internal/authz/service"
	"github.com/classhubhq/classhub/pkg/httpx"
	"github.com/classhubhq/classhub/pkg/orgsdk"
	"github.com/classhubhq/classhub/pkg/slogx"
)

// writeServiceError maps a service error kind to its HTTP shape. Anything
// that is not a known kind is a 500 and gets logged; known kinds were
// already logged where they happened.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, service.ErrValidation):
		status, code = http.StatusBadRequest, orgsdk.ErrorCodeInvalidRequest
	case errors.Is(err, service.ErrUnauthorized):
		status, code = http.StatusUnauthorized, orgsdk.ErrorCodeUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status, code = http.StatusForbidden, orgsdk.ErrorCodeForbidden
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, orgsdk.ErrorCodeNotFound
	case errors.Is(err, service.ErrDuplicate):
		status, code = http.StatusConflict, orgsdk.ErrorCodeConflict
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, orgsdk.ErrorResponse{
			Error:            orgsdk.ErrorCodeServerError,
			ErrorDescription: "internal error",
		})
		return
	}

	httpx.WriteJSON(w, status, orgsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: err.Error(),
	})
}

// writeBadRequest reports a malformed request body or parameter.
func writeBadRequest(w http.ResponseWriter, description string) {
	httpx.WriteJSON(w, http.StatusBadRequest, orgsdk.ErrorResponse{
		Error:            orgsdk.ErrorCodeInvalidRequest,
		ErrorDescription: description,
	})
}
