// Package httpjson holds the JSON request/response plumbing shared by the
// module HTTP handlers, including the error-kind to status mapping.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/discbaboons/rounds-service/internal/apperrors"
)

// errorBody is the wire shape for every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError maps a service error onto an HTTP status and JSON body.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		Respond(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}
	Respond(w, StatusForKind(appErr.Kind), errorBody{Error: appErr.Message, Kind: appErr.Kind.String()})
}

// StatusForKind maps an error kind onto its HTTP status.
func StatusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindMissingInput:
		return http.StatusBadRequest
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindDataIntegrity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads the request body as JSON into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(apperrors.KindValidation, "invalid request body", err)
	}
	return nil
}
