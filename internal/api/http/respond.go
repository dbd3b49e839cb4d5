package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentaldesk-backend/internal/domain"
	"rentaldesk-backend/internal/logger"
)

type errorBody struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	AllowedFrom []string `json:"allowed_from,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// InvalidTransition and PreconditionFailed are business-rule rejections
// surfaced verbatim; everything unexpected becomes an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	var (
		ite *domain.InvalidTransitionError
		pfe *domain.PreconditionFailedError
		ve  *domain.ValidationError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{apiError{Code: "not_found", Message: err.Error()}})
	case errors.Is(err, domain.ErrConcurrentModification):
		writeJSON(w, http.StatusConflict, errorBody{apiError{Code: "concurrent_modification", Message: err.Error()}})
	case errors.As(err, &ite):
		allowed := make([]string, len(ite.AllowedFrom))
		for i, s := range ite.AllowedFrom {
			allowed[i] = string(s)
		}
		writeJSON(w, http.StatusConflict, errorBody{apiError{Code: "invalid_transition", Message: ite.Error(), AllowedFrom: allowed}})
	case errors.As(err, &pfe):
		writeJSON(w, http.StatusConflict, errorBody{apiError{Code: "precondition_failed", Message: pfe.Error()}})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{apiError{Code: "validation_error", Message: ve.Error()}})
	default:
		logger.Error("Unhandled error in HTTP handler", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{apiError{Code: "internal", Message: "internal server error"}})
	}
}
