package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/dcastano/turnero/pkg/errors"
)

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error to its HTTP status. Unknown
// error types and non-AppError values collapse to a 500 with a generic
// message so internal details never leak to callers.
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict, apperrors.ErrorTypeInvalidState:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeForbidden:
		respondWithError(w, http.StatusForbidden, appErr.Message)
	case apperrors.ErrorTypeTooLate, apperrors.ErrorTypeTooEarly:
		respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
