package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/logger"
)

// genericTokenFailure is the single external message for every invalid,
// expired or replayed token. Which check failed stays in the logs.
const genericTokenFailure = "This link is no longer valid."

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func writeGenericTokenFailure(w http.ResponseWriter, reasonCode string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"success": false,
		"message": genericTokenFailure,
		"reason":  reasonCode,
	})
}

// writeLinkFailure collapses the distinct link failures into one external
// response, logging the specific reason internally
func writeLinkFailure(w http.ResponseWriter, err error) {
	logger.Info("Public link rejected", "reason", err)
	writeGenericTokenFailure(w, domain.ReasonInvalidLink)
}

// writeServiceError maps internal errors onto HTTP responses for the
// internal, operator-facing endpoints
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var conflictErr *domain.SchedulingConflictError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &conflictErr):
		// Operators see the specific conflicting events to enable resolution
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success":   false,
			"error":     "scheduling conflict",
			"resource":  conflictErr.Resource,
			"conflicts": conflictErr.Conflicts,
		})
	case errors.Is(err, domain.ErrAlreadyResolved):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"error":   "request already resolved",
			"reason":  domain.ReasonAlreadyResolved,
		})
	case errors.Is(err, domain.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission denied")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		logger.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
