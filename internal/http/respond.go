package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zedlink-test/My-Shop/internal/order"
	"github.com/zedlink-test/My-Shop/internal/repository"
	"github.com/zedlink-test/My-Shop/internal/service"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service and repository errors to HTTP responses.
// Server-side failures are logged; client errors are not.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *order.ValidationError

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "please fill in all required fields",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, service.ErrMissingSession):
		respondError(w, http.StatusBadRequest, "missing_session", err.Error())
	case errors.Is(err, service.ErrInvalidProduct), errors.Is(err, service.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, repository.ErrProductNotFound), errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrIllegalTransition), errors.Is(err, repository.ErrStatusChanged),
		errors.Is(err, repository.ErrDuplicateOrder):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, service.ErrOrderNotPersisted):
		log.Error("order not persisted", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:   "your order could not be saved, please try again",
			Code:    "persistence_failed",
			Details: "the cart has been kept",
		})
	case errors.Is(err, service.ErrSessionUnavailable):
		log.Error("session storage unavailable", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "cart storage is unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", zap.Error(err))
		respondError(w, http.StatusGatewayTimeout, "timeout", "request timed out")
	default:
		log.Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
