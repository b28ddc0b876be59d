package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxBodyBytes    = 1 << 20
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err to a status and writes it, including field
// details for validation failures.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{Error: message}

	var fields domain.ValidationErrors
	status := mapDomainError(err)
	if errors.As(err, &fields) {
		resp.Fields = fields
	}
	if status != http.StatusInternalServerError {
		resp.Message = err.Error()
	}

	writeJSON(w, status, resp)
}

// decodeJSON decodes a bounded request body and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrGroupNotFound),
		errors.Is(err, domain.ErrContributionNotFound),
		errors.Is(err, domain.ErrPayoutNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidIDFormat),
		errors.Is(err, domain.ErrReasonRequired),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidCycleMonth),
		errors.Is(err, domain.ErrMissingPaymentRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMemberNotVerified),
		errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAccountNotActive),
		errors.Is(err, domain.ErrAccountClosed),
		errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrPayoutAlreadyReleased):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientLockedFunds),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrGatewayVerificationFailed),
		errors.Is(err, domain.ErrPayoutBlockedByRisk):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrGatewayUnavailable),
		errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// pagination reads limit and offset, clamped to sane bounds.
func pagination(r *http.Request) (limit, offset int) {
	limit = parseIntQuery(r, "limit", defaultPageSize)
	offset = parseIntQuery(r, "offset", 0)
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
