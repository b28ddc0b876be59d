package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
)

// CalculatorService defines the behavior needed by CalculatorHandler.
type CalculatorService interface {
	Estimate(in domain.CalculatorInput) (*domain.CalculatorResult, error)
	EstimateForGroup(ctx context.Context, groupID string) (*domain.CalculatorResult, error)
}

// CalculatorHandler serves payout estimates.
type CalculatorHandler struct {
	calculatorUC CalculatorService
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(calculatorUC CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorUC: calculatorUC}
}

// Estimate computes the split for an arbitrary configuration.
func (h *CalculatorHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req dto.EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	in, err := req.ToDomain()
	if err != nil {
		writeDomainError(w, "invalid estimate request", err)
		return
	}

	result, err := h.calculatorUC.Estimate(in)
	if err != nil {
		writeDomainError(w, "failed to estimate payout", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EstimateFromDomain(result))
}

// EstimateForGroup computes the split for a registered group.
func (h *CalculatorHandler) EstimateForGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	result, err := h.calculatorUC.EstimateForGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, "failed to estimate payout", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EstimateFromDomain(result))
}
