package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/usecase"
)

// ReconciliationService defines the behavior needed by ReconciliationHandler.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler exposes ledger consistency checks.
type ReconciliationHandler struct {
	reconciliationUC ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconciliationUC ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{reconciliationUC: reconciliationUC}
}

// ReconcileAccount checks one account's totals against its ledgers.
func (h *ReconciliationHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciliationUC.ReconcileAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to reconcile account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// Report reconciles every account.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, "failed to generate reconciliation report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReportFromUseCase(report))
}
