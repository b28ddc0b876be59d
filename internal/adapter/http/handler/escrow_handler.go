package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// EscrowService defines the behavior needed by EscrowHandler.
type EscrowService interface {
	OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.EscrowAccount, error)
	GetBalance(ctx context.Context, accountID string) (*domain.EscrowAccount, error)
	GetByGroup(ctx context.Context, chitGroupID string) (*domain.EscrowAccount, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error)
	SetStatus(ctx context.Context, accountID string, status domain.EscrowStatus, reason string) (*domain.EscrowAccount, error)
}

// FreezeService defines the behavior needed for administrative holds.
type FreezeService interface {
	Freeze(ctx context.Context, accountID, reason string) (*domain.EscrowAccount, error)
	Unfreeze(ctx context.Context, accountID string) (*domain.EscrowAccount, error)
}

// EscrowHandler handles escrow account requests.
type EscrowHandler struct {
	escrowUC EscrowService
	freezeUC FreezeService
}

// NewEscrowHandler creates a new EscrowHandler.
func NewEscrowHandler(escrowUC EscrowService, freezeUC FreezeService) *EscrowHandler {
	return &EscrowHandler{escrowUC: escrowUC, freezeUC: freezeUC}
}

// Open opens a group's escrow account, storing its payout rules.
func (h *EscrowHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenEscrowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid escrow request", err)
		return
	}

	account, err := h.escrowUC.OpenAccount(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to open escrow account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EscrowFromDomain(account))
}

// Get returns the account with its current balance.
func (h *EscrowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.escrowUC.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get escrow account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowFromDomain(account))
}

// GetByGroup returns the account belonging to a chit group.
func (h *EscrowHandler) GetByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	account, err := h.escrowUC.GetByGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, "failed to get escrow account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowFromDomain(account))
}

// List lists escrow accounts.
func (h *EscrowHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	accounts, err := h.escrowUC.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list escrow accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowsFromDomain(accounts))
}

// Close permanently closes an account.
func (h *EscrowHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.escrowUC.SetStatus(r.Context(), id, domain.EscrowStatusClosed, "")
	if err != nil {
		writeDomainError(w, "failed to close escrow account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowFromDomain(account))
}

// Freeze halts debits on an account.
func (h *EscrowHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.FreezeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := h.freezeUC.Freeze(r.Context(), id, req.Reason)
	if err != nil {
		writeDomainError(w, "failed to freeze escrow account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowFromDomain(account))
}

// Unfreeze restores an account to ACTIVE.
func (h *EscrowHandler) Unfreeze(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	account, err := h.freezeUC.Unfreeze(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to unfreeze escrow account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EscrowFromDomain(account))
}
