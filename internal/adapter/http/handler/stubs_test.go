package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}

type escrowServiceStub struct {
	openFn      func(ctx context.Context, input usecase.OpenAccountInput) (*domain.EscrowAccount, error)
	balanceFn   func(ctx context.Context, id string) (*domain.EscrowAccount, error)
	byGroupFn   func(ctx context.Context, groupID string) (*domain.EscrowAccount, error)
	listFn      func(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error)
	setStatusFn func(ctx context.Context, id string, status domain.EscrowStatus, reason string) (*domain.EscrowAccount, error)
}

func (s *escrowServiceStub) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.EscrowAccount, error) {
	return s.openFn(ctx, input)
}

func (s *escrowServiceStub) GetBalance(ctx context.Context, id string) (*domain.EscrowAccount, error) {
	return s.balanceFn(ctx, id)
}

func (s *escrowServiceStub) GetByGroup(ctx context.Context, groupID string) (*domain.EscrowAccount, error) {
	return s.byGroupFn(ctx, groupID)
}

func (s *escrowServiceStub) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.EscrowAccount, error) {
	return s.listFn(ctx, limit, offset)
}

func (s *escrowServiceStub) SetStatus(ctx context.Context, id string, status domain.EscrowStatus, reason string) (*domain.EscrowAccount, error) {
	return s.setStatusFn(ctx, id, status, reason)
}

type freezeServiceStub struct {
	freezeFn   func(ctx context.Context, id, reason string) (*domain.EscrowAccount, error)
	unfreezeFn func(ctx context.Context, id string) (*domain.EscrowAccount, error)
}

func (s *freezeServiceStub) Freeze(ctx context.Context, id, reason string) (*domain.EscrowAccount, error) {
	return s.freezeFn(ctx, id, reason)
}

func (s *freezeServiceStub) Unfreeze(ctx context.Context, id string) (*domain.EscrowAccount, error) {
	return s.unfreezeFn(ctx, id)
}

type settlementServiceStub struct {
	initiateFn func(ctx context.Context, input usecase.InitiateContributionInput) (*domain.Contribution, error)
	confirmFn  func(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error)
	failFn     func(ctx context.Context, orderID, reason string) (*domain.Contribution, error)
	getFn      func(ctx context.Context, id string) (*domain.Contribution, error)
	listFn     func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error)
}

func (s *settlementServiceStub) InitiateContribution(ctx context.Context, input usecase.InitiateContributionInput) (*domain.Contribution, error) {
	return s.initiateFn(ctx, input)
}

func (s *settlementServiceStub) ConfirmContribution(ctx context.Context, orderID, paymentRef string) (*domain.Contribution, error) {
	return s.confirmFn(ctx, orderID, paymentRef)
}

func (s *settlementServiceStub) FailContribution(ctx context.Context, orderID, reason string) (*domain.Contribution, error) {
	return s.failFn(ctx, orderID, reason)
}

func (s *settlementServiceStub) GetContribution(ctx context.Context, id string) (*domain.Contribution, error) {
	return s.getFn(ctx, id)
}

func (s *settlementServiceStub) ListContributions(ctx context.Context, accountID string, limit, offset int) ([]*domain.Contribution, error) {
	return s.listFn(ctx, accountID, limit, offset)
}

type payoutServiceStub struct {
	releaseFn func(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error)
	getFn     func(ctx context.Context, id string) (*domain.Payout, error)
	listFn    func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error)
}

func (s *payoutServiceStub) ReleasePayout(ctx context.Context, input usecase.ReleasePayoutInput) (*domain.Payout, error) {
	return s.releaseFn(ctx, input)
}

func (s *payoutServiceStub) GetPayout(ctx context.Context, id string) (*domain.Payout, error) {
	return s.getFn(ctx, id)
}

func (s *payoutServiceStub) ListPayouts(ctx context.Context, accountID string, limit, offset int) ([]*domain.Payout, error) {
	return s.listFn(ctx, accountID, limit, offset)
}
