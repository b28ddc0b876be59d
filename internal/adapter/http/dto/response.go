package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/usecase"
)

// EstimateResponse represents a payout split in API responses.
type EstimateResponse struct {
	TotalInvestment       decimal.Decimal `json:"total_investment"`
	CommissionAmount      decimal.Decimal `json:"commission_amount"`
	ContributionPerMember decimal.Decimal `json:"contribution_per_member"`
	InterestEarned        decimal.Decimal `json:"interest_earned"`
	FinalAmount           decimal.Decimal `json:"final_amount"`
}

// EstimateFromDomain converts a calculator result to response.
func EstimateFromDomain(r *domain.CalculatorResult) *EstimateResponse {
	return &EstimateResponse{
		TotalInvestment:       r.TotalInvestment,
		CommissionAmount:      r.CommissionAmount,
		ContributionPerMember: r.ContributionPerMember,
		InterestEarned:        r.InterestEarned,
		FinalAmount:           r.FinalAmount,
	}
}

// EscrowResponse represents an escrow account in API responses.
type EscrowResponse struct {
	ID             string          `json:"id"`
	ChitGroupID    string          `json:"chit_group_id"`
	Currency       string          `json:"currency"`
	TotalCollected decimal.Decimal `json:"total_collected"`
	TotalReleased  decimal.Decimal `json:"total_released"`
	LockedAmount   decimal.Decimal `json:"locked_amount"`
	Status         string          `json:"status"`
	FreezeReason   string          `json:"freeze_reason,omitempty"`
	FrozenAt       *time.Time      `json:"frozen_at,omitempty"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EscrowFromDomain converts domain escrow account to response.
func EscrowFromDomain(a *domain.EscrowAccount) *EscrowResponse {
	return &EscrowResponse{
		ID:             a.ID,
		ChitGroupID:    a.ChitGroupID,
		Currency:       a.Currency,
		TotalCollected: a.TotalCollected,
		TotalReleased:  a.TotalReleased,
		LockedAmount:   a.LockedAmount(),
		Status:         string(a.Status),
		FreezeReason:   a.FreezeReason,
		FrozenAt:       a.FrozenAt,
		Version:        a.Version,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// EscrowsFromDomain converts domain escrow accounts to responses.
func EscrowsFromDomain(accounts []*domain.EscrowAccount) []*EscrowResponse {
	result := make([]*EscrowResponse, len(accounts))
	for i, a := range accounts {
		result[i] = EscrowFromDomain(a)
	}
	return result
}

// ContributionResponse represents a contribution in API responses.
type ContributionResponse struct {
	ID                string          `json:"id"`
	EscrowAccountID   string          `json:"escrow_account_id"`
	UserID            string          `json:"user_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	GatewayOrderID    string          `json:"gateway_order_id"`
	GatewayPaymentRef string          `json:"gateway_payment_ref,omitempty"`
	Status            string          `json:"status"`
	FailureReason     string          `json:"failure_reason,omitempty"`
	AnchorHash        *string         `json:"anchor_hash,omitempty"`
	SettledAt         *time.Time      `json:"settled_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ContributionFromDomain converts domain contribution to response.
func ContributionFromDomain(c *domain.Contribution) *ContributionResponse {
	return &ContributionResponse{
		ID:                c.ID,
		EscrowAccountID:   c.EscrowAccountID,
		UserID:            c.UserID,
		Amount:            c.Amount,
		Currency:          c.Currency,
		GatewayOrderID:    c.GatewayOrderID,
		GatewayPaymentRef: c.GatewayPaymentRef,
		Status:            string(c.Status),
		FailureReason:     c.FailureReason,
		AnchorHash:        c.AnchorHash,
		SettledAt:         c.SettledAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ContributionsFromDomain converts domain contributions to responses.
func ContributionsFromDomain(contributions []*domain.Contribution) []*ContributionResponse {
	result := make([]*ContributionResponse, len(contributions))
	for i, c := range contributions {
		result[i] = ContributionFromDomain(c)
	}
	return result
}

// PayoutResponse represents a payout in API responses.
type PayoutResponse struct {
	ID              string          `json:"id"`
	EscrowAccountID string          `json:"escrow_account_id"`
	WinnerUserID    string          `json:"winner_user_id"`
	CycleMonth      int             `json:"cycle_month"`
	GrossPoolAmount decimal.Decimal `json:"gross_pool_amount"`
	CommissionAmt   decimal.Decimal `json:"commission_amt"`
	NetPayoutAmount decimal.Decimal `json:"net_payout_amount"`
	RiskScore       int             `json:"risk_score"`
	AnchorHash      *string         `json:"anchor_hash,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PayoutFromDomain converts domain payout to response.
func PayoutFromDomain(p *domain.Payout) *PayoutResponse {
	return &PayoutResponse{
		ID:              p.ID,
		EscrowAccountID: p.EscrowAccountID,
		WinnerUserID:    p.WinnerUserID,
		CycleMonth:      p.CycleMonth,
		GrossPoolAmount: p.GrossPoolAmount,
		CommissionAmt:   p.CommissionAmt,
		NetPayoutAmount: p.NetPayoutAmount,
		RiskScore:       p.RiskScore,
		AnchorHash:      p.AnchorHash,
		CreatedAt:       p.CreatedAt,
	}
}

// PayoutsFromDomain converts domain payouts to responses.
func PayoutsFromDomain(payouts []*domain.Payout) []*PayoutResponse {
	result := make([]*PayoutResponse, len(payouts))
	for i, p := range payouts {
		result[i] = PayoutFromDomain(p)
	}
	return result
}

// ReconciliationResponse represents one account's reconciliation check.
type ReconciliationResponse struct {
	AccountID         string          `json:"account_id"`
	Status            string          `json:"status"`
	TotalCollected    decimal.Decimal `json:"total_collected"`
	TotalReleased     decimal.Decimal `json:"total_released"`
	LockedAmount      decimal.Decimal `json:"locked_amount"`
	ConfirmedSum      decimal.Decimal `json:"confirmed_sum"`
	PayoutSum         decimal.Decimal `json:"payout_sum"`
	LockedNonNegative bool            `json:"locked_non_negative"`
	IsReconciled      bool            `json:"is_reconciled"`
	LastChecked       time.Time       `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:         r.AccountID,
		Status:            string(r.Status),
		TotalCollected:    r.TotalCollected,
		TotalReleased:     r.TotalReleased,
		LockedAmount:      r.LockedAmount,
		ConfirmedSum:      r.ConfirmedSum,
		PayoutSum:         r.PayoutSum,
		LockedNonNegative: r.LockedNonNegative,
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse summarises a full reconciliation run.
type ReconciliationReportResponse struct {
	TotalAccounts      int                       `json:"total_accounts"`
	ReconciledAccounts int                       `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReportFromUseCase converts a reconciliation report to response.
func ReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	out := &ReconciliationReportResponse{
		TotalAccounts:      r.TotalAccounts,
		ReconciledAccounts: r.ReconciledAccounts,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		out.Discrepancies[i] = ReconciliationFromUseCase(d)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
