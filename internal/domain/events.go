package domain

import "time"

// Event types
const (
	EventTypeEscrowOpened          = "escrow.opened"
	EventTypeEscrowStatusChanged   = "escrow.status_changed"
	EventTypeContributionInitiated = "contribution.initiated"
	EventTypeContributionConfirmed = "contribution.confirmed"
	EventTypeContributionFailed    = "contribution.failed"
	EventTypePayoutReleased        = "payout.released"
)

// Aggregate types
const (
	AggregateTypeEscrow       = "escrow_account"
	AggregateTypeContribution = "contribution"
	AggregateTypePayout       = "payout"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// ContributionEventPayload builds the outbox payload for a contribution.
func ContributionEventPayload(c *Contribution) map[string]any {
	payload := map[string]any{
		"contribution_id":   c.ID,
		"escrow_account_id": c.EscrowAccountID,
		"user_id":           c.UserID,
		"amount":            c.Amount.String(),
		"currency":          c.Currency,
		"gateway_order_id":  c.GatewayOrderID,
		"status":            string(c.Status),
	}
	if c.FailureReason != "" {
		payload["failure_reason"] = c.FailureReason
	}
	return payload
}

// PayoutEventPayload builds the outbox payload for a payout.
func PayoutEventPayload(p *Payout) map[string]any {
	return map[string]any{
		"payout_id":         p.ID,
		"escrow_account_id": p.EscrowAccountID,
		"winner_user_id":    p.WinnerUserID,
		"cycle_month":       p.CycleMonth,
		"gross_pool_amount": p.GrossPoolAmount.String(),
		"commission_amount": p.CommissionAmt.String(),
		"net_payout_amount": p.NetPayoutAmount.String(),
		"risk_score":        p.RiskScore,
	}
}
