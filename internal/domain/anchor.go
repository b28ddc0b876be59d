package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AnchorKind identifies what a settled transaction summary describes.
type AnchorKind string

const (
	AnchorKindContribution AnchorKind = "contribution"
	AnchorKindPayout       AnchorKind = "payout"
)

// AnchorSummary is the fingerprint of a settled transaction submitted to the
// external ledger. Field order is fixed so the encoding is stable.
type AnchorSummary struct {
	Kind            AnchorKind      `json:"kind"`
	RecordID        string          `json:"record_id"`
	EscrowAccountID string          `json:"escrow_account_id"`
	UserID          string          `json:"user_id"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference"`
	SettledAt       time.Time       `json:"settled_at"`
}

// Canonical returns the stable encoding hashed by anchoring ledgers.
func (s AnchorSummary) Canonical() []byte {
	s.SettledAt = s.SettledAt.UTC().Truncate(time.Microsecond)
	data, _ := json.Marshal(s)
	return data
}

// ContributionAnchor summarises a confirmed contribution.
func ContributionAnchor(c *Contribution) AnchorSummary {
	settledAt := c.UpdatedAt
	if c.SettledAt != nil {
		settledAt = *c.SettledAt
	}
	return AnchorSummary{
		Kind:            AnchorKindContribution,
		RecordID:        c.ID,
		EscrowAccountID: c.EscrowAccountID,
		UserID:          c.UserID,
		Amount:          c.Amount,
		Reference:       c.GatewayOrderID,
		SettledAt:       settledAt,
	}
}

// PayoutAnchor summarises a released payout.
func PayoutAnchor(p *Payout) AnchorSummary {
	return AnchorSummary{
		Kind:            AnchorKindPayout,
		RecordID:        p.ID,
		EscrowAccountID: p.EscrowAccountID,
		UserID:          p.WinnerUserID,
		Amount:          p.NetPayoutAmount,
		Reference:       p.GrossPoolAmount.String(),
		SettledAt:       p.CreatedAt,
	}
}
