package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and dispute handling
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (payout.release, escrow.freeze, etc.)
	ResourceType string // Type of resource (escrow_account, contribution, payout)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure, blocked
	ErrorMessage string // Reason for failure or block
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Escrow actions
	AuditActionEscrowOpen     AuditAction = "escrow.open"
	AuditActionEscrowFreeze   AuditAction = "escrow.freeze"
	AuditActionEscrowUnfreeze AuditAction = "escrow.unfreeze"
	AuditActionEscrowStatus   AuditAction = "escrow.set_status"
	AuditActionEscrowCredit   AuditAction = "escrow.credit"
	AuditActionEscrowDebit    AuditAction = "escrow.debit"

	// Contribution actions
	AuditActionContributionConfirm AuditAction = "contribution.confirm"
	AuditActionContributionFail    AuditAction = "contribution.fail"
	AuditActionContributionExpire  AuditAction = "contribution.expire"
	// A verified capture for a record that had already failed; needs a refund.
	AuditActionContributionOrphan  AuditAction = "contribution.captured_after_failure"

	// Payout actions
	AuditActionPayoutRelease AuditAction = "payout.release"
	AuditActionPayoutBlocked AuditAction = "payout.blocked"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusBlocked AuditStatus = "blocked"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
