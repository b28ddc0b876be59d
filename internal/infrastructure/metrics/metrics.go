package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Contribution metrics
	ContributionsInitiated prometheus.Counter
	ContributionsSettled   *prometheus.CounterVec
	DuplicateCallbacks     prometheus.Counter
	ContributionAmount     prometheus.Histogram
	SettlementDuration     prometheus.Histogram
	StaleContributions     prometheus.Counter

	// Payout metrics
	PayoutsReleased prometheus.Counter
	PayoutsBlocked  prometheus.Counter
	PayoutAmount    prometheus.Histogram
	RiskScores      prometheus.Histogram
	RiskFailClosed  prometheus.Counter

	// Escrow metrics
	EscrowAccountsOpened prometheus.Counter
	EscrowStatusChanges  *prometheus.CounterVec
	EscrowOperations     *prometheus.CounterVec

	// Anchoring metrics
	Anchors *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		ContributionsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_contributions_initiated_total",
			Help: "Total number of contribution orders created",
		}),
		ContributionsSettled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_contributions_settled_total",
				Help: "Total number of contributions reaching a terminal status",
			},
			[]string{"status"},
		),
		DuplicateCallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_duplicate_callbacks_total",
			Help: "Gateway callbacks received for already-terminal contributions",
		}),
		ContributionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chitledger_contribution_amount",
			Help:    "Confirmed contribution amounts",
			Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 1000000},
		}),
		SettlementDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chitledger_settlement_duration_seconds",
			Help:    "Duration of contribution confirmation",
			Buckets: prometheus.DefBuckets,
		}),
		StaleContributions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_stale_contributions_expired_total",
			Help: "Contributions expired by the reconciliation sweep",
		}),

		PayoutsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_payouts_released_total",
			Help: "Total number of payouts released",
		}),
		PayoutsBlocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_payouts_blocked_total",
			Help: "Total number of payouts blocked by the risk gate",
		}),
		PayoutAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chitledger_payout_gross_amount",
			Help:    "Gross pool amount of released payouts",
			Buckets: []float64{10000, 50000, 100000, 500000, 1000000, 5000000},
		}),
		RiskScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chitledger_risk_score",
			Help:    "Risk scores returned for payout candidates",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		RiskFailClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_risk_fail_closed_total",
			Help: "Risk checks that errored or timed out and scored as maximal risk",
		}),

		EscrowAccountsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chitledger_escrow_accounts_opened_total",
			Help: "Total number of escrow accounts opened",
		}),
		EscrowStatusChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_escrow_status_changes_total",
				Help: "Escrow status transitions by target status",
			},
			[]string{"status"},
		),
		EscrowOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_escrow_operations_total",
				Help: "Escrow balance operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),

		Anchors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_anchors_total",
				Help: "Ledger anchoring attempts by record kind and outcome",
			},
			[]string{"kind", "outcome"},
		),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_events_published_total",
				Help: "Outbox events published by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),

		CacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chitledger_cache_lookups_total",
				Help: "Cache lookups by cache and result",
			},
			[]string{"cache", "result"},
		),
	}
}
