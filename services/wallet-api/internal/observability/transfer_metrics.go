package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wallet_transfers",
			Name:      "completed_total",
			Help:      "Transfers committed to the ledger",
		},
	)

	TransfersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_transfers",
			Name:      "rejected_total",
			Help:      "Transfers refused or failed, by reason",
		},
		[]string{"reason"},
	)

	TransferAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wallet_transfers",
			Name:      "amount",
			Help:      "Committed transfer amounts in minor units",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	TransferLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wallet_transfers",
			Name:      "duration_seconds",
			Help:      "Time spent inside the transfer transaction",
			Buckets:   prometheus.DefBuckets,
		},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_transfers",
			Name:      "event_publish_failed_total",
			Help:      "Transfer events that could not be handed to Kafka",
		},
		[]string{"topic"},
	)

	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wallet_users",
			Name:      "signups_total",
			Help:      "Signup attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// Rejection reasons used as TransfersRejected labels.
const (
	ReasonInvalidAmount     = "invalid_amount"
	ReasonAccountNotFound   = "account_not_found"
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonFailed            = "failed"
)
