package delivery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeDelivered = "delivered"
	outcomeFailed    = "failed"
)

var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "heatmap",
		Subsystem: "telegram_bot",
		Name:      "delivery_requests_total",
		Help:      "Delivery requests by terminal outcome",
	},
	[]string{"outcome"},
)
