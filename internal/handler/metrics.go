package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnel_orders_created_total",
		Help: "Orders created against the payment processor.",
	})
	ordersCapturedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnel_orders_captured_total",
		Help: "Successful payment captures.",
	})
	leadsCapturedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "funnel_leads_captured_total",
		Help: "Leads stored from the capture endpoints.",
	})
	funnelAdvancesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "funnel_advances_total",
		Help: "Funnel stage transitions by origin stage and decision.",
	}, []string{"stage", "decision"})
)
