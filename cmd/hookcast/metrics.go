package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhooksReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookcast_webhooks_total",
		Help: "Received webhook deliveries by event type and outcome",
	}, []string{"type", "outcome"})

	notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hookcast_notifications_total",
		Help: "Notification deliveries by provider and outcome",
	}, []string{"provider", "outcome"})

	perf = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "hookcast_perf",
		Help: "Performance of functions",
	}, []string{"function"})
)
