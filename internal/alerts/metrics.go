package alerts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindsaathi_alert_ticks_total",
		Help: "Alert job ticks started.",
	}, []string{"job"})

	sentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindsaathi_alerts_sent_total",
		Help: "Alert messages accepted by the SMS gateway.",
	}, []string{"job"})

	skippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindsaathi_alerts_skipped_total",
		Help: "Alerts not sent, by reason.",
	}, []string{"job", "reason"})

	tickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mindsaathi_alert_tick_duration_seconds",
		Help:    "Wall time of one alert job tick.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)
