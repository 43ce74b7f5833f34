// Package metrics содержит коллекторы Prometheus сервиса.
// Регистрируются в реестре по умолчанию, который отдаёт /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "social"

var (
	votes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Applied vote toggles by content kind and transition (added/removed/flipped).",
	}, []string{"kind", "transition"})

	denials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visibility_denials_total",
		Help:      "Items hidden from a viewer by reason.",
	}, []string{"reason"})

	unbans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unbans_total",
		Help:      "Removed bans by source (manual/sweeper).",
	}, []string{"source"})

	replays = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Toggle requests answered from an already claimed idempotency key.",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern, method and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
)

// Источники снятия бана.
const (
	UnbanManual  = "manual"
	UnbanSweeper = "sweeper"
)

// Vote учитывает применённое переключение голоса.
func Vote(kind, transition string) {
	votes.WithLabelValues(kind, transition).Inc()
}

// Denied учитывает элемент, скрытый от зрителя.
func Denied(reason string) {
	denials.WithLabelValues(reason).Inc()
}

// Unban учитывает снятый бан.
func Unban(source string) {
	unbans.WithLabelValues(source).Inc()
}

// Replay учитывает повтор запроса с занятым ключом идемпотентности.
func Replay() {
	replays.Inc()
}

// ObserveHTTP учитывает завершённый HTTP-запрос.
func ObserveHTTP(route, method string, code int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}

	httpDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(d.Seconds())
}
