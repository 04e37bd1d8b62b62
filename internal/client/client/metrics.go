package client

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
	expiries  prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdesk_client_requests_total",
				Help: "API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salesdesk_client_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salesdesk_client_token_refreshes_total",
				Help: "Token refresh cycles by outcome",
			},
			[]string{"outcome"},
		),
		expiries: f.NewCounter(prometheus.CounterOpts{
			Name: "salesdesk_client_session_expiries_total",
			Help: "Hard logouts caused by unrecoverable authentication failures",
		}),
	}
}

// observe records one HTTP exchange. status 0 means no response.
func (m *metrics) observe(method string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, statusClass(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
