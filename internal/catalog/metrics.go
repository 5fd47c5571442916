package catalog

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	waits    prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mtgprice",
			Subsystem: "catalog",
			Name:      "requests_total",
			Help:      "Catalog HTTP requests by operation and status code.",
		}, []string{"op", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mtgprice",
			Subsystem: "catalog",
			Name:      "request_duration_seconds",
			Help:      "Catalog HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		waits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mtgprice",
			Subsystem: "catalog",
			Name:      "rate_limit_wait_seconds",
			Help:      "Time spent waiting on the catalog rate limiter.",
			Buckets:   []float64{0, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.waits)
	}
	return m
}

// observe records one HTTP attempt. code 0 means the request never got a response.
func (m *metrics) observe(op string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(op, label).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *metrics) observeWait(d time.Duration) {
	if m == nil {
		return
	}
	m.waits.Observe(d.Seconds())
}
