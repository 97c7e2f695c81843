// Package metrics declares the console's prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_upstream_requests_total",
		Help: "Upstream API calls by method, resource and outcome",
	}, []string{"method", "resource", "outcome"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "console_upstream_request_duration_seconds",
		Help:    "Upstream API call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	pageFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_page_fallbacks_total",
		Help: "Page loads that substituted bundled demo data",
	}, []string{"page"})

	staleResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_page_stale_responses_total",
		Help: "Page load results dropped because a newer load was applied first",
	}, []string{"page"})

	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_session_store_operations_total",
		Help: "Session store operations by backend, operation and result",
	}, []string{"backend", "op", "result"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "console_active_sessions",
		Help: "Browser sessions currently held in memory",
	})

	uiChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "console_ui_store_changes_total",
		Help: "Session UI store mutations by field",
	}, []string{"field"})

	simulatedReplies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "console_chat_simulated_replies_total",
		Help: "Agent chat replies answered by the local simulator",
	})
)

// Upstream records apiclient calls. It satisfies apiclient.Observer.
type Upstream struct{}

// ObserveCall records one upstream request.
func (Upstream) ObserveCall(method, resource, outcome string, elapsed time.Duration) {
	upstreamRequests.WithLabelValues(method, resource, outcome).Inc()
	upstreamLatency.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// Pages records page controller events. It satisfies pages.Observer.
type Pages struct{}

// Fallback counts a load that fell back to demo data.
func (Pages) Fallback(page string) { pageFallbacks.WithLabelValues(page).Inc() }

// Stale counts a dropped out-of-order response.
func (Pages) Stale(page string) { staleResponses.WithLabelValues(page).Inc() }

// StoreOp counts a session store operation.
func StoreOp(backend, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOperations.WithLabelValues(backend, op, result).Inc()
}

// SetActiveSessions publishes the session registry size.
func SetActiveSessions(n int) { activeSessions.Set(float64(n)) }

// UIChange counts one session UI store mutation.
func UIChange(field string) { uiChanges.WithLabelValues(field).Inc() }

// SimulatedReply counts one canned chat reply.
func SimulatedReply() { simulatedReplies.Inc() }

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
