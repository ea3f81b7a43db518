package reporting

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Agent metrics.  The caches themselves don't record anything.
var (
	headersProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nel_client_headers",
		Help: "The number of Report-To and NEL headers processed, by result",
	}, []string{"header", "result"})
	endpointSelections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nel_client_endpoint_selections",
		Help: "The number of endpoint lookups, by whether an endpoint was found",
	}, []string{"result"})
	uploadResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nel_client_upload_results",
		Help: "The number of upload outcomes recorded against endpoints",
	}, []string{"result"})
	reportsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nel_client_reports_queued",
		Help: "The number of NEL reports queued for upload",
	})
	reportsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nel_client_reports_dropped",
		Help: "The number of NEL reports not queued, by reason",
	}, []string{"reason"})
	reportsEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nel_client_reports_evicted",
		Help: "The number of queued NEL reports removed for being too old",
	})
	reportsPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nel_client_reports_pending",
		Help: "The number of NEL reports currently waiting for upload",
	})
)

// MetricsHandler returns an http.Handler that serves Prometheus
// metrics, for hosts that want to mount it on their own mux.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
