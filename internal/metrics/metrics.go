package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "shpe_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shpe_http_request_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	EventSignIns = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shpe_event_signins_total", Help: "Total successful event sign-ins"},
	)
	CommitteeRequests = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shpe_committee_requests_total", Help: "Total committee join requests submitted"},
	)
	PushesSent = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shpe_pushes_sent_total", Help: "Total push notifications dispatched"},
	)
	PushesFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "shpe_pushes_failed_total", Help: "Total push notification dispatch failures"},
	)
)

func Register() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, EventSignIns, CommitteeRequests, PushesSent, PushesFailed)
}
