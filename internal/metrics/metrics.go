package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	OrdersCreated   prometheus.Counter
	EventsPublished prometheus.Counter
}

// New registers the service metrics on the default registry; call once per
// process.
func New(service string) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "practica4",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "practica4",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "practica4",
		Subsystem: service,
		Name:      "orders_created_total",
		Help:      "Total number of successfully created orders.",
	})
	eventsPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "practica4",
		Subsystem: service,
		Name:      "outbox_events_published_total",
		Help:      "Total number of outbox events delivered to the broker.",
	})

	prometheus.MustRegister(requests, latency, ordersCreated, eventsPublished)
	return &Metrics{
		Requests:        requests,
		LatencyMS:       latency,
		OrdersCreated:   ordersCreated,
		EventsPublished: eventsPublished,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
