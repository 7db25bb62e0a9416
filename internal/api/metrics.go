package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/formsend/client-go/internal/apierrors"
)

const (
	outcomeSuccess        = "success"
	outcomeTransportError = "transport_error"
	outcomeProviderError  = "provider_error"
	outcomeDecodeError    = "decode_error"
)

// Metrics records request counts and latencies per action.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. When the
// collectors are already registered (a second client on the same
// registry), the existing ones are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sendgrid",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "Number of SendGrid API requests by action, method and outcome.",
	}, []string{"action", "method", "outcome"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sendgrid",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "Latency of SendGrid API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action", "method"})

	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		requests = existing
	}

	if err := reg.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		duration = existing
	}

	return &Metrics{requests: requests, duration: duration}, nil
}

func (m *Metrics) observe(action, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(action, method, outcome).Inc()
	m.duration.WithLabelValues(action, method).Observe(elapsed.Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, apierrors.ErrProvider):
		return outcomeProviderError
	case errors.Is(err, apierrors.ErrDecode):
		return outcomeDecodeError
	default:
		return outcomeTransportError
	}
}
