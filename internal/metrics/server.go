package metrics

import (
	"context"
	"path"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

type ServerMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	f := promauto.With(reg)
	return &ServerMetrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "planta_server_requests_total",
			Help: "Total number of handled RPCs",
		}, []string{"method", "code"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planta_server_request_duration_seconds",
			Help:    "RPC latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"method"}),
	}
}

// UnaryServerInterceptor records count and latency per method.
func (m *ServerMetrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		method := path.Base(info.FullMethod)
		m.Requests.WithLabelValues(method, status.Code(err).String()).Inc()
		m.Duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return resp, err
	}
}
