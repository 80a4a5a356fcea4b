package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var HistogramBuckets = []float64{
	// fast: 0 - 500ms
	25, 50, 75, 100, 150, 200, 300, 400, 500,
	// gateway round trips usually land here
	750, 1000, 1250, 1500, 1750, 2000,
	// slow: 2s - 15s
	2500, 3000, 4000, 5000, 7500, 10000, 15000,
	// gateway timeout territory
	20000, 30000, 60000,
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	switch m.Type {
	case "counter_vec":
		return prometheus.NewCounterVec(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "counter":
		return prometheus.NewCounter(prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description})
	case "gauge_vec":
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "gauge":
		return prometheus.NewGauge(prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description})
	case "histogram_vec":
		return prometheus.NewHistogramVec(prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets}, m.Args)
	case "histogram":
		return prometheus.NewHistogram(prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets})
	case "summary_vec":
		return prometheus.NewSummaryVec(prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description}, m.Args)
	case "summary":
		return prometheus.NewSummary(prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description})
	}
	return nil
}

var metricPaymentTransition = &Metric{
	ID:          "paymentTransition",
	Name:        "transition_total",
	Description: "Payment state transitions applied, partitioned by trigger and target status.",
	Type:        "counter_vec",
	Args:        []string{"source", "status"},
}

var metricGatewayCall = &Metric{
	ID:          "gatewayCall",
	Name:        "call_dur_ms",
	Description: "PayOS API latency in milliseconds, partitioned by operation and outcome.",
	Type:        "histogram_vec",
	Args:        []string{"op", "outcome"},
}

var (
	paymentTransition = NewMetric(metricPaymentTransition, "payment").(*prometheus.CounterVec)
	gatewayCall       = NewMetric(metricGatewayCall, "payos").(*prometheus.HistogramVec)
)

func init() {
	prometheus.MustRegister(paymentTransition, gatewayCall)
}

// ObservePaymentTransition counts one applied state transition.
func ObservePaymentTransition(source, status string) {
	paymentTransition.WithLabelValues(source, status).Inc()
}

// ObserveGatewayCall records one gateway round trip.
func ObserveGatewayCall(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	gatewayCall.WithLabelValues(op, outcome).Observe(MillisecondsSince(start))
}

func MillisecondsSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

const (
	RefererKey = "X-Referer"
)
