package adapters

import (
	"errors"
	"strconv"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"target-platform/internal/core"
	"target-platform/internal/ports"
	"target-platform/internal/types"
)

const metricsNamespace = "target_platform"

// MetricsTextfileAdapter records resolution metrics in a private registry
// and writes them in the node exporter textfile format on Flush.
type MetricsTextfileAdapter struct {
	Path string

	registry      *prometheus.Registry
	resolutions   *prometheus.CounterVec
	locationUnits *prometheus.GaugeVec
	duration      *prometheus.HistogramVec
	resolvedUnits prometheus.Gauge
}

func NewMetricsTextfileAdapter(path string) *MetricsTextfileAdapter {
	a := &MetricsTextfileAdapter{
		Path:     path,
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolutions_total",
			Help:      "Target definition resolutions by result.",
		}, []string{"result"}),
		locationUnits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "location_units",
			Help:      "Units resolved per location.",
		}, []string{"location", "mode"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "location_duration_seconds",
			Help:      "Time spent resolving one location.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"mode"}),
		resolvedUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "resolved_units",
			Help:      "Units in the last resolved target platform.",
		}),
	}
	a.registry.MustRegister(a.resolutions, a.locationUnits, a.duration, a.resolvedUnits)
	return a
}

func (a *MetricsTextfileAdapter) ObserveResolution(content types.ResolvedContent, err error) {
	a.resolutions.WithLabelValues(resultLabel(err)).Inc()
	for _, diagnostic := range content.Diagnostics {
		if diagnostic.Status == types.LocationStatusSkipped {
			continue
		}
		name := diagnostic.Name
		if name == "" {
			name = strconv.Itoa(diagnostic.Index)
		}
		a.locationUnits.WithLabelValues(name, string(diagnostic.Mode)).Set(float64(diagnostic.UnitCount))
		a.duration.WithLabelValues(string(diagnostic.Mode)).Observe(float64(diagnostic.DurationMs) / 1000)
	}
	if err == nil {
		a.resolvedUnits.Set(float64(len(content.Units)))
	}
}

func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var resolutionErr *core.ResolutionError
	if errors.As(err, &resolutionErr) {
		return string(resolutionErr.Innermost().Kind)
	}
	return "error"
}

func (a *MetricsTextfileAdapter) Flush() error {
	if a.Path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.Path, a.registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics textfile").
			WithCause(err)
	}
	return nil
}

var _ ports.MetricsPort = (*MetricsTextfileAdapter)(nil)
