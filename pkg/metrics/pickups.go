package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PickupMetrics records submission outcomes for operational dashboards.
type PickupMetrics struct {
	submissions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	photosSaved prometheus.Histogram
}

// NewPickupMetrics registers the pickup metrics on the provided registerer.
func NewPickupMetrics(reg prometheus.Registerer) *PickupMetrics {
	if reg == nil {
		return &PickupMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_submissions_total",
		Help: "Accepted pickup submissions by timing status.",
	}, []string{"timing_status"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_rejections_total",
		Help: "Rejected pickup submissions by error code.",
	}, []string{"code"})
	photosSaved := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pickup_photos_saved",
		Help:    "Photos persisted per accepted pickup.",
		Buckets: []float64{0, 1, 2, 3, 4},
	})
	reg.MustRegister(submissions, rejections, photosSaved)
	return &PickupMetrics{
		submissions: submissions,
		rejections:  rejections,
		photosSaved: photosSaved,
	}
}

// ObserveAccepted records a successful submission.
func (m *PickupMetrics) ObserveAccepted(timingStatus string, photoCount int) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(timingStatus)).Inc()
	m.photosSaved.Observe(float64(photoCount))
}

// ObserveRejected records a rejected submission by error code.
func (m *PickupMetrics) ObserveRejected(code string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
