package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPickupMetricsExportCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPickupMetrics(reg)

	m.ObserveAccepted("on_time", 2)
	m.ObserveAccepted("on_time", 1)
	m.ObserveRejected("QUOTA_EXCEEDED")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "pickup_submissions_total", "timing_status", "on_time"); err != nil {
		t.Fatalf("fetch submissions: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submissions=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "pickup_rejections_total", "code", "QUOTA_EXCEEDED"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}
}

func TestPickupMetricsNilReceiverIsSafe(t *testing.T) {
	var m *PickupMetrics
	m.ObserveAccepted("late", 1)
	m.ObserveRejected("FORBIDDEN")

	empty := NewPickupMetrics(nil)
	empty.ObserveAccepted("late", 1)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, labelName, labelValue string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == labelName && label.GetValue() == labelValue {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %s{%s=%q} not found", name, labelName, labelValue)
}
