package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestRegistryMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewRegistryMetrics(reg)

	metrics.IncItemSubmitted("lost")
	metrics.IncItemSubmitted("lost")
	metrics.ObserveMatchScan("lost", 50*time.Millisecond)
	metrics.IncMatchFound()
	metrics.IncNotificationCreated("match")
	metrics.IncClaimAttempt("accepted")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "items_submitted_total", "type", "lost"); err != nil {
		t.Fatalf("fetch submitted: %v", err)
	} else if got != 2 {
		t.Fatalf("expected submitted=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "notifications_created_total", "kind", "match"); err != nil {
		t.Fatalf("fetch notifications: %v", err)
	} else if got != 1 {
		t.Fatalf("expected notifications=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "claim_attempts_total", "outcome", "accepted"); err != nil {
		t.Fatalf("fetch claims: %v", err)
	} else if got != 1 {
		t.Fatalf("expected claims=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "match_scan_duration_seconds", "type", "lost"); err != nil {
		t.Fatalf("fetch scan duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestRegistryMetricsNilSafe(t *testing.T) {
	var metrics *RegistryMetrics
	metrics.IncItemSubmitted("found")
	metrics.IncItemClaimed()
	metrics.ObserveMatchScan("found", time.Millisecond)
	metrics.IncMatchFound()
	metrics.IncNotificationCreated("claim")
	metrics.IncClaimAttempt("rejected")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
