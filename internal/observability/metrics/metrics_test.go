package metrics

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("tenant_id", "agency-1"),
		attribute.String("transaction_id", "tx-1"),
		attribute.String("outcome", "success"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "tenant_id" && attrs[1].Key != "tenant_id" {
		t.Fatalf("expected tenant_id to be retained")
	}
	if attrs[0].Key != "outcome" && attrs[1].Key != "outcome" {
		t.Fatalf("expected outcome to be retained")
	}
}

func TestNilMetricsRecordersAreNoops(t *testing.T) {
	var m *Metrics
	m.RecordNumberIssued(nil, "agency-1")
	m.RecordSubmission(nil, "agency-1", "failure", 502)
	m.RecordPoisonRejection(nil, "agency-1")
	m.RecordDownstreamLatency(nil, "agency-1", 0)
}
