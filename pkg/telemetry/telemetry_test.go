package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"fuzzbank/internal/types"
)

func TestCampaignResource(t *testing.T) {
	res := campaignResource("fuzzbank", types.CampaignID("c-1"))

	attrs := res.Attributes()
	assert.Contains(t, attrs, attribute.String("service.name", "fuzzbank"))
	assert.Contains(t, attrs, attribute.String("fuzzbank.campaign.id", "c-1"))
}

func TestTracerFactoryWithoutTelemetry(t *testing.T) {
	f := NewTracerFactory(TracerFactoryParams{})

	tracer := f.NewTracer(context.Background(), "campaign_epoch")
	assert.IsType(t, &DummyTracer{}, tracer)

	// the no-op tracer must be safe to drive like a real one
	tracer.Start()
	tracer.AddEvent("testcase_retained", attribute.Int("corpus_id", 0))
	tracer.SetStatus(codes.Error, "nothing to schedule")
	assert.Same(t, tracer, tracer.Spawn("child"))
	tracer.End()
}
