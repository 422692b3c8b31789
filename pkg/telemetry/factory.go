package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

type Tracer interface {
	Start()
	AddEvent(name string, attrs ...attribute.KeyValue)
	SetStatus(code codes.Code, message string)
	Spawn(spanName string) Tracer
	End()
}

type TracerKey struct{} // TracerKey is used to store and retrieve the tracer from the context

type TracerFactory struct {
	telemetry Telemetry
}

type TracerFactoryParams struct {
	fx.In
	Telemetry Telemetry `optional:"true"`
}

func NewTracerFactory(p TracerFactoryParams) *TracerFactory {
	return &TracerFactory{telemetry: p.Telemetry}
}

// NewTracer returns a new telemetry tracer for one campaign-level action.
func (t *TracerFactory) NewTracer(ctx context.Context, spanName string) Tracer {
	if t.telemetry == nil || t.telemetry.GetTracer() == nil {
		return &DummyTracer{}
	}
	return &telemetryTracer{
		ctx:      ctx,
		tracer:   t.telemetry.GetTracer(),
		spanName: spanName,
	}
}

type telemetryTracer struct {
	ctx      context.Context
	tracer   trace.Tracer
	spanName string
	span     trace.Span
}

func (t *telemetryTracer) Start() {
	t.ctx, t.span = t.tracer.Start(t.ctx, t.spanName)
}

func (t *telemetryTracer) AddEvent(name string, attrs ...attribute.KeyValue) {
	if t.span != nil {
		t.span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

func (t *telemetryTracer) SetStatus(code codes.Code, message string) {
	if t.span != nil {
		t.span.SetStatus(code, message)
	}
}

func (t *telemetryTracer) Spawn(spanName string) Tracer {
	return &telemetryTracer{
		ctx:      t.ctx,
		tracer:   t.tracer,
		spanName: spanName,
	}
}

func (t *telemetryTracer) End() {
	if t.span != nil {
		t.span.End()
	}
}

// A dummy tracer that does nothing when telemetry is not enabled
type DummyTracer struct{}

func (t *DummyTracer) Start()                                            {}
func (t *DummyTracer) AddEvent(name string, attrs ...attribute.KeyValue) {}
func (t *DummyTracer) SetStatus(code codes.Code, message string)         {}
func (t *DummyTracer) Spawn(spanName string) Tracer                      { return t }
func (t *DummyTracer) End()                                              {}
