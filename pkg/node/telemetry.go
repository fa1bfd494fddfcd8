package node

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/storacha/evmfixture/pkg/evmerrors"
)

const instrumentationName = "github.com/storacha/evmfixture/pkg/node"

const (
	callsMetric   = "evmfixture.node.calls"
	latencyMetric = "evmfixture.node.call.duration"
)

// Outcome values of the outcome attribute.
const (
	OutcomeOK             = "ok"
	OutcomeRPCError       = "rpc_error"
	OutcomeTransportError = "transport_error"
)

type Option func(*options)

type options struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithTracerProvider sets where call spans go. Defaults to the global
// provider, a no-op unless the process installs one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMeterProvider sets where call metrics go. Defaults to the global
// provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

type instruments struct {
	tracer  trace.Tracer
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

func newInstruments(opts ...Option) instruments {
	o := options{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	calls, err := meter.Int64Counter(callsMetric,
		metric.WithDescription("JSON-RPC calls sent to the node"),
	)
	if err != nil {
		log.Warnf("failed to create counter %s: %s", callsMetric, err)
		calls = noop.Int64Counter{}
	}
	latency, err := meter.Float64Histogram(latencyMetric,
		metric.WithDescription("Round trip time of JSON-RPC calls to the node"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		log.Warnf("failed to create histogram %s: %s", latencyMetric, err)
		latency = noop.Float64Histogram{}
	}

	return instruments{
		tracer:  o.tracerProvider.Tracer(instrumentationName),
		calls:   calls,
		latency: latency,
	}
}

func (i instruments) start(ctx context.Context, method string) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "jsonrpc"),
			attribute.String("rpc.method", method),
		),
	)
}

func (i instruments) end(ctx context.Context, span trace.Span, method string, elapsed time.Duration, err error) {
	outcome := OutcomeOK
	switch {
	case err == nil:
	case evmerrors.IsRPCError(err):
		outcome = OutcomeRPCError
	default:
		outcome = OutcomeTransportError
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	span.End()

	attrs := metric.WithAttributes(
		attribute.String("rpc.method", method),
		attribute.String("outcome", outcome),
	)
	i.calls.Add(ctx, 1, attrs)
	i.latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}
