package node_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/storacha/evmfixture/pkg/node"
	"github.com/storacha/evmfixture/pkg/testutil/hardhatsim"
)

func TestCallTelemetry(t *testing.T) {
	ctx := t.Context()
	sim := hardhatsim.New()
	srv := httptest.NewServer(sim.Server())
	t.Cleanup(srv.Close)

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	client, err := node.Dial(ctx, srv.URL, node.WithTracerProvider(tp), node.WithMeterProvider(mp))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	_, err = client.Send(ctx, node.MethodSnapshot)
	require.NoError(t, err)
	require.Error(t, client.Call(ctx, nil, "hardhat_doesNotExist"))
	srv.Close()
	require.Error(t, client.Call(ctx, nil, node.MethodMine))

	ended := spans.Ended()
	require.Len(t, ended, 3)
	require.Equal(t, node.MethodSnapshot, ended[0].Name())
	require.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Equal(t, codes.Error, ended[2].Status().Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "evmfixture.node.calls" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				method, _ := dp.Attributes.Value("rpc.method")
				outcome, _ := dp.Attributes.Value("outcome")
				counts[method.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	require.Equal(t, map[string]int64{
		"evm_snapshot/" + node.OutcomeOK:               1,
		"hardhat_doesNotExist/" + node.OutcomeRPCError: 1,
		"evm_mine/" + node.OutcomeTransportError:       1,
	}, counts)
}
