package xmetrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestObserver(t *testing.T) (Observer, *tracetest.InMemoryExporter, *sdkmetric.ManualReader) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	obs, err := NewOTelObserver(
		WithInstrumentationName("test"),
		WithTracerProvider(tp),
		WithMeterProvider(mp),
	)
	require.NoError(t, err)
	return obs, exporter, reader
}

func collectTotal(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != metricOperationTotal {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("operation"))
				st, _ := dp.Attributes.Value(attribute.Key("status"))
				out[op.AsString()+"/"+st.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestOTelObserver_SpanAndMetrics(t *testing.T) {
	obs, exporter, reader := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{
		Component: "xrotate",
		Operation: "archive",
		Kind:      KindConsumer,
		Attrs:     []Attr{String("format", "gzip"), Int("level", 6), {Key: "", Value: 1}},
	})
	span.End(Result{Attrs: []Attr{Bool("removed", true)}})
	span.End(Result{Err: errors.New("ignored")})

	_, span = obs.Start(context.Background(), SpanOptions{Component: "xrotate", Operation: "prune"})
	span.End(Result{Err: errors.New("delete failure")})

	spans := exporter.GetSpans()
	require.Len(t, spans, 2, "End 幂等")
	assert.Equal(t, "xrotate.archive", spans[0].Name)
	assert.Equal(t, trace.SpanKindConsumer, spans[0].SpanKind)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "delete failure", spans[1].Status.Description)

	assert.Equal(t, map[string]int64{
		"archive/ok":  1,
		"prune/error": 1,
	}, collectTotal(t, reader))
}

func TestOTelObserver_UnknownNames(t *testing.T) {
	obs, exporter, _ := newTestObserver(t)

	_, span := obs.Start(context.Background(), SpanOptions{})
	span.End(Result{Status: StatusError})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unknown.unknown", spans[0].Name)
	assert.Equal(t, "operation failed", spans[0].Status.Description)
}

func TestResolveStatus(t *testing.T) {
	assert.Equal(t, StatusOK, resolveStatus(Result{}))
	assert.Equal(t, StatusError, resolveStatus(Result{Err: errors.New("x")}))
	assert.Equal(t, StatusOK, resolveStatus(Result{Status: StatusOK, Err: errors.New("x")}))
}
