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

func newTestTracerProvider() (*sdktrace.TracerProvider, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	return sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)), exporter
}

func newTestMeterProvider() (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	return sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)), reader
}

// totalByStatus 汇总 operation.total 中每个 status 的计数
func totalByStatus(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricOperationTotal {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				status, _ := dp.Attributes.Value(attribute.Key("status"))
				out[status.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestNewOTelObserver_Default(t *testing.T) {
	obs, err := NewOTelObserver(nil, WithInstrumentationName(""), WithTracerProvider(nil), WithMeterProvider(nil))
	require.NoError(t, err)
	require.NotNil(t, obs)
}

func TestOTelObserver_SpanAndMetrics(t *testing.T) {
	tp, exporter := newTestTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	mp, reader := newTestMeterProvider()
	defer func() { _ = mp.Shutdown(context.Background()) }()

	obs, err := NewOTelObserver(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	_, span := obs.Start(context.Background(), SpanOptions{
		Component: "xpool",
		Operation: "execute",
		Kind:      KindConsumer,
		Attrs:     []Attr{Uint64("worker_id", 3), String("", "skipped")},
	})
	span.End(Result{})
	span.End(Result{Err: errors.New("ignored")}) // 幂等

	_, span = obs.Start(context.Background(), SpanOptions{Component: "xpool", Operation: "execute"})
	span.End(Result{Status: StatusPanic, Err: errors.New("boom")})

	_, span = obs.Start(context.Background(), SpanOptions{})
	span.End(Result{Err: errors.New("failed")})

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)
	assert.Equal(t, "execute", spans[0].Name)
	assert.Equal(t, trace.SpanKindConsumer, spans[0].SpanKind)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Equal(t, "boom", spans[1].Status.Description)
	assert.Equal(t, unknownOperation, spans[2].Name)

	totals := totalByStatus(t, reader)
	assert.Equal(t, int64(1), totals[string(StatusOK)])
	assert.Equal(t, int64(1), totals[string(StatusPanic)])
	assert.Equal(t, int64(1), totals[string(StatusError)])
}

func TestStart_Fallbacks(t *testing.T) {
	//nolint:staticcheck // 验证 nil ctx 兜底
	ctx, span := Start(nil, nil, SpanOptions{})
	require.NotNil(t, ctx)
	require.NotNil(t, span)
	span.End(Result{})

	ctx, span = Start(context.Background(), nilSpanObserver{}, SpanOptions{})
	require.NotNil(t, ctx)
	assert.Equal(t, NoopSpan{}, span)
}

type nilSpanObserver struct{}

func (nilSpanObserver) Start(context.Context, SpanOptions) (context.Context, Span) { return nil, nil }

func TestKind_String(t *testing.T) {
	assert.Equal(t, "Internal", KindInternal.String())
	assert.Equal(t, "Producer", KindProducer.String())
	assert.Equal(t, "Consumer", KindConsumer.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestToKeyValue(t *testing.T) {
	assert.Equal(t, attribute.Int64("big", 1), toKeyValue(Uint64("big", 1)))
	assert.Equal(t, attribute.String("huge", "18446744073709551615"), toKeyValue(Uint64("huge", ^uint64(0))))
	assert.Equal(t, attribute.Bool("b", true), toKeyValue(Bool("b", true)))
	assert.Equal(t, attribute.Int("i", 2), toKeyValue(Int("i", 2)))
	assert.Equal(t, attribute.String("s", "[1]"), toKeyValue(Attr{Key: "s", Value: []int{1}}))
	assert.Nil(t, attrsToOTel(nil))
	assert.Empty(t, attrsToOTel([]Attr{{Key: "nil"}}))
}
