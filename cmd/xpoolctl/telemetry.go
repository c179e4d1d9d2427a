package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/omeyang/xthreadpool/pkg/observability/xmetrics"
)

const serviceName = "xpoolctl"

// telemetry 进程内指标：使用 ManualReader，结束时读取一次汇总。
type telemetry struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader
	observer xmetrics.Observer
}

func newTelemetry(runID string) (*telemetry, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", Version),
		attribute.String("service.instance.id", runID),
	)
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	observer, err := xmetrics.NewOTelObserver(
		xmetrics.WithInstrumentationName(serviceName),
		xmetrics.WithMeterProvider(provider),
	)
	if err != nil {
		return nil, err
	}
	return &telemetry{provider: provider, reader: reader, observer: observer}, nil
}

// operationCounts 按 operation/status 汇总操作计数。
func (t *telemetry) operationCounts(ctx context.Context) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != xmetrics.MetricOperationTotal {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("operation")
				status, _ := dp.Attributes.Value("status")
				counts[op.AsString()+"/"+status.AsString()] += dp.Value
			}
		}
	}
	return counts, nil
}

func formatCounts(counts map[string]int64) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%d", k, counts[k])
	}
	return b.String()
}

func (t *telemetry) shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}
