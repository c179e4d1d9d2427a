package xmetrics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xthreadpool/xmetrics"
	unknownComponent           = "unknown"
	unknownOperation           = "unknown"
)

// OTel 指标名称，均带 component、operation、status 属性。
const (
	// MetricOperationTotal 操作计数。
	MetricOperationTotal = "xthreadpool.operation.total"
	// MetricOperationDuration 操作耗时（秒）。
	MetricOperationDuration = "xthreadpool.operation.duration"
)

type otelConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称，空值忽略。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider，nil 使用全局默认。
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider，nil 使用全局默认。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// NewOTelObserver 创建基于 OpenTelemetry 的 Observer。
func NewOTelObserver(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	total, err := meter.Int64Counter(
		MetricOperationTotal,
		metric.WithDescription("total operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateCounter, err)
	}

	duration, err := meter.Float64Histogram(
		MetricOperationDuration,
		metric.WithDescription("operation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateHistogram, err)
	}

	return &otelObserver{
		tracer:   cfg.tracerProvider.Tracer(cfg.instrumentationName),
		total:    total,
		duration: duration,
	}, nil
}

type otelObserver struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// Start 开始一次观测跨度。
func (o *otelObserver) Start(ctx context.Context, opts SpanOptions) (context.Context, Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	component := opts.Component
	if component == "" {
		component = unknownComponent
	}
	operation := opts.Operation
	if operation == "" {
		operation = unknownOperation
	}

	attrs := make([]attribute.KeyValue, 0, 2+len(opts.Attrs))
	attrs = append(attrs,
		attribute.String("component", component),
		attribute.String("operation", operation),
	)
	attrs = append(attrs, attrsToOTel(opts.Attrs)...)

	ctx, span := o.tracer.Start(ctx, operation,
		trace.WithSpanKind(mapSpanKind(opts.Kind)),
		trace.WithAttributes(attrs...),
	)

	return ctx, &otelSpan{
		span:      span,
		observer:  o,
		ctx:       ctx,
		component: component,
		operation: operation,
		start:     time.Now(),
	}
}

type otelSpan struct {
	span      trace.Span
	observer  *otelObserver
	ctx       context.Context
	component string
	operation string
	start     time.Time
	endOnce   sync.Once
}

// End 结束观测并记录结果，幂等。
func (s *otelSpan) End(result Result) {
	s.endOnce.Do(func() {
		status := resolveStatus(result)

		if result.Err != nil {
			s.span.RecordError(result.Err)
		}
		switch status {
		case StatusOK:
			s.span.SetStatus(codes.Ok, "")
		default:
			desc := string(status)
			if result.Err != nil {
				desc = result.Err.Error()
			}
			s.span.SetStatus(codes.Error, desc)
		}
		if len(result.Attrs) > 0 {
			s.span.SetAttributes(attrsToOTel(result.Attrs)...)
		}
		s.span.End()

		// 指标使用不可取消的 context，调用方 ctx 已取消时仍能记录
		metricsCtx := context.WithoutCancel(s.ctx)
		attrs := metric.WithAttributes(
			attribute.String("component", s.component),
			attribute.String("operation", s.operation),
			attribute.String("status", string(status)),
		)
		s.observer.total.Add(metricsCtx, 1, attrs)
		s.observer.duration.Record(metricsCtx, time.Since(s.start).Seconds(), attrs)
	})
}

func resolveStatus(result Result) Status {
	if result.Status != "" {
		return result.Status
	}
	if result.Err != nil {
		return StatusError
	}
	return StatusOK
}

func mapSpanKind(kind Kind) trace.SpanKind {
	switch kind {
	case KindProducer:
		return trace.SpanKindProducer
	case KindConsumer:
		return trace.SpanKindConsumer
	default:
		return trace.SpanKindInternal
	}
}

func attrsToOTel(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	converted := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key == "" || attr.Value == nil {
			continue
		}
		converted = append(converted, toKeyValue(attr))
	}
	return converted
}

func toKeyValue(attr Attr) attribute.KeyValue {
	switch v := attr.Value.(type) {
	case string:
		return attribute.String(attr.Key, v)
	case bool:
		return attribute.Bool(attr.Key, v)
	case int:
		return attribute.Int(attr.Key, v)
	case int64:
		return attribute.Int64(attr.Key, v)
	case uint64:
		if v <= math.MaxInt64 {
			return attribute.Int64(attr.Key, int64(v))
		}
		return attribute.String(attr.Key, fmt.Sprint(v))
	case float64:
		return attribute.Float64(attr.Key, v)
	case time.Duration:
		return attribute.Int64(attr.Key, v.Nanoseconds())
	default:
		return attribute.String(attr.Key, fmt.Sprint(v))
	}
}
