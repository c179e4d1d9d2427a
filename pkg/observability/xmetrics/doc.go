// Package xmetrics 提供统一的可观测性接口（metrics + tracing）。
//
// 业务代码只依赖 Observer/Span；默认实现基于 OpenTelemetry。
//
//	obs, _ := xmetrics.NewOTelObserver(xmetrics.WithMeterProvider(mp))
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xpool",
//		Operation: "execute",
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// # 指标命名
//
//   - xthreadpool.operation.total
//   - xthreadpool.operation.duration
//
// 统一属性：component / operation / status（ok、error、panic）。
package xmetrics
