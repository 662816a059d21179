// Package xmetrics 提供统一的可观测性接口（metrics + tracing）。
//
// 业务代码只依赖 Observer/Span/Attr 三个最小接口，
// 默认实现基于 OpenTelemetry，未配置时使用 [NoopObserver]。
//
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "xrotate",
//		Operation: "archive",
//	})
//	dst, err := xarchive.Archive(src, format)
//	span.End(xmetrics.Result{Err: err})
//
// # 指标命名
//
//   - xlogroll.operation.total
//   - xlogroll.operation.duration（秒）
//
// 统一属性：component / operation / status。
package xmetrics
