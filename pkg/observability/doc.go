// Package observability 提供日志文件处理与可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 的 Builder
//   - xmetrics: 统一可观测性接口，OTel 实现
//   - xrotate: 日志文件轮转与轮转后处理流水线
//   - xarchive: 单文件 gzip/zip 归档
//   - xretention: 按数量清理旧归档
//
// 依赖方向：xrotate → xarchive、xretention、xmetrics；xlog → xrotate。
package observability
