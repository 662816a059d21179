// Package xlog 基于 log/slog 的结构化日志构建器。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins：遇到第一个配置错误后，后续 Set 操作被跳过，
// 错误在 Build 时返回）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xlogroll/xlogroll.log", xrotate.WithMaxSize(50)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// 返回的 [*Logger] 内嵌 *slog.Logger，可直接传给各库的 WithLogger 选项，
// 并支持运行时调整级别（配置热更新）。
//
// # 写入错误
//
// slog 不向调用方返回 Handler 错误。通过 [Builder.SetOnError] 可以接收这些错误，
// 回调不得再写同一个 Logger。
package xlog
