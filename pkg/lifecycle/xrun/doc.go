// Package xrun 基于 errgroup 管理进程内多个长期运行任务的启动与协调关闭。
//
// 任一任务返回错误、父 context 取消或收到退出信号时，所有任务的 ctx 都会被取消。
// 信号退出时 Wait 返回 [*SignalError]，可用 errors.Is(err, ErrSignal) 判断。
//
//	err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger)},
//		tailInput,
//		watcher.Run,
//		xrun.Ticker(time.Second, false, flush),
//	)
package xrun
