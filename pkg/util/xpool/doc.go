// Package xpool 提供有界的泛型 worker pool。
//
// Pool 用于把任务从调用方的关键路径上移走：
//   - 固定数量的 worker（[1, 65536]）和有界队列（[1, 16777216]）
//   - Submit 永不阻塞，队列满时返回 [ErrQueueFull]
//   - Close 等待队列中剩余任务处理完成后返回
//   - Shutdown(ctx) 支持超时，超时后残留 worker 继续在后台耗尽队列，可通过 Done() 等待
//   - 单个任务 panic 被恢复并记录日志（含堆栈），不影响其他任务
//
// # 注意事项
//
//   - New 创建后 worker 立即启动
//   - Close/Shutdown 不可在 handler 内调用，否则会死锁
//   - panic 的任务不会重试
package xpool
