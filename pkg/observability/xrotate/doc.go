// Package xrotate 提供按周期轮转的日志文件，以及轮转后的异步压缩和备份清理。
//
// # 组成
//
//   - [Periodic]：按时间周期轮转的宿主文件，轮转时把当前文件重命名为 file+suffix
//   - [Watcher]：包装宿主的写前准备，比较准备前后的后缀，发现轮转即派发一个任务
//   - [Pipeline]：有界 worker pool 执行任务：压缩（xarchive）后清理旧备份（xretention）
//   - [NewLumberjack]：按大小轮转的文件，供诊断日志使用
//
// 任务在派发时捕获一份 [Settings] 快照，之后修改配置不影响已派发的任务。
// 任务中的任何失败只通过 [Reporter] 上报，不会影响宿主的 Write 返回值，也不会重试。
//
// # 后缀与调度
//
// [Periodic] 的后缀使用 Go 时间布局（默认 ".2006-01-02"），轮转边界默认由布局中
// 最小的时间单位推导（分钟/小时/天/月/年），也可用 [WithSchedule] 指定标准 cron 表达式。
//
// # 并发
//
// Rotator 的所有实现并发安全。Pipeline 的 Dispatch 不阻塞：队列满时上报
// [KindDispatchFailure] 并丢弃任务。
package xrotate
