package xrotate

import (
	"errors"
	"log/slog"

	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
	"github.com/omeyang/xlogroll/pkg/observability/xretention"
	"github.com/omeyang/xlogroll/pkg/util/xpool"
)

// ErrorKind 后台任务失败的分类。
type ErrorKind int

const (
	// KindGeneric 未分类错误
	KindGeneric ErrorKind = iota
	// KindSourceMissing 待归档文件不存在
	KindSourceMissing
	// KindWriteFailure 归档写入失败
	KindWriteFailure
	// KindDeleteFailure 删除源文件或旧备份失败
	KindDeleteFailure
	// KindDispatchFailure 任务无法入队（队列满或已关闭）
	KindDispatchFailure
)

// String 返回分类名称。
func (k ErrorKind) String() string {
	switch k {
	case KindSourceMissing:
		return "source_missing"
	case KindWriteFailure:
		return "write_failure"
	case KindDeleteFailure:
		return "delete_failure"
	case KindDispatchFailure:
		return "dispatch_failure"
	default:
		return "generic"
	}
}

// Classify 根据错误链中的哨兵错误返回分类。
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindGeneric
	case errors.Is(err, xarchive.ErrSourceMissing):
		return KindSourceMissing
	case errors.Is(err, xarchive.ErrWriteFailure):
		return KindWriteFailure
	case errors.Is(err, xarchive.ErrRemoveSource),
		errors.Is(err, xretention.ErrDeleteFailure),
		errors.Is(err, xretention.ErrListFailure):
		return KindDeleteFailure
	case errors.Is(err, xpool.ErrQueueFull),
		errors.Is(err, xpool.ErrPoolStopped),
		errors.Is(err, ErrPipelineClosed):
		return KindDispatchFailure
	default:
		return KindGeneric
	}
}

// Reporter 接收后台任务的失败。实现必须并发安全，且不应阻塞太久：
// 它在 worker 中同步调用。
type Reporter interface {
	Report(kind ErrorKind, msg string, err error)
}

// ReporterFunc 函数适配器
type ReporterFunc func(kind ErrorKind, msg string, err error)

// Report 实现 Reporter
func (f ReporterFunc) Report(kind ErrorKind, msg string, err error) {
	f(kind, msg, err)
}

// NewLogReporter 返回以 Warn 级别写日志的 Reporter，logger 为 nil 时使用 slog.Default()。
func NewLogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return ReporterFunc(func(kind ErrorKind, msg string, err error) {
		logger.Warn(msg,
			slog.String("kind", kind.String()),
			slog.Any("error", err))
	})
}
