package xrotate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
	"github.com/omeyang/xlogroll/pkg/observability/xmetrics"
	"github.com/omeyang/xlogroll/pkg/observability/xretention"
	"github.com/omeyang/xlogroll/pkg/util/xfile"
	"github.com/omeyang/xlogroll/pkg/util/xkeylock"
	"github.com/omeyang/xlogroll/pkg/util/xpool"
)

const (
	// DefaultWorkers 默认 worker 数
	DefaultWorkers = 1

	// DefaultQueueSize 默认队列长度
	DefaultQueueSize = 64

	componentName = "xrotate"
)

// Job 一次轮转后的归档任务。
type Job struct {
	ID       string
	Target   string // 宿主文件路径
	Suffix   string // 轮转时使用的后缀
	Settings Settings
	Enqueued time.Time
}

// Rotated 返回被轮转出的文件路径 Target+Suffix。
func (j Job) Rotated() string {
	return j.Target + j.Suffix
}

// Outcome 任务执行结果。
type Outcome struct {
	Job     Job
	Archive string   // 归档路径，归档失败时为空
	Deleted []string // 被清理的旧归档
	Err     error    // 所有上报过的错误
}

// PipelineOption 配置 [Pipeline]。
type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	workers    int
	queueSize  int
	settings   Settings
	reporter   Reporter
	logger     *slog.Logger
	observer   xmetrics.Observer
	locker     xkeylock.Locker
	onComplete func(Outcome)
}

// WithWorkers 设置 worker 数，默认 [DefaultWorkers]。
func WithWorkers(n int) PipelineOption {
	return func(c *pipelineConfig) { c.workers = n }
}

// WithQueueSize 设置队列长度，默认 [DefaultQueueSize]。
func WithQueueSize(n int) PipelineOption {
	return func(c *pipelineConfig) { c.queueSize = n }
}

// WithSettings 设置初始任务参数，默认 [DefaultSettings]。
func WithSettings(s Settings) PipelineOption {
	return func(c *pipelineConfig) { c.settings = s }
}

// WithReporter 设置失败上报目标，默认 [NewLogReporter]。
func WithReporter(r Reporter) PipelineOption {
	return func(c *pipelineConfig) {
		if r != nil {
			c.reporter = r
		}
	}
}

// WithLogger 设置日志记录器。
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(c *pipelineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver 设置观测器，默认不观测。
func WithObserver(o xmetrics.Observer) PipelineOption {
	return func(c *pipelineConfig) { c.observer = o }
}

// WithDirectoryLock 清理时对目录加锁，多个 Pipeline 共享同一 locker 时
// 同一目录的清理串行执行。
func WithDirectoryLock(l xkeylock.Locker) PipelineOption {
	return func(c *pipelineConfig) { c.locker = l }
}

// WithOnComplete 设置任务完成回调，在 worker 中同步调用。
func WithOnComplete(fn func(Outcome)) PipelineOption {
	return func(c *pipelineConfig) { c.onComplete = fn }
}

// Pipeline 轮转后的异步归档流水线，实现 [Dispatcher]。
type Pipeline struct {
	settings   atomic.Pointer[Settings]
	pool       *xpool.Pool[Job]
	pruner     *xretention.Pruner
	reporter   Reporter
	logger     *slog.Logger
	observer   xmetrics.Observer
	onComplete func(Outcome)
	closed     atomic.Bool

	archiveFn func(string, xarchive.Format, ...xarchive.Option) (string, error)
	now       func() time.Time
}

var _ Dispatcher = (*Pipeline)(nil)

// NewPipeline 创建并启动流水线。
func NewPipeline(opts ...PipelineOption) (*Pipeline, error) {
	cfg := pipelineConfig{
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
		settings:  DefaultSettings(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := cfg.settings.Validate(); err != nil {
		return nil, err
	}
	if cfg.reporter == nil {
		cfg.reporter = NewLogReporter(cfg.logger)
	}

	pruneOpts := []xretention.Option{xretention.WithLogger(cfg.logger)}
	if cfg.locker != nil {
		pruneOpts = append(pruneOpts, xretention.WithDirectoryLock(cfg.locker))
	}
	p := &Pipeline{
		pruner:     xretention.NewPruner(pruneOpts...),
		reporter:   cfg.reporter,
		logger:     cfg.logger,
		observer:   cfg.observer,
		onComplete: cfg.onComplete,
		archiveFn:  xarchive.Archive,
		now:        time.Now,
	}
	s := cfg.settings
	p.settings.Store(&s)

	pool, err := xpool.New(cfg.workers, cfg.queueSize, p.handle,
		xpool.WithLogger(cfg.logger), xpool.WithName(componentName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPool, err)
	}
	p.pool = pool
	return p, nil
}

// Settings 返回当前参数。
func (p *Pipeline) Settings() Settings {
	return *p.settings.Load()
}

// Update 替换参数，只影响之后派发的任务。
func (p *Pipeline) Update(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.settings.Store(&s)
	return nil
}

// SetFormat 修改归档格式。
func (p *Pipeline) SetFormat(f xarchive.Format) error {
	return p.modify(func(s *Settings) { s.Format = f })
}

// SetMaxBackups 修改保留的归档数量，<= 0 表示不清理。
func (p *Pipeline) SetMaxBackups(n int) {
	_ = p.modify(func(s *Settings) { s.MaxBackups = n })
}

func (p *Pipeline) modify(fn func(*Settings)) error {
	for {
		cur := p.settings.Load()
		next := *cur
		fn(&next)
		if err := next.Validate(); err != nil {
			return err
		}
		if p.settings.CompareAndSwap(cur, &next) {
			return nil
		}
	}
}

// Dispatch 以当前参数快照创建任务并入队，不阻塞。
//
// 入队失败时上报 [KindDispatchFailure] 并返回错误，任务被丢弃。
func (p *Pipeline) Dispatch(target, suffix string) error {
	if target == "" || suffix == "" {
		err := fmt.Errorf("%w: target=%q suffix=%q", ErrInvalidJob, target, suffix)
		p.report(KindDispatchFailure, "dispatch post-rotation job", err)
		return err
	}
	job := Job{
		ID:       uuid.NewString(),
		Target:   target,
		Suffix:   suffix,
		Settings: p.Settings(),
		Enqueued: p.now(),
	}
	if p.closed.Load() {
		return p.dispatchFailed(job, ErrPipelineClosed)
	}
	if err := p.pool.Submit(job); err != nil {
		if errors.Is(err, xpool.ErrPoolStopped) {
			err = fmt.Errorf("%w: %w", ErrPipelineClosed, err)
		}
		return p.dispatchFailed(job, err)
	}
	return nil
}

func (p *Pipeline) dispatchFailed(job Job, err error) error {
	err = fmt.Errorf("%s: %w", job.Rotated(), err)
	p.report(KindDispatchFailure, "dispatch post-rotation job", err)
	return err
}

func (p *Pipeline) handle(job Job) {
	out := p.Run(context.Background(), job)
	if p.onComplete != nil {
		p.onComplete(out)
	}
}

// Run 同步执行任务：确认文件存在，归档，归档成功后清理旧归档。
// 每个失败都上报一次，不重试。ctx 只约束等待目录锁的时间。
func (p *Pipeline) Run(ctx context.Context, job Job) Outcome {
	out := Outcome{Job: job}
	s := job.Settings
	rotated := job.Rotated()
	log := p.logger.With(slog.String("job", job.ID), slog.String("file", rotated))

	if ok, err := xfile.IsRegularFile(rotated); !ok {
		e := fmt.Errorf("%w: %s", xarchive.ErrSourceMissing, rotated)
		if err != nil {
			e = fmt.Errorf("%w: %w", e, err)
		}
		out.Err = e
		p.report(KindSourceMissing, "rotated file not found", e)
		return out
	}

	_, span := xmetrics.Start(ctx, p.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "archive",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.String("format", s.Format.String())},
	})
	dst, err := p.archiveFn(rotated, s.Format, xarchive.WithLevel(s.ArchiveLevel()))
	span.End(xmetrics.Result{Err: err})
	if err != nil {
		out.Err = err
		p.report(Classify(err), "archive rotated file", err)
		if !errors.Is(err, xarchive.ErrRemoveSource) {
			return out
		}
	}
	out.Archive = dst
	log.Debug("rotated file archived",
		slog.String("archive", dst),
		slog.Duration("queued", p.now().Sub(job.Enqueued)))

	if s.MaxBackups <= 0 {
		return out
	}
	_, span = xmetrics.Start(ctx, p.observer, xmetrics.SpanOptions{
		Component: componentName,
		Operation: "prune",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.Int("max_backups", s.MaxBackups)},
	})
	res, err := p.pruner.Prune(ctx, filepath.Dir(job.Target), filepath.Base(job.Target), s.Ext(), s.MaxBackups)
	span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.Int("deleted", len(res.Deleted))}})
	out.Deleted = res.Deleted
	if err != nil {
		out.Err = errors.Join(out.Err, err)
		if len(res.Failures) == 0 {
			p.report(Classify(err), "prune old archives", err)
		}
		for _, f := range res.Failures {
			p.report(KindDeleteFailure, "delete old archive", f)
		}
	}
	return out
}

func (p *Pipeline) report(kind ErrorKind, msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("xrotate: reporter panic recovered",
				slog.Any("panic", r), slog.Any("error", err))
		}
	}()
	p.reporter.Report(kind, msg, err)
}

// Close 停止接收任务并等待队列中的任务执行完。
func (p *Pipeline) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown 停止接收任务并等待队列耗尽，ctx 到期时返回 ctx.Err()，
// 剩余任务仍在后台继续执行。
func (p *Pipeline) Shutdown(ctx context.Context) error {
	p.closed.Store(true)
	return p.pool.Shutdown(ctx)
}

// Pending 返回排队中的任务数（瞬时值）。
func (p *Pipeline) Pending() int {
	return p.pool.Len()
}
