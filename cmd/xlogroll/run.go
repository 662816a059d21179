package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/omeyang/xlogroll/internal/config"
	"github.com/omeyang/xlogroll/pkg/config/xconf"
	"github.com/omeyang/xlogroll/pkg/lifecycle/xrun"
	"github.com/omeyang/xlogroll/pkg/observability/xlog"
	"github.com/omeyang/xlogroll/pkg/observability/xmetrics"
	"github.com/omeyang/xlogroll/pkg/observability/xrotate"
	"github.com/omeyang/xlogroll/pkg/util/xkeylock"
)

// errInputClosed 标准输入读到 EOF，正常结束。
var errInputClosed = errors.New("input closed")

type runOptions struct {
	configPath   string
	in           io.Reader
	echo         io.Writer
	stderr       io.Writer
	drainTimeout time.Duration
}

// cmdRun 把输入写入周期轮转文件，直到输入结束或收到退出信号，
// 然后关闭文件并等待已派发的归档任务完成。
func cmdRun(ctx context.Context, opts runOptions) (err error) {
	s, cfg, err := config.LoadFile(opts.configPath)
	if err != nil {
		return asUsage(err)
	}

	logger, closeLog, err := newLogger(s.Log, opts.stderr)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { err = errors.Join(err, closeLog()) }()

	locker, err := xkeylock.New()
	if err != nil {
		return err
	}
	defer locker.Close()

	observer, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName("xlogroll"))
	if err != nil {
		return err
	}

	pipelineOpts, err := s.PipelineOptions(locker)
	if err != nil {
		return asUsage(err)
	}
	pipelineOpts = append(pipelineOpts,
		xrotate.WithLogger(logger.Logger),
		xrotate.WithReporter(xrotate.NewLogReporter(logger.Logger)),
		xrotate.WithObserver(observer),
	)
	pipeline, err := xrotate.NewPipeline(pipelineOpts...)
	if err != nil {
		return err
	}

	onError := func(err error) {
		logger.Warn("rotation failed", xlog.Path(s.File), xlog.Err(err))
	}
	periodic, err := xrotate.NewPeriodic(s.File, s.PeriodicOptions(pipeline, onError)...)
	if err != nil {
		return errors.Join(err, pipeline.Close())
	}

	watcher, err := xconf.Watch(cfg, reloader(s, pipeline, logger.Logger))
	if err != nil {
		return errors.Join(err, periodic.Close(), pipeline.Close())
	}

	logger.Info("xlogroll started",
		xlog.Path(s.File),
		slog.String("format", s.Archive.Format),
		slog.Int("max_backups", s.Retention.MaxBackups))

	services := []func(context.Context) error{
		pump(opts.in, periodic, opts.echo),
		watcher.Run,
	}
	if !s.AutoFlush {
		services = append(services, xrun.Ticker(s.FlushInterval, false, func(context.Context) error {
			if err := periodic.Flush(); err != nil {
				logger.Warn("flush failed", xlog.Err(err))
			}
			return nil
		}))
	}
	runErr := xrun.RunWithOptions(ctx,
		[]xrun.Option{xrun.WithLogger(logger.Logger), xrun.WithName("xlogroll")},
		services...)

	closeErr := errors.Join(watcher.Close(), periodic.Close())
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.drainTimeout)
	defer cancel()
	if err := pipeline.Shutdown(drainCtx); err != nil {
		logger.Warn("pending jobs abandoned", xlog.Count(pipeline.Pending()), xlog.Err(err))
		closeErr = errors.Join(closeErr, err)
	}
	logger.Info("xlogroll stopped")

	if errors.Is(runErr, errInputClosed) || errors.Is(runErr, xrun.ErrSignal) {
		runErr = nil
	}
	return errors.Join(runErr, closeErr)
}

func newLogger(l config.Log, stderr io.Writer) (*xlog.Logger, func() error, error) {
	b := xlog.New().
		SetLevelString(l.Level).
		SetFormat(l.Format).
		SetComponent("xlogroll")
	if l.File != "" {
		b.SetRotation(l.File)
	} else {
		b.SetOutput(stderr)
	}
	return b.Build()
}

// reloader 把配置文件中 archive/retention 的变化应用到流水线。
// 其他字段的变化需要重启，相对上次接受的配置出现这类变化时记录一次告警。
func reloader(current config.Settings, p *xrotate.Pipeline, logger *slog.Logger) xconf.WatchCallback {
	var mu sync.Mutex
	return func(cfg *xconf.Config, err error) {
		if err != nil {
			logger.Warn("config reload failed", xlog.Err(err))
			return
		}
		next, err := config.Load(cfg)
		if err != nil {
			logger.Warn("config rejected", xlog.Err(err))
			return
		}
		ps, err := next.Pipeline()
		if err == nil {
			err = p.Update(ps)
		}
		if err != nil {
			logger.Warn("config rejected", xlog.Err(err))
			return
		}

		mu.Lock()
		if !current.Reloadable(next) {
			logger.Warn("config changes outside archive and retention take effect after restart")
		}
		current = next
		mu.Unlock()
		logger.Info("settings reloaded",
			slog.String("format", ps.Format.String()),
			slog.Int("max_backups", ps.MaxBackups))
	}
}

// pump 逐行把 in 写入 w。读取在独立 goroutine 中进行，
// ctx 取消时不等待阻塞中的读取。
func pump(in io.Reader, w io.Writer, echo io.Writer) func(context.Context) error {
	return func(ctx context.Context) error {
		lines := make(chan []byte)
		readErr := make(chan error, 1)
		go func() {
			br := bufio.NewReader(in)
			for {
				line, err := br.ReadBytes('\n')
				if len(line) > 0 {
					select {
					case lines <- line:
					case <-ctx.Done():
						return
					}
				}
				if err != nil {
					readErr <- err
					return
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line := <-lines:
				if _, err := w.Write(line); err != nil {
					return fmt.Errorf("write log: %w", err)
				}
				if echo != nil {
					_, _ = echo.Write(line)
				}
			case err := <-readErr:
				if errors.Is(err, io.EOF) {
					return errInputClosed
				}
				return fmt.Errorf("read input: %w", err)
			}
		}
	}
}
