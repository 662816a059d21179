package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"
)

// Group 基于 errgroup + context 管理多个任务的并发运行和协调关闭。
//
// Go、GoWithName、Cancel 可并发调用；Wait 只应调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
}

// NewGroup 创建 Group，返回的 ctx 在任一任务出错或 Cancel 时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}
	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{eg: eg, ctx: egCtx, causeCtx: causeCtx, cancel: cancel, opts: options}, egCtx
}

// Go 启动一个任务。fn 应监听 ctx.Done()。
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 与 Go 相同，但记录任务的启停日志。
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		log := g.opts.logger.With(slog.String("group", g.opts.name), slog.String("service", name))
		log.Debug("service starting")
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("service exited with error", slog.Any("error", err))
		} else {
			log.Debug("service stopped")
		}
		return err
	})
}

// Wait 等待所有任务结束，返回第一个非取消错误。
// 通过 Cancel(cause) 或信号退出时返回该 cause；普通取消返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()
	explicitCause := func() error {
		if g.causeCtx.Err() == nil {
			return nil
		}
		if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
			return cause
		}
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		if g.causeCtx.Err() != nil {
			return explicitCause()
		}
		// 取消来自任务内部
		return err
	case err == nil:
		return explicitCause()
	default:
		return err
	}
}

// Cancel 取消所有任务，cause 会由 Wait 返回。
// cause 不应包装 context.Canceled，否则会被当作普通取消过滤掉。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// RunWithOptions 运行 services 并监听退出信号（可用 WithoutSignalHandler 关闭）。
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		signals := g.opts.signals
		if len(signals) == 0 {
			signals = DefaultSignals()
		}
		g.Go(func(ctx context.Context) error {
			return g.waitSignal(ctx, signals, nil)
		})
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

// waitSignal 阻塞到收到信号或 ctx 取消。inject 仅供测试注入信号。
func (g *Group) waitSignal(ctx context.Context, signals []os.Signal, inject <-chan os.Signal) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-sigCh:
	case sig = <-inject:
	case <-ctx.Done():
		return nil
	}
	g.opts.logger.Info("received signal",
		slog.String("group", g.opts.name),
		slog.String("signal", sig.String()))
	g.cancel(&SignalError{Signal: sig})
	return nil
}

// Ticker 返回周期执行 fn 的任务函数，immediate 为 true 时启动即执行一次。
// fn 返回错误时任务结束并返回该错误。
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if immediate {
			if err := fn(ctx); err != nil {
				return err
			}
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if err := fn(ctx); err != nil {
					return err
				}
			}
		}
	}
}
