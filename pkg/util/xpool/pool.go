package xpool

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
)

const (
	maxWorkers   = 1 << 16
	maxQueueSize = 1 << 24
)

var _ io.Closer = (*Pool[int])(nil)

// Pool 是有界的泛型 worker pool。
type Pool[T any] struct {
	handler func(T)
	queue   chan T
	opts    options

	mu      sync.RWMutex // 保护 stopped 与 close(queue) 的先后关系
	stopped bool

	wg       sync.WaitGroup
	stopOnce sync.Once
	done     chan struct{}
}

// New 创建并启动 worker pool。
//
// workers 取值 [1, 65536]，queueSize 取值 [1, 16777216]，handler 不能为 nil。
func New[T any](workers, queueSize int, handler func(T), opts ...Option) (*Pool[T], error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if workers < 1 || workers > maxWorkers {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidWorkers, workers, maxWorkers)
	}
	if queueSize < 1 || queueSize > maxQueueSize {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidQueueSize, queueSize, maxQueueSize)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Pool[T]{
		handler: handler,
		queue:   make(chan T, queueSize),
		opts:    o,
		done:    make(chan struct{}),
	}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
	return p, nil
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for task := range p.queue {
		p.run(task)
	}
}

func (p *Pool[T]) run(task T) {
	defer func() {
		if r := recover(); r != nil {
			p.opts.logger.Error("xpool: worker panic recovered",
				slog.String("pool", p.opts.name),
				slog.String("task_type", fmt.Sprintf("%T", task)),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()
	p.handler(task)
}

// Submit 非阻塞提交任务。
//
// pool 已关闭返回 [ErrPoolStopped]，队列满返回 [ErrQueueFull]。
func (p *Pool[T]) Submit(task T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}
	select {
	case p.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close 停止接收新任务并等待已排队任务全部处理完成。
func (p *Pool[T]) Close() error {
	return p.Shutdown(context.Background())
}

// Shutdown 停止接收新任务并等待 worker 退出。
//
// ctx 到期时立即返回 ctx.Err()，残留 worker 继续耗尽队列，可通过 [Pool.Done] 等待。
// 重复调用是安全的。
func (p *Pool[T]) Shutdown(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.queue)
		p.mu.Unlock()
	})

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done 返回在所有 worker 退出后关闭的 channel。
func (p *Pool[T]) Done() <-chan struct{} {
	return p.done
}

// Len 返回当前排队中的任务数量（瞬时值）。
func (p *Pool[T]) Len() int {
	return len(p.queue)
}
