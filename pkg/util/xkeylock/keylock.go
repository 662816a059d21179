package xkeylock

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// Handle 表示一次成功的锁获取。
type Handle interface {
	// Unlock 释放锁。第一次调用返回 nil，后续调用返回 [ErrLockNotHeld]。
	Unlock() error

	// Key 返回锁的 key。
	Key() string
}

// Locker 提供基于 key 的进程内互斥锁，所有方法并发安全。
type Locker interface {
	io.Closer

	// Acquire 阻塞获取锁，ctx 取消时返回 ctx.Err()，已关闭时返回 [ErrClosed]。
	Acquire(ctx context.Context, key string) (Handle, error)

	// TryAcquire 非阻塞获取锁，被占用时返回 [ErrLockOccupied]。
	TryAcquire(key string) (Handle, error)

	// Len 返回当前活跃的 key 数量（持有者或等待者存在的 key）。
	Len() int
}

// New 创建 Locker。
func New(opts ...Option) (Locker, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	shards := make([]shard, o.shardCount)
	for i := range shards {
		shards[i].entries = make(map[string]*entry)
	}
	return &locker{
		shards: shards,
		mask:   uint64(o.shardCount - 1),
		done:   make(chan struct{}),
	}, nil
}

type locker struct {
	shards []shard
	mask   uint64
	count  atomic.Int64
	closed atomic.Bool
	done   chan struct{}
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// entry 用容量为 1 的 channel 作互斥量：发送成功即持有，接收即释放。
type entry struct {
	ch   chan struct{}
	refs int // 持有者 + 等待者，受 shard.mu 保护
}

type handle struct {
	l        *locker
	key      string
	e        *entry
	released atomic.Bool
}

func (l *locker) shardOf(key string) *shard {
	return &l.shards[xxhash.Sum64String(key)&l.mask]
}

func (l *locker) ref(key string) (*entry, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	s := l.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.closed.Load() {
		return nil, ErrClosed
	}
	e, ok := s.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		s.entries[key] = e
		l.count.Add(1)
	}
	e.refs++
	return e, nil
}

func (l *locker) unref(key string, e *entry) {
	s := l.shardOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(s.entries, key)
		l.count.Add(-1)
	}
}

func (l *locker) Acquire(ctx context.Context, key string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := l.ref(key)
	if err != nil {
		return nil, err
	}
	select {
	case e.ch <- struct{}{}:
		return &handle{l: l, key: key, e: e}, nil
	case <-ctx.Done():
		l.unref(key, e)
		return nil, ctx.Err()
	case <-l.done:
		l.unref(key, e)
		return nil, ErrClosed
	}
}

func (l *locker) TryAcquire(key string) (Handle, error) {
	e, err := l.ref(key)
	if err != nil {
		return nil, err
	}
	select {
	case e.ch <- struct{}{}:
		return &handle{l: l, key: key, e: e}, nil
	default:
		l.unref(key, e)
		return nil, ErrLockOccupied
	}
}

func (l *locker) Len() int {
	return int(max(l.count.Load(), 0))
}

// Close 关闭 Locker，唤醒所有等待者。已持有的 Handle 仍可正常 Unlock。
func (l *locker) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	close(l.done)
	return nil
}

func (h *handle) Unlock() error {
	if !h.released.CompareAndSwap(false, true) {
		return ErrLockNotHeld
	}
	<-h.e.ch
	h.l.unref(h.key, h.e)
	return nil
}

func (h *handle) Key() string {
	return h.key
}

var (
	_ Locker = (*locker)(nil)
	_ Handle = (*handle)(nil)
)
