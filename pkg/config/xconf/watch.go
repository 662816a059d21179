package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 默认防抖时间
const DefaultDebounce = 100 * time.Millisecond

// WatchCallback 配置变更回调，err 为重载错误（此时 cfg 仍是旧配置）。
type WatchCallback func(cfg *Config, err error)

// WatchOption 监视器配置选项
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间，<= 0 时忽略
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 配置文件监视器
type Watcher struct {
	cfg      *Config
	fs       *fsnotify.Watcher
	callback WatchCallback
	debounce time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	closeOnce sync.Once
	pending   sync.WaitGroup
}

// Watch 为从文件创建的配置创建监视器，调用 [Watcher.Run] 开始监视。
func Watch(cfg *Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.path == "" {
		return nil, ErrNotReloadable
	}
	if callback == nil {
		return nil, errors.New("xconf: nil watch callback")
	}
	w := &Watcher{cfg: cfg, callback: callback, debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.path)
	if err := fsw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch %s: %w", dir, err), fsw.Close())
	}
	w.fs = fsw
	return w, nil
}

// Run 阻塞监视直到 ctx 取消或监视器关闭，返回时释放资源。
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.Close() }()

	name := filepath.Clean(w.cfg.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.callback(w.cfg, fmt.Errorf("xconf: watch: %w", err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.callback(w.cfg, w.cfg.Reload())
	})
}

// Close 停止监视，取消尚未触发的重载并等待正在执行的回调结束。可重复调用。
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil && w.timer.Stop() {
			w.pending.Done()
		}
		w.mu.Unlock()
		err = w.fs.Close()
		w.pending.Wait()
	})
	return err
}
