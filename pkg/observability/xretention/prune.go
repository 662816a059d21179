package xretention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/omeyang/xlogroll/pkg/util/xkeylock"
)

// Result 一次清理的结果，路径均为完整路径，按文件名降序排列。
type Result struct {
	Kept    []string
	Deleted []string
	// Failures 每个删除失败的文件一个错误，均包装了 ErrDeleteFailure。
	Failures []error
}

// Prune 清理 dir 中匹配 prefix/ext 的备份，只保留最新的 limit 个。
// 返回成功删除的数量。
func Prune(dir, prefix, ext string, limit int) (int, error) {
	p := &Pruner{removeFn: os.Remove, logger: slog.Default()}
	res, err := p.prune(dir, prefix, ext, limit)
	return len(res.Deleted), err
}

// Option 配置 [Pruner]。
type Option func(*Pruner)

// WithDirectoryLock 使用 locker 对目录加锁，同一目录的清理串行执行。
func WithDirectoryLock(locker xkeylock.Locker) Option {
	return func(p *Pruner) {
		p.locker = locker
	}
}

// WithLogger 设置日志记录器，nil 时忽略。
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pruner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pruner 带可选目录锁的清理器，可并发使用。
type Pruner struct {
	locker   xkeylock.Locker
	logger   *slog.Logger
	removeFn func(string) error
}

// NewPruner 创建清理器。
func NewPruner(opts ...Option) *Pruner {
	p := &Pruner{removeFn: os.Remove, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Prune 同 [Prune]，配置了目录锁时先获取 dir 的锁，ctx 只约束等锁时间。
func (p *Pruner) Prune(ctx context.Context, dir, prefix, ext string, limit int) (Result, error) {
	if limit <= 0 {
		return Result{}, nil
	}
	if p.locker != nil {
		h, err := p.locker.Acquire(ctx, filepath.Clean(dir))
		if err != nil {
			return Result{}, fmt.Errorf("xretention: lock %s: %w", dir, err)
		}
		defer func() { _ = h.Unlock() }()
	}
	return p.prune(dir, prefix, ext, limit)
}

func (p *Pruner) prune(dir, prefix, ext string, limit int) (Result, error) {
	if limit <= 0 {
		return Result{}, nil
	}
	if prefix == "" {
		return Result{}, ErrEmptyPrefix
	}

	names, err := List(dir, prefix, ext)
	if err != nil {
		return Result{}, err
	}
	if len(names) <= limit {
		return Result{Kept: joinAll(dir, names)}, nil
	}

	res := Result{Kept: joinAll(dir, names[:limit])}
	for _, name := range names[limit:] {
		path := filepath.Join(dir, name)
		if err := p.removeFn(path); err != nil {
			res.Failures = append(res.Failures, fmt.Errorf("%w: %s: %w", ErrDeleteFailure, path, err))
			continue
		}
		res.Deleted = append(res.Deleted, path)
	}
	if len(res.Deleted) > 0 {
		p.logger.Debug("pruned backups",
			slog.String("dir", dir),
			slog.String("prefix", prefix),
			slog.Int("deleted", len(res.Deleted)),
			slog.Int("kept", len(res.Kept)))
	}
	return res, errors.Join(res.Failures...)
}

// List 返回 dir 中匹配 prefix/ext 的普通文件名，按字典序降序排列。
// 子目录即使名称匹配也会被跳过。
func List(dir, prefix, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrListFailure, dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ext) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	slices.Reverse(names)
	return names, nil
}

func joinAll(dir string, names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(dir, n)
	}
	return out
}
