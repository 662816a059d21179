package xrotate

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xlogroll/pkg/util/xfile"
)

// lumberjackRotator 基于 lumberjack 的按大小轮转实现
type lumberjackRotator struct {
	logger   *lumberjack.Logger
	path     string
	fileMode os.FileMode
	onError  func(error)

	mu     sync.Mutex // 保护 Stat+Chmod
	closed atomic.Bool

	// 按累计写入量判断 lumberjack 是否可能已自动轮转，避免每次 Write 都 Stat
	modeApplied  atomic.Bool
	maxSizeBytes int64
	bytesWritten atomic.Int64

	chmodFn func(string, os.FileMode) error
}

// NewLumberjack 创建按大小轮转的 Rotator。
//
// 备份命名、压缩和清理由 lumberjack 负责，与周期轮转的 [Pipeline] 无关。
// 自动创建不存在的父目录（权限 0750）。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validateLumberjack(&cfg); err != nil {
		return nil, err
	}

	safePath, err := xfile.SanitizePath(filename)
	if err != nil {
		return nil, err
	}
	if err := xfile.EnsureDir(safePath); err != nil {
		return nil, err
	}

	return &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   safePath,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
			LocalTime:  cfg.localTime,
		},
		path:         safePath,
		fileMode:     cfg.fileMode,
		onError:      cfg.onError,
		maxSizeBytes: int64(cfg.maxSizeMB) * 1024 * 1024,
		chmodFn:      os.Chmod,
	}, nil
}

func validateLumberjack(cfg *config) error {
	if cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.maxSizeMB, maxSizeMB)
	}
	if cfg.maxBackups < 0 || cfg.maxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.maxBackups, maxBackups)
	}
	if cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.maxAgeDays, maxAgeDays)
	}
	if cfg.maxBackups == 0 && cfg.maxAgeDays == 0 {
		return fmt.Errorf("%w: MaxBackups and MaxAgeDays cannot both be 0", ErrNoCleanupPolicy)
	}
	return validateFileMode(cfg.fileMode)
}

func validateFileMode(mode os.FileMode) error {
	if mode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: got %04o, only permission bits (0000~0777) allowed",
			ErrInvalidFileMode, mode)
	}
	return nil
}

func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	if err != nil {
		// Close 可能在 logger.Write 期间完成，调用方应看到 ErrClosed
		if r.closed.Load() {
			return n, ErrClosed
		}
		return n, err
	}

	if r.fileMode != 0 {
		need := !r.modeApplied.Load()
		if !need && r.bytesWritten.Add(int64(n)) >= r.maxSizeBytes {
			need = true
		}
		if need {
			r.reportError(r.ensureFileMode())
		}
	}
	return n, nil
}

func (r *lumberjackRotator) ensureFileMode() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, err := os.Stat(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode().Perm() != r.fileMode {
		//#nosec G302 -- 日志文件权限由调用方配置决定
		if err := r.chmodFn(r.path, r.fileMode); err != nil {
			return err
		}
	}
	r.modeApplied.Store(true)
	r.bytesWritten.Store(0)
	return nil
}

// reportError 通过回调上报，不写日志：Rotator 本身常是日志输出目标。
func (r *lumberjackRotator) reportError(err error) {
	if err != nil && r.onError != nil {
		defer func() { recover() }() //nolint:errcheck // 回调 panic 不影响写入
		r.onError(err)
	}
}

func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}

func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	if err := r.logger.Rotate(); err != nil {
		if r.closed.Load() {
			return ErrClosed
		}
		return err
	}
	if r.fileMode != 0 {
		r.modeApplied.Store(false)
		r.reportError(r.ensureFileMode())
	}
	return nil
}
