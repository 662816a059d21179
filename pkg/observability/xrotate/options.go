package xrotate

import (
	"os"
	"time"
)

// 默认配置
const (
	// DefaultMaxSizeMB 按大小轮转时单个文件上限（MB）
	DefaultMaxSizeMB = 100

	// DefaultMaxBackups 按大小轮转时保留的备份数量
	DefaultMaxBackups = 7

	// DefaultMaxAgeDays 按大小轮转时备份保留天数
	DefaultMaxAgeDays = 30

	// DefaultSuffix 周期轮转默认后缀布局（按天）
	DefaultSuffix = ".2006-01-02"

	// DefaultFileMode 周期轮转文件默认权限
	DefaultFileMode os.FileMode = 0640

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

// config 是 [NewLumberjack] 与 [NewPeriodic] 共用的配置，
// 每个构造函数只读取与自己相关的字段。
type config struct {
	fileMode os.FileMode
	onError  func(error)

	// NewLumberjack
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool

	// NewPeriodic
	suffix     string
	schedule   string
	appendMode bool
	autoFlush  bool
	dispatcher Dispatcher
	now        func() time.Time
}

func defaultConfig() config {
	return config{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   true,
		suffix:     DefaultSuffix,
		appendMode: true,
		autoFlush:  true,
		now:        time.Now,
	}
}

// Option 轮转器配置选项
type Option func(*config)

// WithFileMode 设置日志文件权限，仅允许 0000~0777。
//
// NewLumberjack 通过 chmod 调整（lumberjack 固定以 0600 创建文件），
// NewPeriodic 在创建文件时直接使用，默认 [DefaultFileMode]。
func WithFileMode(mode os.FileMode) Option {
	return func(c *config) {
		c.fileMode = mode
	}
}

// WithOnError 设置内部错误回调（权限调整失败、周期轮转失败等）。
//
// 回调不得向同一 Rotator 写入数据，否则会死锁。
func WithOnError(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithMaxSize 设置单个文件最大大小（MB），仅 NewLumberjack
func WithMaxSize(mb int) Option {
	return func(c *config) {
		c.maxSizeMB = mb
	}
}

// WithMaxBackups 设置保留的备份数量，仅 NewLumberjack
func WithMaxBackups(n int) Option {
	return func(c *config) {
		c.maxBackups = n
	}
}

// WithMaxAge 设置备份保留天数，仅 NewLumberjack
func WithMaxAge(days int) Option {
	return func(c *config) {
		c.maxAgeDays = days
	}
}

// WithCompress 设置是否 gzip 压缩备份，仅 NewLumberjack
func WithCompress(compress bool) Option {
	return func(c *config) {
		c.compress = compress
	}
}

// WithLocalTime 设置备份文件名是否使用本地时间，仅 NewLumberjack
func WithLocalTime(local bool) Option {
	return func(c *config) {
		c.localTime = local
	}
}

// WithSuffix 设置周期轮转的后缀布局（Go 时间布局），仅 NewPeriodic
func WithSuffix(layout string) Option {
	return func(c *config) {
		c.suffix = layout
	}
}

// WithSchedule 设置轮转边界的标准 cron 表达式（5 段），仅 NewPeriodic。
// 为空时由后缀布局推导。
func WithSchedule(spec string) Option {
	return func(c *config) {
		c.schedule = spec
	}
}

// WithAppend 设置打开已有文件时是否追加（默认 true），false 时截断，仅 NewPeriodic
func WithAppend(on bool) Option {
	return func(c *config) {
		c.appendMode = on
	}
}

// WithAutoFlush 设置每次写入后是否立即落盘（默认 true），
// false 时使用缓冲写入，需要调用 Flush 或 Close。仅 NewPeriodic
func WithAutoFlush(on bool) Option {
	return func(c *config) {
		c.autoFlush = on
	}
}

// WithDispatcher 设置轮转发生后的任务派发目标（通常是 [*Pipeline]），仅 NewPeriodic
func WithDispatcher(d Dispatcher) Option {
	return func(c *config) {
		c.dispatcher = d
	}
}

// WithClock 设置时钟，仅用于测试，仅 NewPeriodic
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
