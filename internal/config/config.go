package config

import (
	"fmt"
	"time"

	"github.com/omeyang/xlogroll/pkg/config/xconf"
	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
	"github.com/omeyang/xlogroll/pkg/observability/xlog"
	"github.com/omeyang/xlogroll/pkg/observability/xrotate"
	"github.com/omeyang/xlogroll/pkg/util/xkeylock"
)

// DefaultFlushInterval 关闭自动落盘时的默认刷盘间隔。
const DefaultFlushInterval = time.Second

// Settings xlogroll.yaml 的完整结构。
type Settings struct {
	// File 周期轮转的日志文件
	File string `koanf:"file" yaml:"file"`

	// Suffix 轮转后缀的 Go 时间布局
	Suffix string `koanf:"suffix" yaml:"suffix"`

	// Schedule 轮转边界的 cron 表达式，为空时由 Suffix 推导
	Schedule string `koanf:"schedule" yaml:"schedule,omitempty"`

	Append    bool `koanf:"append" yaml:"append"`
	AutoFlush bool `koanf:"autoflush" yaml:"autoflush"`

	// FlushInterval 仅在 AutoFlush 为 false 时生效
	FlushInterval time.Duration `koanf:"flushInterval" yaml:"flushInterval"`

	Archive   Archive   `koanf:"archive" yaml:"archive"`
	Retention Retention `koanf:"retention" yaml:"retention"`
	Pool      Pool      `koanf:"pool" yaml:"pool"`
	Log       Log       `koanf:"log" yaml:"log"`
}

// Archive 归档参数。
type Archive struct {
	Format string `koanf:"format" yaml:"format"`

	// Level flate 压缩级别，0 表示默认级别，-100 表示只存储不压缩
	Level int `koanf:"level" yaml:"level"`
}

// Retention 清理参数。
type Retention struct {
	// MaxBackups <= 0 表示不清理
	MaxBackups int `koanf:"maxBackups" yaml:"maxBackups"`

	// Extension 为空时跟随归档格式
	Extension string `koanf:"extension" yaml:"extension,omitempty"`

	LockDirectory bool `koanf:"lockDirectory" yaml:"lockDirectory"`
}

// Pool 后处理工作池参数。
type Pool struct {
	Workers   int `koanf:"workers" yaml:"workers"`
	QueueSize int `koanf:"queueSize" yaml:"queueSize"`
}

// Log xlogroll 自身诊断日志的参数，File 为空时输出到 stderr。
type Log struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	File   string `koanf:"file" yaml:"file,omitempty"`
}

// Default 返回默认配置：按天轮转、gzip、不清理、单 worker。
func Default() Settings {
	return Settings{
		Suffix:        xrotate.DefaultSuffix,
		Append:        true,
		AutoFlush:     true,
		FlushInterval: DefaultFlushInterval,
		Archive: Archive{
			Format: xarchive.FormatGzip.String(),
			Level:  xarchive.DefaultLevel,
		},
		Retention: Retention{LockDirectory: true},
		Pool: Pool{
			Workers:   xrotate.DefaultWorkers,
			QueueSize: xrotate.DefaultQueueSize,
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load 以 [Default] 为底解码整个配置并校验。
func Load(cfg *xconf.Config) (Settings, error) {
	s := Default()
	if err := cfg.Unmarshal("", &s); err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile 从文件加载配置。
func LoadFile(path string) (Settings, *xconf.Config, error) {
	cfg, err := xconf.New(path)
	if err != nil {
		return Settings{}, nil, err
	}
	s, err := Load(cfg)
	if err != nil {
		return Settings{}, nil, err
	}
	return s, cfg, nil
}

// Validate 校验全部字段。
func (s Settings) Validate() error {
	if s.File == "" {
		return ErrEmptyFile
	}
	if _, err := s.Pipeline(); err != nil {
		return err
	}
	if s.Pool.Workers <= 0 || s.Pool.QueueSize <= 0 {
		return fmt.Errorf("%w: workers=%d queueSize=%d", ErrInvalidPool, s.Pool.Workers, s.Pool.QueueSize)
	}
	if !s.AutoFlush && s.FlushInterval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFlushInterval, s.FlushInterval)
	}
	if _, err := xlog.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	return nil
}

// Pipeline 转换为流水线的参数快照。
func (s Settings) Pipeline() (xrotate.Settings, error) {
	format, err := xarchive.ParseFormat(s.Archive.Format)
	if err != nil {
		return xrotate.Settings{}, err
	}
	ps := xrotate.Settings{
		Format:       format,
		Level:        s.Archive.Level,
		MaxBackups:   s.Retention.MaxBackups,
		RetentionExt: s.Retention.Extension,
	}
	if err := ps.Validate(); err != nil {
		return xrotate.Settings{}, err
	}
	return ps, nil
}

// PipelineOptions 返回构造流水线的选项，locker 为 nil 时不加目录锁。
func (s Settings) PipelineOptions(locker xkeylock.Locker) ([]xrotate.PipelineOption, error) {
	ps, err := s.Pipeline()
	if err != nil {
		return nil, err
	}
	opts := []xrotate.PipelineOption{
		xrotate.WithSettings(ps),
		xrotate.WithWorkers(s.Pool.Workers),
		xrotate.WithQueueSize(s.Pool.QueueSize),
	}
	if locker != nil && s.Retention.LockDirectory {
		opts = append(opts, xrotate.WithDirectoryLock(locker))
	}
	return opts, nil
}

// PeriodicOptions 返回周期轮转器的选项。
func (s Settings) PeriodicOptions(d xrotate.Dispatcher, onError func(error)) []xrotate.Option {
	opts := []xrotate.Option{
		xrotate.WithSuffix(s.Suffix),
		xrotate.WithSchedule(s.Schedule),
		xrotate.WithAppend(s.Append),
		xrotate.WithAutoFlush(s.AutoFlush),
	}
	if d != nil {
		opts = append(opts, xrotate.WithDispatcher(d))
	}
	if onError != nil {
		opts = append(opts, xrotate.WithOnError(onError))
	}
	return opts
}

// Reloadable 判断 next 相对 s 是否只改动了可热更新的 archive/retention 节。
func (s Settings) Reloadable(next Settings) bool {
	a, b := s, next
	a.Archive, b.Archive = Archive{}, Archive{}
	a.Retention.MaxBackups, b.Retention.MaxBackups = 0, 0
	a.Retention.Extension, b.Retention.Extension = "", ""
	return a == b
}
