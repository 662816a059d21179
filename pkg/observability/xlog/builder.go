package xlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/omeyang/xlogroll/pkg/observability/xrotate"
)

// Builder 日志配置构建器，一次性使用
type Builder struct {
	output    io.Writer
	level     Level
	format    string
	addSource bool
	component string
	rotator   xrotate.Rotator
	onError   func(error)
	err       error
}

// New 创建配置构建器，默认输出到 stderr、INFO 级别、text 格式
func New() *Builder {
	return &Builder{
		output: os.Stderr,
		level:  LevelInfo,
		format: "text",
	}
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if b.err == nil && w != nil {
		b.output = w
	}
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	if b.err == nil {
		b.level = level
	}
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	if b.err != nil {
		return b
	}
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值视为 text
func (b *Builder) SetFormat(format string) *Builder {
	if b.err != nil {
		return b
	}
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.err = fmt.Errorf("xlog: unknown format %q", format)
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetComponent 为每条日志添加固定的 component 属性
func (b *Builder) SetComponent(name string) *Builder {
	b.component = name
	return b
}

// SetRotation 输出到按大小轮转的文件，cleanup 时关闭
func (b *Builder) SetRotation(filename string, opts ...xrotate.Option) *Builder {
	if b.err != nil {
		return b
	}
	rotator, err := xrotate.NewLumberjack(filename, opts...)
	if err != nil {
		b.err = err
		return b
	}
	b.rotator = rotator
	b.output = rotator
	return b
}

// SetOnError 设置 Handler 写入失败时的回调
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build 构建 Logger，返回值依次为 Logger、清理函数、配置错误
func (b *Builder) Build() (*Logger, func() error, error) {
	if b.err != nil {
		// 已创建的轮转文件不再使用
		if b.rotator != nil {
			_ = b.rotator.Close()
		}
		return nil, nil, b.err
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(b.level))
	opts := &slog.HandlerOptions{Level: levelVar, AddSource: b.addSource}

	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if b.onError != nil {
		handler = &errorHandler{Handler: handler, onError: b.onError}
	}
	if b.component != "" {
		handler = handler.WithAttrs([]slog.Attr{Component(b.component)})
	}

	var once sync.Once
	rotator := b.rotator
	cleanup := func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}
	return &Logger{Logger: slog.New(handler), level: levelVar}, cleanup, nil
}

// Logger 内嵌 *slog.Logger，支持运行时调整级别
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// SetLevel 调整级别，对所有派生 Logger 生效
func (l *Logger) SetLevel(level Level) {
	l.level.Set(slog.Level(level))
}

// Level 返回当前级别
func (l *Logger) Level() Level {
	return Level(l.level.Level())
}

// errorHandler 把 Handle 错误交给回调
type errorHandler struct {
	slog.Handler
	onError func(error)
}

func (h *errorHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	if err != nil {
		func() {
			defer func() { recover() }() //nolint:errcheck // 回调 panic 不影响日志调用方
			h.onError(err)
		}()
	}
	return err
}

func (h *errorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorHandler{Handler: h.Handler.WithAttrs(attrs), onError: h.onError}
}

func (h *errorHandler) WithGroup(name string) slog.Handler {
	return &errorHandler{Handler: h.Handler.WithGroup(name), onError: h.onError}
}
