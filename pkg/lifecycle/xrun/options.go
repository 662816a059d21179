package xrun

import (
	"log/slog"
	"os"
	"syscall"
)

// Option 配置 Group 的选项函数。
type Option func(*groupOptions)

type groupOptions struct {
	logger          *slog.Logger
	name            string
	signals         []os.Signal
	noSignalHandler bool
}

func defaultOptions() *groupOptions {
	return &groupOptions{
		logger: slog.Default(),
		name:   "xrun",
	}
}

// DefaultSignals 返回默认监听的退出信号。
func DefaultSignals() []os.Signal {
	return []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}

// WithLogger 设置日志记录器，默认 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *groupOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Group 名称，用于日志。
func WithName(name string) Option {
	return func(o *groupOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 RunWithOptions 监听的信号，空列表等价于 [DefaultSignals]。
func WithSignals(signals []os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *groupOptions) {
		o.signals = copied
	}
}

// WithoutSignalHandler 禁用信号监听。
func WithoutSignalHandler() Option {
	return func(o *groupOptions) {
		o.noSignalHandler = true
	}
}
