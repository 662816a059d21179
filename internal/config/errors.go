package config

import "errors"

var (
	// ErrEmptyFile 表示未配置日志文件路径。
	ErrEmptyFile = errors.New("config: empty log file")

	// ErrInvalidPool 表示 pool 节参数无效。
	ErrInvalidPool = errors.New("config: invalid pool settings")

	// ErrInvalidFlushInterval 表示关闭自动落盘时未给出有效的刷盘间隔。
	ErrInvalidFlushInterval = errors.New("config: invalid flush interval")
)
