package xlog

import (
	"log/slog"
	"time"
)

// 常用属性 key
const (
	KeyError     = "error"
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyPath      = "path"
	KeyCount     = "count"
	KeyDuration  = "duration"
)

// Err 创建错误属性，err 为 nil 时返回空属性（会被 slog 忽略）。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Path 创建文件路径属性
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Count 创建计数属性
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Duration 创建耗时属性
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}
