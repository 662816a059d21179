package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器接口
//
// 是 [io.WriteCloser] 的超集，可直接作为 xlog 的输出目标。
// 所有实现都必须是并发安全的：
//   - Close 后调用 Write 或 Rotate 返回 [ErrClosed]
//   - 重复 Close 返回 [ErrClosed]
type Rotator interface {
	// Write 写入日志数据，满足轮转条件时先轮转
	Write(p []byte) (n int, err error)

	// Close 关闭轮转器，释放资源
	Close() error

	// Rotate 立即轮转：当前文件改名为备份，打开新文件
	Rotate() error
}
