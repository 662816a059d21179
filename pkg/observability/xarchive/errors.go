package xarchive

import "errors"

var (
	// ErrSourceMissing 表示待归档文件不存在或不是普通文件。
	ErrSourceMissing = errors.New("xarchive: source missing")

	// ErrWriteFailure 表示归档文件创建、写入或关闭失败。
	ErrWriteFailure = errors.New("xarchive: write failure")

	// ErrRemoveSource 表示归档已成功写出，但源文件删除失败。
	ErrRemoveSource = errors.New("xarchive: remove source failed")

	// ErrInvalidFormat 表示无法识别的归档格式。
	ErrInvalidFormat = errors.New("xarchive: invalid format")

	// ErrInvalidLevel 表示压缩级别超出范围。
	ErrInvalidLevel = errors.New("xarchive: invalid compression level")
)
