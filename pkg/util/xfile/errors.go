package xfile

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfile: path is required")

	// ErrInvalidPath 表示路径格式无效（如目录路径）。
	ErrInvalidPath = errors.New("xfile: invalid path")

	// ErrPathTraversal 表示检测到 ".." 路径段。
	ErrPathTraversal = errors.New("xfile: path traversal detected")

	// ErrNullByte 表示路径中包含空字节（\x00），内核会在空字节处截断路径。
	ErrNullByte = errors.New("xfile: path contains null byte")

	// ErrInvalidPerm 表示目录权限缺少所有者执行位。
	ErrInvalidPerm = errors.New("xfile: invalid directory permission")
)
