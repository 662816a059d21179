package xfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限（所有者 rwx，组 r-x，其他无权限）
const DefaultDirPerm = 0750

// EnsureDir 确保文件的父目录存在，使用 [DefaultDirPerm] 创建。
// 目录已存在时不报错，也不修改其权限。
func EnsureDir(filename string) error {
	return EnsureDirWithPerm(filename, DefaultDirPerm)
}

// EnsureDirWithPerm 确保文件的父目录存在，使用指定权限
//
// perm 必须包含所有者执行位（0100），否则目录无法遍历。
// 底层使用 os.MkdirAll，会跟随符号链接。
func EnsureDirWithPerm(filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// IsRegularFile 报告 path 是否存在且为普通文件。
//
// 符号链接会被跟随；stat 失败（包括不存在）时返回 false 和底层错误。
func IsRegularFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
