package xfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// hasDotDotSegment 检测路径中是否包含 ".." 作为独立路径段。
// '/' 和 '\' 都视为分隔符。
func hasDotDotSegment(path string) bool {
	for seg := range strings.FieldsFuncSeq(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// SanitizePath 对日志文件路径进行检查和规范化
//
// 仅做格式净化，不限制目标目录：
//   - 规范化（消除 . 和冗余分隔符）
//   - 拒绝空路径、空字节、尾随分隔符
//   - 拒绝规范化后仍残留的 ".." 段（即相对路径穿越）
//
// 绝对路径中的 ".." 会被 filepath.Clean 解析，例如 "/var/log/../tmp/a.log" -> "/var/tmp/a.log"。
func SanitizePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	// 必须在 Clean 之前检查，Clean 会移除尾部分隔符
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}

	cleaned := filepath.Clean(filename)
	// Clean 只识别 '/'，"a\\/." 会被规范化为 "a\\"
	if strings.HasSuffix(cleaned, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrInvalidPath)
	}
	if hasDotDotSegment(cleaned) {
		return "", fmt.Errorf("path traversal in filename: %w", ErrPathTraversal)
	}

	base := filepath.Base(cleaned)
	if base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrInvalidPath)
	}
	return cleaned, nil
}
