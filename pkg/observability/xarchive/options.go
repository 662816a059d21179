package xarchive

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/flate"
)

const (
	// DefaultLevel 默认压缩级别。
	DefaultLevel = flate.DefaultCompression

	// DefaultFileMode 归档文件默认权限。
	DefaultFileMode os.FileMode = 0640
)

// Option 配置 [Archive]。
type Option func(*options)

type options struct {
	level int
	mode  os.FileMode
}

func defaultOptions() options {
	return options{level: DefaultLevel, mode: DefaultFileMode}
}

// WithLevel 设置压缩级别，取值范围与 flate 一致：
// flate.HuffmanOnly(-2) 到 flate.BestCompression(9)。
func WithLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFileMode 设置归档文件权限，0 表示使用默认值 0640。
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.mode = mode
		}
	}
}

// ValidateLevel 检查压缩级别是否在 flate 支持的范围内。
func ValidateLevel(level int) error {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return fmt.Errorf("%w: %d (range %d..%d)",
			ErrInvalidLevel, level, flate.HuffmanOnly, flate.BestCompression)
	}
	return nil
}
