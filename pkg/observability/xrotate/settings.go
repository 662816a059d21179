package xrotate

import (
	"fmt"

	"github.com/klauspost/compress/flate"

	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
)

// Settings 任务执行参数。按值传递，派发时复制进 [Job]。
type Settings struct {
	// Format 归档格式，默认 gzip
	Format xarchive.Format

	// Level 压缩级别（flate 级别）。零值表示 xarchive.DefaultLevel，
	// 不压缩需显式使用 [LevelNoCompression]。
	Level int

	// MaxBackups 保留的归档数量，<= 0 表示不清理
	MaxBackups int

	// RetentionExt 清理时匹配的扩展名，为空时使用 Format.Ext()。
	// 设为 ".gz" 时 zip 归档不参与计数。
	RetentionExt string
}

// LevelNoCompression 只存储不压缩。flate.NoCompression 的值为 0，
// 与 Level 的零值冲突，因此单独定义。
const LevelNoCompression = -100

// DefaultSettings 返回默认参数：gzip、默认压缩级别、不清理。
func DefaultSettings() Settings {
	return Settings{
		Format: xarchive.FormatGzip,
		Level:  xarchive.DefaultLevel,
	}
}

// Validate 校验格式与压缩级别。
func (s Settings) Validate() error {
	if !s.Format.Valid() {
		return fmt.Errorf("%w: %d", xarchive.ErrInvalidFormat, int(s.Format))
	}
	return xarchive.ValidateLevel(s.ArchiveLevel())
}

// ArchiveLevel 返回实际传给 xarchive 的压缩级别。
func (s Settings) ArchiveLevel() int {
	switch s.Level {
	case 0:
		return xarchive.DefaultLevel
	case LevelNoCompression:
		return flate.NoCompression
	default:
		return s.Level
	}
}

// Ext 返回清理时匹配的扩展名。
func (s Settings) Ext() string {
	if s.RetentionExt != "" {
		return s.RetentionExt
	}
	return s.Format.Ext()
}
