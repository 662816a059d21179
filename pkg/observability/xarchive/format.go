package xarchive

import (
	"fmt"
	"strings"
)

// Format 归档格式。零值为 [FormatGzip]。
type Format int

const (
	// FormatGzip 单成员 gzip 流，扩展名 ".gz"。
	FormatGzip Format = iota
	// FormatZip 单条目 zip 归档，扩展名 ".zip"。
	FormatZip
)

// String 返回格式名称："gzip" 或 "zip"。
func (f Format) String() string {
	switch f {
	case FormatGzip:
		return "gzip"
	case FormatZip:
		return "zip"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext 返回归档文件扩展名（含点号）。
func (f Format) Ext() string {
	switch f {
	case FormatZip:
		return ".zip"
	default:
		return ".gz"
	}
}

// Valid 报告格式是否为已知值。
func (f Format) Valid() bool {
	return f == FormatGzip || f == FormatZip
}

// ParseFormat 解析格式名称，大小写不敏感，接受 "gzip"、"gz"、"zip"。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gzip", "gz":
		return FormatGzip, nil
	case "zip":
		return FormatZip, nil
	default:
		return FormatGzip, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
}

// MarshalText 实现 encoding.TextMarshaler。
func (f Format) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，供配置解码使用。
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
