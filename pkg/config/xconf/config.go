package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文件格式。
type Format string

// 支持的配置格式。
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const (
	delim = "."
	tag   = "koanf"
)

// Config 一份已加载的配置，并发安全。
type Config struct {
	mu     sync.RWMutex
	k      *koanf.Koanf
	path   string
	format Format
}

// New 从文件加载配置，格式由扩展名决定。
func New(path string) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}
	c := &Config{path: path, format: format}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromBytes 从内存数据加载配置，空数据得到空配置。
func NewFromBytes(data []byte, format Format) (*Config, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	k, err := load(data, format)
	if err != nil {
		return nil, err
	}
	return &Config{k: k, format: format}, nil
}

// Unmarshal 把 path 下的配置解码到 target，path 为空时解码整个配置。
// target 中已有的值作为默认值保留。
func (c *Config) Unmarshal(path string, target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := c.k.UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: tag}); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Exists 报告 key 是否存在。
func (c *Config) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.k.Exists(key)
}

// Reload 重新读取文件。解析失败时保留旧配置。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotReloadable
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := load(data, c.format)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.k = k
	c.mu.Unlock()
	return nil
}

// Path 返回配置文件路径，从内存创建时为空。
func (c *Config) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *Config) Format() Format {
	return c.format
}

func detectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

func load(data []byte, format Format) (*koanf.Koanf, error) {
	k := koanf.New(delim)
	if len(data) == 0 {
		return k, nil
	}
	var parser koanf.Parser = yaml.Parser()
	if format == FormatJSON {
		parser = json.Parser()
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}
