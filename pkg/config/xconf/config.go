package xconf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置格式。
type Format string

const (
	// FormatYAML YAML 格式。
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config 是一份已解析的配置。
type Config struct {
	path   string
	format Format
	opts   options

	// reloadMu 串行化 Reload，避免较早读到的文件覆盖较新的结果
	reloadMu sync.Mutex
	k        atomic.Pointer[koanf.Koanf]
	version  atomic.Uint64
}

// Load 从文件加载配置，格式由扩展名决定。空文件视为空配置。
func Load(path string, opts ...Option) (*Config, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	c := &Config{path: path, format: format, opts: applyOptions(opts)}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadBytes 从字节数据加载配置，需显式指定格式。
// 返回的 Config 不支持 Reload 和 Watch。
func LoadBytes(data []byte, format Format, opts ...Option) (*Config, error) {
	c := &Config{format: format, opts: applyOptions(opts)}
	k, err := c.parse(data)
	if err != nil {
		return nil, err
	}
	c.k.Store(k)
	c.version.Store(1)
	return c, nil
}

// FormatOf 根据文件扩展名返回配置格式。
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Reload 重新读取配置文件。解析失败时保留当前配置并返回错误。
func (c *Config) Reload() error {
	if c.path == "" {
		return ErrNotFromFile
	}

	c.reloadMu.Lock()
	defer c.reloadMu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	k, err := c.parse(data)
	if err != nil {
		return err
	}
	c.k.Store(k)
	c.version.Add(1)
	return nil
}

func (c *Config) parse(data []byte) (*koanf.Koanf, error) {
	var parser koanf.Parser
	switch c.format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, c.format)
	}

	k := koanf.New(c.opts.delim)
	if len(data) == 0 {
		return k, nil
	}
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return k, nil
}

// Client 返回当前配置快照对应的 koanf 实例。Reload 之后旧实例仍可读，但内容不再更新。
func (c *Config) Client() *koanf.Koanf {
	return c.k.Load()
}

// Unmarshal 将 path 下的配置解码到 target，path 为空时解码整个配置。
func (c *Config) Unmarshal(path string, target any) error {
	err := c.k.Load().UnmarshalWithConf(path, target, koanf.UnmarshalConf{Tag: c.opts.tag})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return nil
}

// Path 返回配置文件路径，LoadBytes 创建的 Config 返回空字符串。
func (c *Config) Path() string {
	return c.path
}

// Format 返回配置格式。
func (c *Config) Format() Format {
	return c.format
}

// Version 返回成功加载的次数，每次 Reload 成功加一。
func (c *Config) Version() uint64 {
	return c.version.Load()
}
