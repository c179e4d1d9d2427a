package xrotate

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 默认配置
const (
	DefaultMaxSizeMB  = 100
	DefaultMaxBackups = 7
	DefaultMaxAgeDays = 30
	DefaultCompress   = true

	maxSizeMB  = 10240
	maxBackups = 1024
	maxAgeDays = 3650
)

type lumberjackConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// Option lumberjack 配置选项
type Option func(*lumberjackConfig)

// WithMaxSize 设置单个日志文件最大大小（MB）
func WithMaxSize(mb int) Option {
	return func(c *lumberjackConfig) { c.maxSizeMB = mb }
}

// WithMaxBackups 设置保留的备份文件数量，0 表示不限数量（仍受 MaxAge 约束）
func WithMaxBackups(n int) Option {
	return func(c *lumberjackConfig) { c.maxBackups = n }
}

// WithMaxAge 设置备份保留天数，0 表示不按天数清理（仍受 MaxBackups 约束）
func WithMaxAge(days int) Option {
	return func(c *lumberjackConfig) { c.maxAgeDays = days }
}

// WithCompress 设置是否 gzip 压缩备份
func WithCompress(compress bool) Option {
	return func(c *lumberjackConfig) { c.compress = compress }
}

// WithLocalTime 设置备份文件名是否使用本地时间（默认 UTC）
func WithLocalTime(local bool) Option {
	return func(c *lumberjackConfig) { c.localTime = local }
}

type lumberjackRotator struct {
	logger *lumberjack.Logger
	closed atomic.Bool
}

// NewLumberjack 创建基于 lumberjack 的日志轮转器
//
// 路径会被规范化为绝对路径，父目录不存在时以 0750 创建。nil Option 被忽略。
func NewLumberjack(filename string, opts ...Option) (Rotator, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}

	cfg := lumberjackConfig{
		maxSizeMB:  DefaultMaxSizeMB,
		maxBackups: DefaultMaxBackups,
		maxAgeDays: DefaultMaxAgeDays,
		compress:   DefaultCompress,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	path, err := filepath.Abs(filepath.Clean(filename))
	if err != nil {
		return nil, fmt.Errorf("xrotate: resolve path %q: %w", filename, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("xrotate: create log dir: %w", err)
	}

	return &lumberjackRotator{
		logger: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.maxSizeMB,
			MaxBackups: cfg.maxBackups,
			MaxAge:     cfg.maxAgeDays,
			Compress:   cfg.compress,
			LocalTime:  cfg.localTime,
		},
	}, nil
}

func validate(cfg *lumberjackConfig) error {
	if cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxSizeMB {
		return fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidMaxSize, cfg.maxSizeMB, maxSizeMB)
	}
	if cfg.maxBackups < 0 || cfg.maxBackups > maxBackups {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxBackups, cfg.maxBackups, maxBackups)
	}
	if cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxAgeDays {
		return fmt.Errorf("%w: got %d, want 0~%d", ErrInvalidMaxAge, cfg.maxAgeDays, maxAgeDays)
	}
	if cfg.maxBackups == 0 && cfg.maxAgeDays == 0 {
		return ErrNoCleanupPolicy
	}
	return nil
}

// Write 实现 io.Writer 接口
func (r *lumberjackRotator) Write(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, ErrClosed
	}
	n, err := r.logger.Write(p)
	// Write 与 Close 并发时统一返回 ErrClosed
	if err != nil && r.closed.Load() {
		return n, ErrClosed
	}
	return n, err
}

// Close 实现 io.Closer 接口
func (r *lumberjackRotator) Close() error {
	if r.closed.Swap(true) {
		return ErrClosed
	}
	return r.logger.Close()
}

// Rotate 手动触发轮转
func (r *lumberjackRotator) Rotate() error {
	if r.closed.Load() {
		return ErrClosed
	}
	return r.logger.Rotate()
}
