package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnknownLevel 无法识别的级别名称
var ErrUnknownLevel = errors.New("xlog: unknown level")

// Level 日志级别，底层即 slog.Level
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// levelNames 可解析的名称，键为小写
var levelNames = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

// String 标准级别输出大写名称，其余沿用 slog 的 "INFO+2" 形式。
func (l Level) String() string {
	return slog.Level(l).String()
}

// Slog 转换为 slog.Level。
func (l Level) Slog() slog.Level {
	return slog.Level(l)
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText 供 koanf 等解码器直接解析配置中的级别字符串。
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 解析级别名称，忽略大小写与首尾空白。
// 失败时返回 LevelInfo 和包装了 ErrUnknownLevel 的错误。
func ParseLevel(s string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("%w %q", ErrUnknownLevel, s)
}
